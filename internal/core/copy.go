package core

import (
	"fmt"
	"math"

	"gostspec/internal/categories"
	"gostspec/internal/handlers"
	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

// ParameterCopyService propagates system names and runs the category
// handlers over a document. Each step isolates failures per element.
type ParameterCopyService struct {
	names   params.Names
	factory *handlers.Factory
	logger  Logger
}

// NewParameterCopyService builds the service with its handler table.
func NewParameterCopyService(names params.Names, logger Logger) *ParameterCopyService {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ParameterCopyService{
		names:   names,
		factory: handlers.NewFactory(names),
		logger:  logger,
	}
}

// Execute runs every step in order and reports what was written. The three
// system name strategies only fill empty targets, so their order matters.
func (s *ParameterCopyService) Execute(doc domain.Document) (domain.CopyReport, error) {
	if doc == nil {
		return domain.CopyReport{}, domain.ErrNoDocument
	}
	acc := params.NewAccessor(doc)
	report := domain.CopyReport{ReserveCoefficient: s.reserve(doc)}
	report.NestedCopied = s.inheritNested(doc, acc)
	report.NativeCopied = s.copyNative(doc, acc)
	report.ConnectorCopied = s.inferFromConnectors(doc, acc)
	report.SubgroupCopied = s.copySubgroups(doc, acc)
	report.Categories = s.sweep(doc, report.ReserveCoefficient)
	return report, nil
}

func (s *ParameterCopyService) reserve(doc domain.Document) float64 {
	v, ok := doc.GlobalNumber(s.names.Reserve)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1.0
	}
	return v
}

// isolate runs fn and turns a panic into a debug log entry.
func (s *ParameterCopyService) isolate(step string, el domain.Element, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("element skipped", "step", step, "element", el.ID(), "error", fmt.Sprint(r))
		}
	}()
	fn()
}

func (s *ParameterCopyService) systemOf(acc params.Accessor, el domain.Element) string {
	return acc.String(el, s.names.System, "")
}

// rootOf follows the super-component chain of a family instance. Cycles stop
// at the first repeated element.
func rootOf(fi domain.FamilyInstance) domain.FamilyInstance {
	seen := map[domain.ElementID]bool{fi.ID(): true}
	root := fi
	for {
		super, ok := root.SuperComponent()
		if !ok {
			return root
		}
		next, ok := super.(domain.FamilyInstance)
		if !ok || seen[next.ID()] {
			return root
		}
		seen[next.ID()] = true
		root = next
	}
}

func (s *ParameterCopyService) inheritNested(doc domain.Document, acc params.Accessor) int {
	copied := 0
	for _, c := range categories.Mechanical() {
		for _, el := range doc.ElementsByCategory(c) {
			s.isolate("nested", el, func() {
				fi, ok := el.(domain.FamilyInstance)
				if !ok || s.systemOf(acc, el) != "" {
					return
				}
				root := rootOf(fi)
				if root.ID() == el.ID() {
					return
				}
				if system := s.systemOf(acc, root); system != "" && acc.SetString(el, s.names.System, system) {
					copied++
				}
			})
		}
	}
	return copied
}

func (s *ParameterCopyService) copyNative(doc domain.Document, acc params.Accessor) int {
	copied := 0
	for _, c := range categories.NativeSystem() {
		for _, el := range doc.ElementsByCategory(c) {
			s.isolate("native", el, func() {
				if s.systemOf(acc, el) != "" {
					return
				}
				if native := acc.String(el, s.names.RevitSystemName, ""); native != "" && acc.SetString(el, s.names.System, native) {
					copied++
				}
			})
		}
	}
	return copied
}

func (s *ParameterCopyService) inferFromConnectors(doc domain.Document, acc params.Accessor) int {
	copied := 0
	for _, c := range categories.Connected() {
		for _, el := range doc.ElementsByCategory(c) {
			s.isolate("connector", el, func() {
				fi, ok := el.(domain.FamilyInstance)
				if !ok || s.systemOf(acc, el) != "" {
					return
				}
				if s.assignFromPeers(acc, fi) {
					copied++
				}
			})
		}
	}
	return copied
}

// assignFromPeers writes the system of the first connected pipe or duct that
// has one and stops at the first successful write.
func (s *ParameterCopyService) assignFromPeers(acc params.Accessor, fi domain.FamilyInstance) bool {
	for _, conn := range fi.Connectors() {
		if !conn.IsConnected() {
			continue
		}
		for _, peer := range conn.ConnectedElements() {
			if peer == nil || peer.ID() == fi.ID() {
				continue
			}
			if class := peer.Class(); class != domain.ClassPipe && class != domain.ClassDuct {
				continue
			}
			if system := s.peerSystem(acc, peer); system != "" && acc.SetString(fi, s.names.System, system) {
				return true
			}
		}
	}
	return false
}

func (s *ParameterCopyService) peerSystem(acc params.Accessor, peer domain.Element) string {
	if v := acc.String(peer, s.names.RevitSystemName, ""); v != "" {
		return v
	}
	if v := s.systemOf(acc, peer); v != "" {
		return v
	}
	if curve, ok := peer.(domain.MEPCurve); ok {
		if v, ok := curve.MEPSystemName(); ok {
			return v
		}
	}
	return ""
}

func (s *ParameterCopyService) copySubgroups(doc domain.Document, acc params.Accessor) int {
	copied := 0
	for _, c := range categories.Subgroup() {
		for _, el := range doc.ElementsByCategory(c) {
			s.isolate("subgroup", el, func() {
				if s.systemOf(acc, el) != "" {
					return
				}
				if fi, ok := el.(domain.FamilyInstance); ok {
					if root := rootOf(fi); root.ID() != el.ID() {
						value := s.systemOf(acc, root)
						if value == "" {
							value = s.subgroupOf(acc, root)
						}
						if value != "" {
							if acc.SetString(el, s.names.System, value) {
								copied++
							}
							return
						}
					}
				}
				if value := s.subgroupOf(acc, el); value != "" && acc.SetString(el, s.names.System, value) {
					copied++
				}
			})
		}
	}
	return copied
}

// subgroupOf tries the subgroup parameter, then the instance's family name,
// then the family name on the type of a family instance.
func (s *ParameterCopyService) subgroupOf(acc params.Accessor, el domain.Element) string {
	if v := acc.String(el, s.names.Subgroup, ""); v != "" {
		return v
	}
	if p, ok := el.LookupParameter(s.names.Subgroup); ok {
		if v := textOf(p); v != "" {
			return v
		}
	}
	if p, ok := el.BuiltInParameter(domain.BuiltInFamilyName); ok {
		if v := textOf(p); v != "" {
			return v
		}
	}
	if _, ok := el.(domain.FamilyInstance); ok {
		if typ, ok := acc.TypeOf(el); ok {
			if p, ok := typ.BuiltInParameter(domain.BuiltInFamilyName); ok && p.HasValue() {
				return p.AsString()
			}
		}
	}
	return ""
}

func textOf(p domain.Parameter) string {
	if !p.HasValue() {
		return ""
	}
	if v := p.AsString(); v != "" {
		return v
	}
	return p.ValueString()
}

func (s *ParameterCopyService) sweep(doc domain.Document, reserve float64) map[domain.Category]domain.CategoryStats {
	stats := make(map[domain.Category]domain.CategoryStats)
	for _, c := range s.factory.Categories() {
		h, _ := s.factory.Get(c)
		var st domain.CategoryStats
		for _, el := range doc.ElementsByCategory(c) {
			if el.Class().IsSystem() || categories.IsReserved(el.Category()) {
				st.Skipped++
				continue
			}
			out, err := handlers.Apply(h, el, doc, reserve)
			switch {
			case err != nil:
				s.logger.Debug("element skipped", "step", "sweep", "element", el.ID(), "error", err)
				st.Skipped++
			case out.Rejected:
				st.Skipped++
			default:
				st.Processed++
				if out.Excluded {
					st.Excluded++
				}
				if len(out.Faults) > 0 {
					s.logger.Debug("element steps skipped", "step", "sweep", "element", el.ID(), "faults", out.Faults)
				}
			}
		}
		stats[c] = st
	}
	return stats
}
