package handlers

import (
	"fmt"
	"strings"

	"gostspec/internal/params"
	"gostspec/internal/units"
	"gostspec/pkg/domain"
)

// hostClass resolves the class of the element hosting an insulation layer.
func hostClass(el domain.Element, doc domain.Document) (domain.ElementClass, bool) {
	hosted, ok := el.(domain.HostedElement)
	if !ok {
		return "", false
	}
	host, ok := doc.Element(hosted.HostID())
	if !ok {
		return "", false
	}
	return host.Class(), true
}

type pipeInsulationHandler struct{ common }

func newPipeInsulationHandler(names params.Names) pipeInsulationHandler {
	return pipeInsulationHandler{common{category: domain.CategoryPipeInsulation, names: names}}
}

// Process names and counts pipe insulation according to the marker on its
// type: "1" and "2" pick the name template, "Д", "П" and "О" pick the unit.
func (h pipeInsulationHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	if el.Class() != domain.ClassPipeInsulation {
		return Outcome{Rejected: true}
	}
	acc := params.NewAccessor(doc)
	if class, _ := hostClass(el, doc); class != domain.ClassPipe {
		return Outcome{Excluded: true, Named: h.setName(acc, el, domain.ExcludeName)}
	}
	n := h.names
	typ := typeOf(acc, el)
	marker := acc.String(typ, n.SourceInsulationType, "")
	thicknessMM := units.ToMillimeters(acc.Double(el, n.Thickness, 0))

	var out Outcome
	out.step("name", func() { out.Named = h.setName(acc, el, h.name(acc, el, marker, thicknessMM)) })
	out.step("copy", func() { out.Copied = h.copyStandard(acc, el, typ) })
	out.step("count", func() {
		switch {
		case marker == "":
			out.Counted = h.setCount(acc, el, domain.ErrorQuantity)
		case strings.Contains(marker, "Д"):
			lengthMM := units.ToMillimeters(acc.Double(el, n.Length, 0))
			out.Counted = h.setCount(acc, el, lengthMM*reserve/1000)
		case strings.Contains(marker, "П"):
			area := units.ToSquareMeters(acc.Double(el, n.Area, 0))
			out.Counted = h.setCount(acc, el, area*reserve)
		case strings.Contains(marker, "О"):
			area := units.ToSquareMeters(acc.Double(el, n.Area, 0))
			out.Counted = h.setCount(acc, el, reserve*area*thicknessMM/1000)
		}
	})
	return out
}

func (h pipeInsulationHandler) name(acc params.Accessor, el domain.Element, marker string, thicknessMM float64) string {
	n := h.names
	source := acc.String(el, n.SourceName, "")
	switch {
	case strings.Contains(marker, "1"):
		return fmt.Sprintf("%s %sмм, для труб %s", source, plain(thicknessMM), acc.String(el, n.PipeSize, ""))
	case strings.Contains(marker, "2"):
		size := acc.Double(el, n.SourceInsulationSize, 0)
		return fmt.Sprintf("%s %sмм, диаметром %sмм", source, plain(thicknessMM), oneDecimal(size))
	}
	return source
}

type ductInsulationHandler struct{ common }

func newDuctInsulationHandler(names params.Names) ductInsulationHandler {
	return ductInsulationHandler{common{category: domain.CategoryDuctInsulation, names: names}}
}

func (h ductInsulationHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	if el.Class() != domain.ClassDuctInsulation {
		return Outcome{Rejected: true}
	}
	acc := params.NewAccessor(doc)
	if class, _ := hostClass(el, doc); class != domain.ClassDuct {
		return Outcome{Excluded: true, Named: h.setName(acc, el, domain.ExcludeName)}
	}
	n := h.names
	return h.steps(acc, el, nil,
		func() string {
			thicknessMM := units.ToMillimeters(acc.Double(el, n.Thickness, 0))
			return fmt.Sprintf("%s δ=%sмм", acc.String(el, n.SourceName, ""), plain(thicknessMM))
		},
		func() float64 { return units.ToSquareMeters(acc.Double(el, n.Area, 0)) * reserve },
	)
}
