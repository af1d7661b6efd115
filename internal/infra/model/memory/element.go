package memory

import (
	"gostspec/pkg/domain"
)

type element struct {
	rec *ElementRecord
	tx  *state
}

func (e *element) ID() domain.ElementID       { return e.rec.ID }
func (e *element) Category() domain.Category  { return e.rec.Category }
func (e *element) Class() domain.ElementClass { return e.rec.Class }

func (e *element) TypeID() (domain.ElementID, bool) {
	return e.rec.TypeID, e.rec.TypeID != 0
}

func (e *element) LookupParameter(name string) (domain.Parameter, bool) {
	rec, ok := e.rec.Parameters[name]
	if !ok {
		return nil, false
	}
	return &parameter{name: name, owner: e.rec.ID, rec: rec, tx: e.tx}, true
}

func (e *element) BuiltInParameter(bip domain.BuiltInParameter) (domain.Parameter, bool) {
	rec, ok := e.rec.BuiltIns[bip]
	if !ok {
		return nil, false
	}
	return &parameter{name: string(bip), owner: e.rec.ID, rec: rec, tx: e.tx}, true
}

// familyInstance is a loadable component that may be nested and carry connectors.
type familyInstance struct{ *element }

var _ domain.FamilyInstance = familyInstance{}

func (f familyInstance) SuperComponent() (domain.Element, bool) {
	if f.rec.SuperComponent == 0 {
		return nil, false
	}
	return f.tx.element(f.rec.SuperComponent)
}

func (f familyInstance) Connectors() []domain.Connector {
	out := make([]domain.Connector, 0, len(f.rec.Connectors))
	for _, c := range f.rec.Connectors {
		out = append(out, connector{ids: c.Connected, tx: f.tx})
	}
	return out
}

// curve is a pipe, duct, flexible segment, cable tray or conduit.
type curve struct{ *element }

var _ domain.MEPCurve = curve{}

func (c curve) MEPSystemName() (string, bool) {
	return c.rec.MEPSystem, c.rec.MEPSystem != ""
}

// insulation is hosted by a pipe or duct.
type insulation struct{ *element }

var _ domain.HostedElement = insulation{}

func (i insulation) HostID() domain.ElementID { return i.rec.Host }

type connector struct {
	ids []domain.ElementID
	tx  *state
}

func (c connector) IsConnected() bool { return len(c.ids) > 0 }

func (c connector) ConnectedElements() []domain.Element {
	out := make([]domain.Element, 0, len(c.ids))
	for _, id := range c.ids {
		if el, ok := c.tx.element(id); ok {
			out = append(out, el)
		}
	}
	return out
}

func wrap(rec *ElementRecord, tx *state) domain.Element {
	base := &element{rec: rec, tx: tx}
	switch rec.Class {
	case domain.ClassFamilyInstance:
		return familyInstance{base}
	case domain.ClassPipe, domain.ClassDuct, domain.ClassFlexPipe, domain.ClassFlexDuct,
		domain.ClassCableTray, domain.ClassConduit:
		return curve{base}
	case domain.ClassPipeInsulation, domain.ClassDuctInsulation:
		return insulation{base}
	}
	return base
}
