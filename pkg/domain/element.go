// Package domain defines the host model contract used by gostspec: elements,
// parameters, schedules, documents, and the transactional store that wraps
// them. The rule engine only ever talks to these interfaces.
package domain

// ElementID identifies an element inside a host document. Zero means "no element".
type ElementID int64

// ElementClass identifies the concrete host class behind an element handle.
type ElementClass string

// Host classes recognised by the rule engine.
const (
	ClassGeneric          ElementClass = "generic"
	ClassFamilyInstance   ElementClass = "family_instance"
	ClassElementType      ElementClass = "element_type"
	ClassPipe             ElementClass = "pipe"
	ClassDuct             ElementClass = "duct"
	ClassFlexPipe         ElementClass = "flex_pipe"
	ClassFlexDuct         ElementClass = "flex_duct"
	ClassPipeInsulation   ElementClass = "pipe_insulation"
	ClassDuctInsulation   ElementClass = "duct_insulation"
	ClassCableTray        ElementClass = "cable_tray"
	ClassConduit          ElementClass = "conduit"
	ClassPipingSystem     ElementClass = "piping_system"
	ClassMechanicalSystem ElementClass = "mechanical_system"
	ClassElectricalSystem ElementClass = "electrical_system"
)

// IsSystem reports whether the class is a system container rather than a physical element.
func (c ElementClass) IsSystem() bool {
	switch c {
	case ClassPipingSystem, ClassMechanicalSystem, ClassElectricalSystem:
		return true
	default:
		return false
	}
}

// BuiltInParameter names a host-defined parameter that is not looked up by display name.
type BuiltInParameter string

// BuiltInFamilyName is the family name attribute carried by every model element.
const BuiltInFamilyName BuiltInParameter = "ALL_MODEL_FAMILY_NAME"

// Element is an opaque handle to a model object owned by the host document.
type Element interface {
	ID() ElementID
	Category() Category
	Class() ElementClass
	// TypeID returns the id of the element's type element, if it has one.
	TypeID() (ElementID, bool)
	// LookupParameter resolves a parameter by display name on the element itself.
	LookupParameter(name string) (Parameter, bool)
	BuiltInParameter(bip BuiltInParameter) (Parameter, bool)
}

// FamilyInstance is implemented by loadable family instances.
type FamilyInstance interface {
	Element
	// SuperComponent returns the instance this one is nested in.
	SuperComponent() (Element, bool)
	Connectors() []Connector
}

// MEPCurve is implemented by pipes and ducts that belong to an MEP system.
type MEPCurve interface {
	Element
	MEPSystemName() (string, bool)
}

// HostedElement is implemented by elements attached to a host, such as insulation.
type HostedElement interface {
	Element
	HostID() ElementID
}

// Connector is a single MEP connection point.
type Connector interface {
	IsConnected() bool
	// ConnectedElements returns the owners of every connector this one is joined to.
	ConnectedElements() []Element
}
