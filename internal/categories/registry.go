// Package categories enumerates the element categories the rule engine
// recognises and partitions them into the subsets each pass works on.
package categories

import (
	"slices"

	"gostspec/pkg/domain"
)

// Group is the discipline a category belongs to.
type Group string

// Category groups.
const (
	GroupUnknown    Group = ""
	GroupMechanical Group = "mechanical"
	GroupElectrical Group = "electrical"
	GroupLowVoltage Group = "low_voltage"
	GroupReserved   Group = "reserved"
)

var mechanical = []domain.Category{
	domain.CategoryPipe,
	domain.CategoryFlexPipe,
	domain.CategoryPipeFitting,
	domain.CategoryPipeAccessory,
	domain.CategoryPipeInsulation,
	domain.CategoryMechanicalEquipment,
	domain.CategoryPlumbingFixture,
	domain.CategorySprinkler,
	domain.CategoryDuct,
	domain.CategoryFlexDuct,
	domain.CategoryDuctFitting,
	domain.CategoryDuctAccessory,
	domain.CategoryDuctInsulation,
	domain.CategoryAirTerminal,
}

var nativeSystem = []domain.Category{
	domain.CategoryPipe,
	domain.CategoryFlexPipe,
	domain.CategoryDuct,
	domain.CategoryFlexDuct,
}

var connected = []domain.Category{
	domain.CategoryPipeFitting,
	domain.CategoryPipeAccessory,
	domain.CategorySprinkler,
	domain.CategoryPlumbingFixture,
	domain.CategoryMechanicalEquipment,
	domain.CategoryDuctFitting,
	domain.CategoryDuctAccessory,
	domain.CategoryAirTerminal,
}

var electrical = []domain.Category{
	domain.CategoryCableTray,
	domain.CategoryCableTrayFitting,
	domain.CategoryConduit,
	domain.CategoryConduitFitting,
	domain.CategoryElectricalFixture,
	domain.CategoryElectricalEquipment,
	domain.CategoryLightingFixture,
}

var lowVoltage = []domain.Category{
	domain.CategoryDataDevice,
	domain.CategoryTelephoneDevice,
	domain.CategorySecurityDevice,
	domain.CategoryFireAlarmDevice,
	domain.CategoryNurseCallDevice,
	domain.CategoryCommunicationDevice,
}

var reserved = []domain.Category{
	domain.CategoryPipingSystem,
	domain.CategoryDuctSystem,
	domain.CategoryReserved,
}

// Mechanical returns the mechanical and plumbing categories that take part in
// nested-family system inheritance.
func Mechanical() []domain.Category { return slices.Clone(mechanical) }

// NativeSystem returns the curve categories whose host system name is copied directly.
func NativeSystem() []domain.Category { return slices.Clone(nativeSystem) }

// Connected returns the categories whose system is inferred from connected pipes and ducts.
func Connected() []domain.Category { return slices.Clone(connected) }

// Electrical returns the power and cable-routing categories.
func Electrical() []domain.Category { return slices.Clone(electrical) }

// LowVoltage returns the signal and safety device categories.
func LowVoltage() []domain.Category { return slices.Clone(lowVoltage) }

// Subgroup returns the categories that inherit their system from a subgroup attribute.
func Subgroup() []domain.Category { return slices.Concat(electrical, lowVoltage) }

// Reserved returns container categories that are never processed as elements.
func Reserved() []domain.Category { return slices.Clone(reserved) }

// IsReserved reports whether c is a container category.
func IsReserved(c domain.Category) bool { return slices.Contains(reserved, c) }

// GroupOf returns the discipline of c.
func GroupOf(c domain.Category) Group {
	switch {
	case slices.Contains(mechanical, c):
		return GroupMechanical
	case slices.Contains(electrical, c):
		return GroupElectrical
	case slices.Contains(lowVoltage, c):
		return GroupLowVoltage
	case slices.Contains(reserved, c):
		return GroupReserved
	}
	return GroupUnknown
}

// All returns every recognised non-reserved category.
func All() []domain.Category { return slices.Concat(mechanical, electrical, lowVoltage) }
