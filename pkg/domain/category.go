package domain

import "strconv"

// Category is the host's stable numeric category code (negative built-in ids).
type Category int

// Mechanical and plumbing categories.
const (
	CategoryPipe                Category = -2008044
	CategoryPipeFitting         Category = -2008049
	CategoryPipeAccessory       Category = -2008055
	CategoryFlexPipe            Category = -2008050
	CategoryPipeInsulation      Category = -2008122
	CategoryMechanicalEquipment Category = -2001140
	CategoryPlumbingFixture     Category = -2001160
	CategorySprinkler           Category = -2008099
	CategoryDuct                Category = -2008000
	CategoryDuctFitting         Category = -2008010
	CategoryDuctAccessory       Category = -2008016
	CategoryAirTerminal         Category = -2008013
	CategoryFlexDuct            Category = -2008020
	CategoryDuctInsulation      Category = -2008123
)

// Electrical categories.
const (
	CategoryCableTray           Category = -2008130
	CategoryCableTrayFitting    Category = -2008126
	CategoryConduit             Category = -2008132
	CategoryConduitFitting      Category = -2008128
	CategoryElectricalFixture   Category = -2001060
	CategoryElectricalEquipment Category = -2001040
	CategoryLightingFixture     Category = -2001120
)

// Low-voltage categories.
const (
	CategoryDataDevice          Category = -2008083
	CategoryTelephoneDevice     Category = -2008075
	CategorySecurityDevice      Category = -2008079
	CategoryFireAlarmDevice     Category = -2008085
	CategoryNurseCallDevice     Category = -2008077
	CategoryCommunicationDevice Category = -2008081
)

// Reserved container categories that are never processed as physical elements.
const (
	CategoryPipingSystem Category = -2008043
	CategoryDuctSystem   Category = -2008015
	CategoryReserved     Category = -2001260
)

var categoryNames = map[Category]string{
	CategoryPipe:                "pipe",
	CategoryPipeFitting:         "pipe_fitting",
	CategoryPipeAccessory:       "pipe_accessory",
	CategoryFlexPipe:            "flex_pipe",
	CategoryPipeInsulation:      "pipe_insulation",
	CategoryMechanicalEquipment: "mechanical_equipment",
	CategoryPlumbingFixture:     "plumbing_fixture",
	CategorySprinkler:           "sprinkler",
	CategoryDuct:                "duct",
	CategoryDuctFitting:         "duct_fitting",
	CategoryDuctAccessory:       "duct_accessory",
	CategoryAirTerminal:         "air_terminal",
	CategoryFlexDuct:            "flex_duct",
	CategoryDuctInsulation:      "duct_insulation",
	CategoryCableTray:           "cable_tray",
	CategoryCableTrayFitting:    "cable_tray_fitting",
	CategoryConduit:             "conduit",
	CategoryConduitFitting:      "conduit_fitting",
	CategoryElectricalFixture:   "electrical_fixture",
	CategoryElectricalEquipment: "electrical_equipment",
	CategoryLightingFixture:     "lighting_fixture",
	CategoryDataDevice:          "data_device",
	CategoryTelephoneDevice:     "telephone_device",
	CategorySecurityDevice:      "security_device",
	CategoryFireAlarmDevice:     "fire_alarm_device",
	CategoryNurseCallDevice:     "nurse_call_device",
	CategoryCommunicationDevice: "communication_device",
	CategoryPipingSystem:        "piping_system",
	CategoryDuctSystem:          "duct_system",
	CategoryReserved:            "reserved",
}

// String returns a stable snake_case label, or the numeric code for unknown categories.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// ParseCategory resolves a label produced by String back to its category.
func ParseCategory(label string) (Category, bool) {
	for cat, name := range categoryNames {
		if name == label {
			return cat, true
		}
	}
	if n, err := strconv.Atoi(label); err == nil {
		return Category(n), true
	}
	return 0, false
}
