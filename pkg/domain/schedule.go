package domain

// SectionType selects a section of a schedule's table.
type SectionType string

// Schedule table sections.
const (
	SectionHeader SectionType = "header"
	SectionBody   SectionType = "body"
)

// TableSection exposes the rendered cells of one schedule section.
type TableSection interface {
	RowCount() int
	ColumnCount() int
	CellText(row, col int) string
	SetCellText(row, col int, text string) error
}

// FilterType is the comparison applied by a schedule filter.
type FilterType string

// Supported schedule filter comparisons.
const (
	FilterEqual       FilterType = "equal"
	FilterNotEqual    FilterType = "not_equal"
	FilterContains    FilterType = "contains"
	FilterNotContains FilterType = "not_contains"
	FilterHasValue    FilterType = "has_value"
)

// ScheduleFilter restricts the rows of a schedule by comparing a field's text to a value.
type ScheduleFilter struct {
	FieldID int        `json:"field_id"`
	Type    FilterType `json:"type"`
	Value   string     `json:"value"`
}

// ScheduleDefinition holds the filter list of a schedule.
type ScheduleDefinition interface {
	Filters() []ScheduleFilter
	// ReplaceFilter swaps the filter at index for f.
	ReplaceFilter(index int, f ScheduleFilter) error
}

// Schedule is a tabular view over document elements.
type Schedule interface {
	ID() ElementID
	Name() string
	// SetName renames the schedule; it returns ErrNameInUse when another view owns the name.
	SetName(name string) error
	LookupParameter(name string) (Parameter, bool)
	Section(section SectionType) TableSection
	Definition() ScheduleDefinition
}
