package domain

// Sentinel values written as data for states the downstream report filters out.
const (
	// ExcludeName marks insulation whose host is not the expected element class.
	ExcludeName = "Исключить"
	// ErrorQuantity marks insulation without a counting marker.
	ErrorQuantity = -999999.0
)

// CategoryStats counts handler outcomes for one category.
type CategoryStats struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Excluded  int `json:"excluded"`
}

// CopyReport summarises one parameter copy run.
type CopyReport struct {
	RunID              string                     `json:"run_id"`
	ReserveCoefficient float64                    `json:"reserve_coefficient"`
	NestedCopied       int                        `json:"nested_copied"`
	NativeCopied       int                        `json:"native_copied"`
	ConnectorCopied    int                        `json:"connector_copied"`
	SubgroupCopied     int                        `json:"subgroup_copied"`
	Categories         map[Category]CategoryStats `json:"categories"`
}

// SystemWrites returns the total number of system names written by the run.
func (r CopyReport) SystemWrites() int {
	return r.NestedCopied + r.NativeCopied + r.ConnectorCopied + r.SubgroupCopied
}

// NumberingReport summarises a numbering run.
type NumberingReport struct {
	RunID    string `json:"run_id"`
	Schedule string `json:"schedule"`
	Rows     int    `json:"rows"`
	Keys     int    `json:"keys"`
	Numbered int    `json:"numbered"`
}

// GenerationReport summarises a schedule generation run.
type GenerationReport struct {
	RunID   string   `json:"run_id"`
	Systems []string `json:"systems"`
	Created []string `json:"created"`
}
