// Package memory implements the reference host document in process memory.
// Every transaction works on a deep copy of the model and commit swaps it in.
package memory

import (
	"gostspec/pkg/domain"
)

// ParameterRecord is the stored form of one parameter. Exactly one value
// pointer matching Storage is set when the parameter has a value.
type ParameterRecord struct {
	Storage  domain.StorageType `json:"storage"`
	ReadOnly bool               `json:"read_only,omitempty"`
	String   *string            `json:"string,omitempty"`
	Double   *float64           `json:"double,omitempty"`
	Integer  *int               `json:"integer,omitempty"`
	// Display overrides the rendered text of numeric values until the next write.
	Display string `json:"display,omitempty"`
}

// ConnectorRecord lists the elements attached to one connector.
type ConnectorRecord struct {
	Connected []domain.ElementID `json:"connected,omitempty"`
}

// ElementRecord is the stored form of a model element or element type.
type ElementRecord struct {
	ID             domain.ElementID                             `json:"id"`
	Category       domain.Category                              `json:"category"`
	Class          domain.ElementClass                          `json:"class"`
	TypeID         domain.ElementID                             `json:"type_id,omitempty"`
	Parameters     map[string]*ParameterRecord                  `json:"parameters,omitempty"`
	BuiltIns       map[domain.BuiltInParameter]*ParameterRecord `json:"built_ins,omitempty"`
	SuperComponent domain.ElementID                             `json:"super_component,omitempty"`
	Host           domain.ElementID                             `json:"host,omitempty"`
	MEPSystem      string                                       `json:"mep_system,omitempty"`
	Connectors     []ConnectorRecord                            `json:"connectors,omitempty"`
}

// FieldRecord binds a schedule column to a parameter name.
type FieldRecord struct {
	Parameter string `json:"parameter"`
	Heading   string `json:"heading,omitempty"`
}

// ScheduleRecord is the stored form of a schedule view.
type ScheduleRecord struct {
	ID         domain.ElementID            `json:"id"`
	Name       string                      `json:"name"`
	Categories []domain.Category           `json:"categories"`
	Fields     []FieldRecord               `json:"fields"`
	Filters    []domain.ScheduleFilter     `json:"filters,omitempty"`
	SortBy     []int                       `json:"sort_by,omitempty"`
	Itemize    bool                        `json:"itemize,omitempty"`
	Header     [][]string                  `json:"header,omitempty"`
	Parameters map[string]*ParameterRecord `json:"parameters,omitempty"`
}

// Snapshot captures the full model for import and export.
type Snapshot struct {
	Elements  []ElementRecord    `json:"elements"`
	Schedules []ScheduleRecord   `json:"schedules"`
	Globals   map[string]float64 `json:"globals,omitempty"`
}

// StringParam returns a writable string parameter holding v.
func StringParam(v string) *ParameterRecord {
	return &ParameterRecord{Storage: domain.StorageString, String: &v}
}

// DoubleParam returns a writable numeric parameter holding v in internal units.
func DoubleParam(v float64) *ParameterRecord {
	return &ParameterRecord{Storage: domain.StorageDouble, Double: &v}
}

// IntParam returns a writable integer parameter holding v.
func IntParam(v int) *ParameterRecord {
	return &ParameterRecord{Storage: domain.StorageInteger, Integer: &v}
}

// EmptyParam returns a writable parameter without a value.
func EmptyParam(storage domain.StorageType) *ParameterRecord {
	return &ParameterRecord{Storage: storage}
}

// Locked marks the parameter read-only and returns it.
func (p *ParameterRecord) Locked() *ParameterRecord {
	p.ReadOnly = true
	return p
}

func (p *ParameterRecord) clone() *ParameterRecord {
	if p == nil {
		return nil
	}
	cp := *p
	if p.String != nil {
		v := *p.String
		cp.String = &v
	}
	if p.Double != nil {
		v := *p.Double
		cp.Double = &v
	}
	if p.Integer != nil {
		v := *p.Integer
		cp.Integer = &v
	}
	return &cp
}

func cloneParams[K comparable](in map[K]*ParameterRecord) map[K]*ParameterRecord {
	if in == nil {
		return nil
	}
	out := make(map[K]*ParameterRecord, len(in))
	for k, v := range in {
		out[k] = v.clone()
	}
	return out
}

func (r ElementRecord) clone() ElementRecord {
	cp := r
	cp.Parameters = cloneParams(r.Parameters)
	cp.BuiltIns = cloneParams(r.BuiltIns)
	if r.Connectors != nil {
		cp.Connectors = make([]ConnectorRecord, len(r.Connectors))
		for i, c := range r.Connectors {
			cp.Connectors[i] = ConnectorRecord{Connected: append([]domain.ElementID(nil), c.Connected...)}
		}
	}
	return cp
}

func (r ScheduleRecord) clone() ScheduleRecord {
	cp := r
	cp.Categories = append([]domain.Category(nil), r.Categories...)
	cp.Fields = append([]FieldRecord(nil), r.Fields...)
	cp.Filters = append([]domain.ScheduleFilter(nil), r.Filters...)
	cp.SortBy = append([]int(nil), r.SortBy...)
	if r.Header != nil {
		cp.Header = make([][]string, len(r.Header))
		for i, row := range r.Header {
			cp.Header[i] = append([]string(nil), row...)
		}
	}
	cp.Parameters = cloneParams(r.Parameters)
	return cp
}
