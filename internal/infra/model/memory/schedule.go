package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gostspec/pkg/domain"
)

type schedule struct {
	rec *ScheduleRecord
	tx  *state
}

var _ domain.Schedule = schedule{}

func (s schedule) ID() domain.ElementID { return s.rec.ID }
func (s schedule) Name() string         { return s.rec.Name }

func (s schedule) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("schedule name must not be empty")
	}
	for id, other := range s.tx.schedules {
		if id != s.rec.ID && other.Name == name {
			return fmt.Errorf("%q: %w", name, domain.ErrNameInUse)
		}
	}
	s.rec.Name = name
	return nil
}

func (s schedule) LookupParameter(name string) (domain.Parameter, bool) {
	rec, ok := s.rec.Parameters[name]
	if !ok {
		return nil, false
	}
	return &parameter{name: name, owner: s.rec.ID, rec: rec, tx: s.tx}, true
}

func (s schedule) Section(section domain.SectionType) domain.TableSection {
	if section == domain.SectionHeader {
		return headerSection{rec: s.rec}
	}
	return bodySection{rows: s.bodyRows()}
}

func (s schedule) Definition() domain.ScheduleDefinition {
	return definition{rec: s.rec}
}

// elements returns the instances the schedule renders, in display order.
func (s schedule) elements() []*ElementRecord {
	cats := make(map[domain.Category]struct{}, len(s.rec.Categories))
	for _, c := range s.rec.Categories {
		cats[c] = struct{}{}
	}
	var out []*ElementRecord
	for _, id := range s.tx.elementIDs() {
		rec := s.tx.elements[id]
		if rec.Class == domain.ClassElementType {
			continue
		}
		if _, ok := cats[rec.Category]; !ok {
			continue
		}
		if s.passes(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, field := range s.rec.SortBy {
			a, b := s.cell(out[i], field), s.cell(out[j], field)
			if a != b {
				return a < b
			}
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s schedule) passes(rec *ElementRecord) bool {
	for _, f := range s.rec.Filters {
		if f.FieldID < 0 || f.FieldID >= len(s.rec.Fields) {
			return false
		}
		text := s.cell(rec, f.FieldID)
		var ok bool
		switch f.Type {
		case domain.FilterEqual:
			ok = text == f.Value
		case domain.FilterNotEqual:
			ok = text != f.Value
		case domain.FilterContains:
			ok = strings.Contains(text, f.Value)
		case domain.FilterNotContains:
			ok = !strings.Contains(text, f.Value)
		case domain.FilterHasValue:
			ok = text != ""
		}
		if !ok {
			return false
		}
	}
	return true
}

// cell renders one field of an element, resolving the parameter on the
// instance first and on its type second.
func (s schedule) cell(rec *ElementRecord, field int) string {
	if field < 0 || field >= len(s.rec.Fields) {
		return ""
	}
	name := s.rec.Fields[field].Parameter
	p, ok := rec.Parameters[name]
	if !ok && rec.TypeID != 0 {
		if typ, found := s.tx.elements[rec.TypeID]; found {
			p, ok = typ.Parameters[name]
		}
	}
	if !ok {
		return ""
	}
	handle := &parameter{name: name, rec: p, tx: s.tx}
	return handle.ValueString()
}

func (s schedule) bodyRows() [][]string {
	var rows [][]string
	seen := make(map[string]struct{})
	for _, rec := range s.elements() {
		row := make([]string, len(s.rec.Fields))
		for i := range s.rec.Fields {
			row[i] = s.cell(rec, i)
		}
		if !s.rec.Itemize {
			key := strings.Join(row, "\x1f")
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		rows = append(rows, row)
	}
	return rows
}

type bodySection struct {
	rows [][]string
}

func (b bodySection) RowCount() int { return len(b.rows) }

func (b bodySection) ColumnCount() int {
	if len(b.rows) == 0 {
		return 0
	}
	return len(b.rows[0])
}

func (b bodySection) CellText(row, col int) string {
	if row < 0 || row >= len(b.rows) || col < 0 || col >= len(b.rows[row]) {
		return ""
	}
	return b.rows[row][col]
}

// SetCellText always fails: body cells are computed from element parameters.
func (b bodySection) SetCellText(int, int, string) error {
	return fmt.Errorf("body cell: %w", domain.ErrReadOnly)
}

type headerSection struct {
	rec *ScheduleRecord
}

func (h headerSection) RowCount() int { return len(h.rec.Header) }

func (h headerSection) ColumnCount() int {
	cols := 0
	for _, row := range h.rec.Header {
		cols = max(cols, len(row))
	}
	return cols
}

func (h headerSection) CellText(row, col int) string {
	if row < 0 || row >= len(h.rec.Header) || col < 0 || col >= len(h.rec.Header[row]) {
		return ""
	}
	return h.rec.Header[row][col]
}

func (h headerSection) SetCellText(row, col int, text string) error {
	if row < 0 || row >= len(h.rec.Header) || col < 0 || col >= h.ColumnCount() {
		return fmt.Errorf("header cell (%d,%d): %w", row, col, domain.ErrOutOfRange)
	}
	for len(h.rec.Header[row]) <= col {
		h.rec.Header[row] = append(h.rec.Header[row], "")
	}
	h.rec.Header[row][col] = text
	return nil
}

type definition struct {
	rec *ScheduleRecord
}

func (d definition) Filters() []domain.ScheduleFilter {
	return append([]domain.ScheduleFilter(nil), d.rec.Filters...)
}

func (d definition) ReplaceFilter(index int, f domain.ScheduleFilter) error {
	if index < 0 || index >= len(d.rec.Filters) {
		return fmt.Errorf("filter %d: %w", index, domain.ErrOutOfRange)
	}
	if f.FieldID < 0 || f.FieldID >= len(d.rec.Fields) {
		return fmt.Errorf("filter field %d: %w", f.FieldID, domain.ErrOutOfRange)
	}
	d.rec.Filters[index] = f
	return nil
}
