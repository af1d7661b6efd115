package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gostspec/pkg/domain"
)

// Change records one committed parameter write.
type Change struct {
	Element   domain.ElementID `json:"element"`
	Parameter string           `json:"parameter"`
	Before    string           `json:"before"`
	After     string           `json:"after"`
}

type state struct {
	elements  map[domain.ElementID]*ElementRecord
	schedules map[domain.ElementID]*ScheduleRecord
	globals   map[string]float64
	changes   []Change
}

func newState() *state {
	return &state{
		elements:  make(map[domain.ElementID]*ElementRecord),
		schedules: make(map[domain.ElementID]*ScheduleRecord),
		globals:   make(map[string]float64),
	}
}

func (s *state) clone() *state {
	cp := newState()
	for id, rec := range s.elements {
		r := rec.clone()
		cp.elements[id] = &r
	}
	for id, rec := range s.schedules {
		r := rec.clone()
		cp.schedules[id] = &r
	}
	for k, v := range s.globals {
		cp.globals[k] = v
	}
	return cp
}

// record logs a parameter write; writes that leave the value unchanged are dropped.
func (s *state) record(owner domain.ElementID, name, before, after string) {
	if before == after {
		return
	}
	s.changes = append(s.changes, Change{Element: owner, Parameter: name, Before: before, After: after})
}

func (s *state) element(id domain.ElementID) (domain.Element, bool) {
	rec, ok := s.elements[id]
	if !ok {
		return nil, false
	}
	return wrap(rec, s), true
}

func (s *state) elementIDs() []domain.ElementID {
	ids := make([]domain.ElementID, 0, len(s.elements))
	for id := range s.elements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *state) scheduleIDs() []domain.ElementID {
	ids := make([]domain.ElementID, 0, len(s.schedules))
	for id := range s.schedules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *state) nextID() domain.ElementID {
	var top domain.ElementID
	for id := range s.elements {
		top = max(top, id)
	}
	for id := range s.schedules {
		top = max(top, id)
	}
	return top + 1
}

func (s *state) snapshot() Snapshot {
	snap := Snapshot{
		Elements:  make([]ElementRecord, 0, len(s.elements)),
		Schedules: make([]ScheduleRecord, 0, len(s.schedules)),
		Globals:   make(map[string]float64, len(s.globals)),
	}
	for _, id := range s.elementIDs() {
		snap.Elements = append(snap.Elements, s.elements[id].clone())
	}
	for _, id := range s.scheduleIDs() {
		snap.Schedules = append(snap.Schedules, s.schedules[id].clone())
	}
	for k, v := range s.globals {
		snap.Globals[k] = v
	}
	return snap
}

func stateFromSnapshot(snap Snapshot) (*state, error) {
	st := newState()
	seen := make(map[domain.ElementID]struct{}, len(snap.Elements)+len(snap.Schedules))
	claim := func(id domain.ElementID, kind string) error {
		if id <= 0 {
			return fmt.Errorf("%s id %d must be positive", kind, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate %s id %d", kind, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for _, rec := range snap.Elements {
		if err := claim(rec.ID, "element"); err != nil {
			return nil, err
		}
		r := rec.clone()
		st.elements[r.ID] = &r
	}
	for _, rec := range snap.Schedules {
		if err := claim(rec.ID, "schedule"); err != nil {
			return nil, err
		}
		r := rec.clone()
		st.schedules[r.ID] = &r
	}
	for k, v := range snap.Globals {
		st.globals[k] = v
	}
	return st, nil
}

// Store is a goroutine-safe in-memory model store.
type Store struct {
	mu          sync.RWMutex
	state       *state
	lastChanges []Change
}

var _ domain.ModelStore = (*Store)(nil)

// NewStore returns an empty in-memory model store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// ExportState returns a deep copy of the committed model.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// ImportState replaces the committed model with snapshot.
func (s *Store) ImportState(snapshot Snapshot) error {
	st, err := stateFromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.lastChanges = nil
	s.mu.Unlock()
	return nil
}

// LastChanges returns the parameter writes of the most recent committed transaction.
func (s *Store) LastChanges() []Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Change(nil), s.lastChanges...)
}

// RunInTransaction executes fn against a private copy of the model and
// commits it only when fn returns nil.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(document{st: work}); err != nil {
		return err
	}
	s.lastChanges = work.changes
	work.changes = nil
	s.state = work
	return nil
}

// View executes fn against a throwaway copy of the committed model.
func (s *Store) View(ctx context.Context, fn func(doc domain.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(document{st: snapshot})
}

// document binds the domain.Document contract to one state copy.
type document struct {
	st *state
}

var _ domain.Transaction = document{}

func (d document) Element(id domain.ElementID) (domain.Element, bool) {
	return d.st.element(id)
}

func (d document) ElementsByCategory(category domain.Category) []domain.Element {
	var out []domain.Element
	for _, id := range d.st.elementIDs() {
		rec := d.st.elements[id]
		if rec.Category == category && rec.Class != domain.ClassElementType {
			out = append(out, wrap(rec, d.st))
		}
	}
	return out
}

func (d document) ElementsInView(viewID domain.ElementID) []domain.Element {
	rec, ok := d.st.schedules[viewID]
	if !ok {
		return nil
	}
	recs := schedule{rec: rec, tx: d.st}.elements()
	out := make([]domain.Element, 0, len(recs))
	for _, r := range recs {
		out = append(out, wrap(r, d.st))
	}
	return out
}

func (d document) GlobalNumber(name string) (float64, bool) {
	v, ok := d.st.globals[name]
	return v, ok
}

func (d document) Schedules() []domain.Schedule {
	ids := d.st.scheduleIDs()
	out := make([]domain.Schedule, 0, len(ids))
	for _, id := range ids {
		out = append(out, schedule{rec: d.st.schedules[id], tx: d.st})
	}
	return out
}

func (d document) ScheduleByName(name string) (domain.Schedule, bool) {
	for _, id := range d.st.scheduleIDs() {
		if rec := d.st.schedules[id]; rec.Name == name {
			return schedule{rec: rec, tx: d.st}, true
		}
	}
	return nil, false
}

// DuplicateSchedule copies the definition, header and parameters of src under
// a fresh id and a free "<name> Copy N" name.
func (d document) DuplicateSchedule(src domain.Schedule) (domain.Schedule, error) {
	if src == nil {
		return nil, fmt.Errorf("duplicate schedule: nil source")
	}
	rec, ok := d.st.schedules[src.ID()]
	if !ok {
		return nil, domain.ErrNotFound{ID: src.ID()}
	}
	cp := rec.clone()
	cp.ID = d.st.nextID()
	cp.Name = d.freeName(rec.Name)
	d.st.schedules[cp.ID] = &cp
	return schedule{rec: &cp, tx: d.st}, nil
}

func (d document) freeName(base string) string {
	taken := make(map[string]struct{}, len(d.st.schedules))
	for _, rec := range d.st.schedules {
		taken[rec.Name] = struct{}{}
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s Copy %d", base, n)
		if _, used := taken[name]; !used {
			return name
		}
	}
}
