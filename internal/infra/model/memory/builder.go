package memory

import (
	"gostspec/pkg/domain"
)

// Params is shorthand for an element's parameter table.
type Params = map[string]*ParameterRecord

// Builder assembles snapshots with sequential ids for fixtures and imports.
type Builder struct {
	snap Snapshot
	next domain.ElementID
}

// NewBuilder returns an empty builder whose first id is 1.
func NewBuilder() *Builder {
	return &Builder{snap: Snapshot{Globals: map[string]float64{}}, next: 1}
}

// Global sets a document-global numeric parameter.
func (b *Builder) Global(name string, v float64) *Builder {
	b.snap.Globals[name] = v
	return b
}

// Add appends an element, assigning the next id when rec.ID is zero.
func (b *Builder) Add(rec ElementRecord) domain.ElementID {
	rec.ID = b.claim(rec.ID)
	b.snap.Elements = append(b.snap.Elements, rec.clone())
	return rec.ID
}

// Type appends an element type of the given category.
func (b *Builder) Type(category domain.Category, params Params) domain.ElementID {
	return b.Add(ElementRecord{Category: category, Class: domain.ClassElementType, Parameters: params})
}

// AddSchedule appends a schedule, assigning the next id when rec.ID is zero.
func (b *Builder) AddSchedule(rec ScheduleRecord) domain.ElementID {
	rec.ID = b.claim(rec.ID)
	b.snap.Schedules = append(b.snap.Schedules, rec.clone())
	return rec.ID
}

// Connect links two elements through a new connector on each side.
func (b *Builder) Connect(a, c domain.ElementID) {
	for i := range b.snap.Elements {
		switch b.snap.Elements[i].ID {
		case a:
			b.snap.Elements[i].Connectors = append(b.snap.Elements[i].Connectors, ConnectorRecord{Connected: []domain.ElementID{c}})
		case c:
			b.snap.Elements[i].Connectors = append(b.snap.Elements[i].Connectors, ConnectorRecord{Connected: []domain.ElementID{a}})
		}
	}
}

// Snapshot returns a copy of the assembled model.
func (b *Builder) Snapshot() Snapshot {
	st, err := stateFromSnapshot(b.snap)
	if err != nil {
		panic(err)
	}
	return st.snapshot()
}

// Store returns a memory store loaded with the assembled model.
func (b *Builder) Store() *Store {
	s := NewStore()
	if err := s.ImportState(b.snap); err != nil {
		panic(err)
	}
	return s
}

func (b *Builder) claim(id domain.ElementID) domain.ElementID {
	if id == 0 {
		id = b.next
	}
	if id >= b.next {
		b.next = id + 1
	}
	return id
}
