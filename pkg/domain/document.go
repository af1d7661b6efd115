package domain

import "context"

// Document is the host's in-memory model for the duration of one run.
type Document interface {
	Element(id ElementID) (Element, bool)
	// ElementsByCategory returns the non-type instances of a category.
	ElementsByCategory(category Category) []Element
	// ElementsInView returns the elements rendered by a schedule.
	ElementsInView(viewID ElementID) []Element
	// GlobalNumber returns a document-global numeric parameter.
	GlobalNumber(name string) (float64, bool)
	Schedules() []Schedule
	ScheduleByName(name string) (Schedule, bool)
	DuplicateSchedule(schedule Schedule) (Schedule, error)
}

// Transaction is a Document bound to a transactional copy of the model.
// Writes become visible to other readers only once the transaction commits.
type Transaction interface {
	Document
}

// ModelStore runs batches of writes atomically against a host document.
type ModelStore interface {
	// RunInTransaction commits when fn returns nil and discards every write otherwise.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error
	View(ctx context.Context, fn func(doc Document) error) error
}
