package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned when an operation is invoked without a document.
	ErrNoDocument = errors.New("no active document")
	// ErrNameInUse is returned by Schedule.SetName when the name is taken.
	ErrNameInUse = errors.New("view name already in use")
	// ErrReadOnly is returned when writing a read-only parameter.
	ErrReadOnly = errors.New("parameter is read-only")
	// ErrStorageMismatch is returned when a value does not fit the parameter's storage type.
	ErrStorageMismatch = errors.New("parameter storage type mismatch")
	// ErrNothingToNumber is returned when a schedule yields no rows to number.
	ErrNothingToNumber = errors.New("schedule has no rows to number")
	// ErrOutOfRange is returned for cell or filter indexes outside the table.
	ErrOutOfRange = errors.New("index out of range")
)

// ErrScheduleNotFound is returned when a required schedule is missing from the document.
type ErrScheduleNotFound struct {
	Name string
}

func (e ErrScheduleNotFound) Error() string {
	return fmt.Sprintf("schedule %q not found", e.Name)
}

// ErrNotFound is returned when an element id does not resolve.
type ErrNotFound struct {
	ID ElementID
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("element %d not found", e.ID)
}
