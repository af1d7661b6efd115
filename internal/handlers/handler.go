// Package handlers holds the per-category rules that derive a specification
// name, copy the standard parameters and compute a quantity for one element.
package handlers

import (
	"fmt"

	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

// Outcome reports which target parameters a handler wrote for one element.
type Outcome struct {
	// Rejected is set when the element is not of the handler's host class or
	// lacks a required type element. Nothing is written in that case.
	Rejected bool `json:"rejected,omitempty"`
	// Excluded is set when the exclusion sentinel was written as the name.
	Excluded bool `json:"excluded,omitempty"`
	Named    bool `json:"named,omitempty"`
	Counted  bool `json:"counted,omitempty"`
	Copied   int  `json:"copied,omitempty"`

	// Faults lists the steps skipped because the host panicked inside them.
	Faults []string `json:"faults,omitempty"`
}

// step runs fn and records a host panic as a fault of the named step so the
// remaining steps still run.
func (o *Outcome) step(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.Faults = append(o.Faults, fmt.Sprintf("%s: %v", name, r))
		}
	}()
	fn()
}

// Handler derives specification parameters for the elements of one category.
// Implementations are stateless and safe to share for the lifetime of a run.
type Handler interface {
	Category() domain.Category
	CanHandle(el domain.Element) bool
	Process(el domain.Element, doc domain.Document, reserve float64) Outcome
}

// Apply runs h on el and converts a panic raised by the host outside the
// isolated steps into an error so one broken element never aborts a sweep.
func Apply(h Handler, el domain.Element, doc domain.Document, reserve float64) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s: element %d: %v", h.Category(), el.ID(), r)
		}
	}()
	return h.Process(el, doc, reserve), nil
}

type common struct {
	category domain.Category
	names    params.Names
}

func (c common) Category() domain.Category { return c.category }

func (c common) CanHandle(el domain.Element) bool {
	return el != nil && el.Category() == c.category
}

// steps writes the name, copies the standard parameters from src and writes
// the quantity, each as an isolated step.
func (c common) steps(acc params.Accessor, el, src domain.Element, name func() string, count func() float64) Outcome {
	var out Outcome
	out.step("name", func() { out.Named = c.setName(acc, el, name()) })
	out.step("copy", func() { out.Copied = c.copyStandard(acc, el, src) })
	out.step("count", func() { out.Counted = c.setCount(acc, el, count()) })
	return out
}

func (c common) setName(acc params.Accessor, el domain.Element, name string) bool {
	return acc.SetString(el, c.names.TargetName, name)
}

func (c common) setCount(acc params.Accessor, el domain.Element, count float64) bool {
	return acc.SetDouble(el, c.names.TargetCount, count)
}

// copyStandard copies the standard parameter set from src, or from el itself
// when src is nil.
func (c common) copyStandard(acc params.Accessor, el, src domain.Element) int {
	if src == nil {
		src = el
	}
	return acc.CopyAll(src, el, c.names.StandardPairs())
}

// typeOf returns the element's type or a nil interface.
func typeOf(acc params.Accessor, el domain.Element) domain.Element {
	if typ, ok := acc.TypeOf(el); ok {
		return typ
	}
	return nil
}
