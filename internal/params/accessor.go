// Package params resolves and writes named element parameters with per-parameter
// fault isolation: lookups fall back to defaults and writes report a bool.
package params

import (
	"gostspec/pkg/domain"
)

// Resolver resolves element ids, typically a domain.Document.
type Resolver interface {
	Element(id domain.ElementID) (domain.Element, bool)
}

// Accessor reads and writes parameters on elements of one document.
type Accessor struct {
	doc Resolver
}

// NewAccessor binds an accessor to the document that owns the elements.
func NewAccessor(doc Resolver) Accessor {
	return Accessor{doc: doc}
}

// TypeOf returns the type element of el.
func (a Accessor) TypeOf(el domain.Element) (domain.Element, bool) {
	if el == nil || a.doc == nil {
		return nil, false
	}
	id, ok := el.TypeID()
	if !ok {
		return nil, false
	}
	return a.doc.Element(id)
}

// Get looks the parameter up on the instance. When the instance has no such
// parameter, or scope is ScopeType, the type element's parameter is returned
// instead; without a type element the instance result stands.
func (a Accessor) Get(el domain.Element, name string, scope domain.Scope) (domain.Parameter, bool) {
	if el == nil || name == "" {
		return nil, false
	}
	p, ok := el.LookupParameter(name)
	if !ok || scope == domain.ScopeType {
		if typ, found := a.TypeOf(el); found {
			return typ.LookupParameter(name)
		}
	}
	return p, ok
}

// String returns the text of a string parameter or def when it is missing or unset.
func (a Accessor) String(el domain.Element, name, def string) string {
	return a.ScopedString(el, name, domain.ScopeInstance, def)
}

// ScopedString is String with an explicit lookup scope.
func (a Accessor) ScopedString(el domain.Element, name string, scope domain.Scope, def string) string {
	p, ok := a.Get(el, name, scope)
	if !ok || !p.HasValue() || p.StorageType() != domain.StorageString {
		return def
	}
	return p.AsString()
}

// Double returns a numeric parameter value or def when it is missing or unset.
func (a Accessor) Double(el domain.Element, name string, def float64) float64 {
	return a.ScopedDouble(el, name, domain.ScopeInstance, def)
}

// ScopedDouble is Double with an explicit lookup scope.
func (a Accessor) ScopedDouble(el domain.Element, name string, scope domain.Scope, def float64) float64 {
	p, ok := a.Get(el, name, scope)
	if !ok || !p.HasValue() {
		return def
	}
	return p.AsDouble()
}

// Int returns an integer parameter value or def when it is missing or unset.
func (a Accessor) Int(el domain.Element, name string, def int) int {
	p, ok := a.Get(el, name, domain.ScopeInstance)
	if !ok || !p.HasValue() {
		return def
	}
	return p.AsInteger()
}

// Has reports whether the parameter resolves on the instance or its type.
func (a Accessor) Has(el domain.Element, name string) bool {
	_, ok := a.Get(el, name, domain.ScopeInstance)
	return ok
}

// SetString writes a string value. It returns false when the parameter is
// missing, read-only, or rejects the value.
func (a Accessor) SetString(el domain.Element, name, value string) bool {
	p, ok := a.writable(el, name)
	if !ok {
		return false
	}
	return p.SetString(value) == nil
}

// SetDouble writes a numeric value with the same guards as SetString.
func (a Accessor) SetDouble(el domain.Element, name string, value float64) bool {
	p, ok := a.writable(el, name)
	if !ok {
		return false
	}
	return p.SetDouble(value) == nil
}

// SetInt writes an integer value with the same guards as SetString.
func (a Accessor) SetInt(el domain.Element, name string, value int) bool {
	p, ok := a.writable(el, name)
	if !ok {
		return false
	}
	return p.SetInteger(value) == nil
}

func (a Accessor) writable(el domain.Element, name string) (domain.Parameter, bool) {
	p, ok := a.Get(el, name, domain.ScopeInstance)
	if !ok || p.IsReadOnly() {
		return nil, false
	}
	return p, true
}

// Copy transfers a value from source's sourceName parameter into target's
// targetName parameter. Unset sources and empty strings are not copied.
func (a Accessor) Copy(source, target domain.Element, sourceName, targetName string) bool {
	sp, ok := a.Get(source, sourceName, domain.ScopeInstance)
	if !ok || !sp.HasValue() {
		return false
	}
	tp, ok := a.Get(target, targetName, domain.ScopeInstance)
	if !ok {
		return false
	}
	var err error
	switch sp.StorageType() {
	case domain.StorageString:
		v := sp.AsString()
		if v == "" {
			return false
		}
		err = tp.SetString(v)
	case domain.StorageDouble:
		err = tp.SetDouble(sp.AsDouble())
	case domain.StorageInteger:
		err = tp.SetInteger(sp.AsInteger())
	default:
		return false
	}
	return err == nil
}

// CopyAll copies every pair from source to target and returns how many succeeded.
func (a Accessor) CopyAll(source, target domain.Element, pairs []Pair) int {
	copied := 0
	for _, pair := range pairs {
		if a.copyPair(source, target, pair) {
			copied++
		}
	}
	return copied
}

// copyPair treats a host panic on one pair as a failed copy.
func (a Accessor) copyPair(source, target domain.Element, pair Pair) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return a.Copy(source, target, pair.Source, pair.Target)
}
