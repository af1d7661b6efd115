package memory

import (
	"fmt"
	"strconv"

	"gostspec/pkg/domain"
)

// parameter is a live handle onto a record inside one transaction's state.
type parameter struct {
	name  string
	owner domain.ElementID
	rec   *ParameterRecord
	tx    *state
}

var _ domain.Parameter = (*parameter)(nil)

func (p *parameter) Name() string                    { return p.name }
func (p *parameter) StorageType() domain.StorageType { return p.rec.Storage }
func (p *parameter) IsReadOnly() bool                { return p.rec.ReadOnly }

func (p *parameter) HasValue() bool {
	switch p.rec.Storage {
	case domain.StorageString:
		return p.rec.String != nil
	case domain.StorageDouble:
		return p.rec.Double != nil
	case domain.StorageInteger:
		return p.rec.Integer != nil
	}
	return false
}

func (p *parameter) AsString() string {
	if p.rec.Storage == domain.StorageString && p.rec.String != nil {
		return *p.rec.String
	}
	return ""
}

// AsDouble widens integer storage; string storage reads as zero.
func (p *parameter) AsDouble() float64 {
	switch {
	case p.rec.Storage == domain.StorageDouble && p.rec.Double != nil:
		return *p.rec.Double
	case p.rec.Storage == domain.StorageInteger && p.rec.Integer != nil:
		return float64(*p.rec.Integer)
	}
	return 0
}

func (p *parameter) AsInteger() int {
	if p.rec.Storage == domain.StorageInteger && p.rec.Integer != nil {
		return *p.rec.Integer
	}
	return 0
}

func (p *parameter) ValueString() string {
	if !p.HasValue() {
		return ""
	}
	if p.rec.Display != "" {
		return p.rec.Display
	}
	switch p.rec.Storage {
	case domain.StorageString:
		return *p.rec.String
	case domain.StorageDouble:
		return strconv.FormatFloat(*p.rec.Double, 'f', -1, 64)
	case domain.StorageInteger:
		return strconv.Itoa(*p.rec.Integer)
	}
	return ""
}

func (p *parameter) guard(want domain.StorageType) error {
	if p.rec.ReadOnly {
		return fmt.Errorf("%s: %w", p.name, domain.ErrReadOnly)
	}
	if p.rec.Storage != want {
		return fmt.Errorf("%s is %s, not %s: %w", p.name, p.rec.Storage, want, domain.ErrStorageMismatch)
	}
	return nil
}

func (p *parameter) SetString(value string) error {
	if err := p.guard(domain.StorageString); err != nil {
		return err
	}
	before := p.ValueString()
	p.rec.String = &value
	p.rec.Display = ""
	p.tx.record(p.owner, p.name, before, value)
	return nil
}

func (p *parameter) SetDouble(value float64) error {
	if err := p.guard(domain.StorageDouble); err != nil {
		return err
	}
	before := p.ValueString()
	p.rec.Double = &value
	p.rec.Display = ""
	p.tx.record(p.owner, p.name, before, p.ValueString())
	return nil
}

func (p *parameter) SetInteger(value int) error {
	if err := p.guard(domain.StorageInteger); err != nil {
		return err
	}
	before := p.ValueString()
	p.rec.Integer = &value
	p.rec.Display = ""
	p.tx.record(p.owner, p.name, before, strconv.Itoa(value))
	return nil
}
