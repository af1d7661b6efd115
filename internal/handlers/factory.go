package handlers

import (
	"fmt"

	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

// Factory maps each supported category to its handler.
type Factory struct {
	order      []Handler
	byCategory map[domain.Category]Handler
}

// NewFactory builds the handler table for the given parameter names.
func NewFactory(names params.Names) *Factory {
	f := &Factory{byCategory: make(map[domain.Category]Handler)}
	mustRegister := func(h Handler) {
		if err := f.register(h); err != nil {
			panic(err)
		}
	}

	mustRegister(newPipeHandler(names))
	mustRegister(newFlexPipeHandler(names))
	mustRegister(newPipeInsulationHandler(names))
	for _, c := range []domain.Category{
		domain.CategoryPipeFitting,
		domain.CategoryPipeAccessory,
		domain.CategoryMechanicalEquipment,
		domain.CategoryPlumbingFixture,
		domain.CategorySprinkler,
	} {
		mustRegister(newGeneralHandler(c, names))
	}

	mustRegister(newDuctHandler(names))
	mustRegister(newFlexDuctHandler(names))
	mustRegister(newDuctInsulationHandler(names))
	for _, c := range []domain.Category{
		domain.CategoryDuctFitting,
		domain.CategoryDuctAccessory,
		domain.CategoryAirTerminal,
	} {
		mustRegister(newGeneralHandler(c, names))
	}

	mustRegister(newCableTrayHandler(names))
	mustRegister(newConduitHandler(names))
	mustRegister(newFixtureHandler(domain.CategoryElectricalFixture, names))
	mustRegister(newFixtureHandler(domain.CategoryLightingFixture, names))
	return f
}

func (f *Factory) register(h Handler) error {
	if _, dup := f.byCategory[h.Category()]; dup {
		return fmt.Errorf("handler for %s already registered", h.Category())
	}
	f.byCategory[h.Category()] = h
	f.order = append(f.order, h)
	return nil
}

// Get returns the handler for a category.
func (f *Factory) Get(category domain.Category) (Handler, bool) {
	h, ok := f.byCategory[category]
	return h, ok
}

// ForElement returns the handler for the element's category.
func (f *Factory) ForElement(el domain.Element) (Handler, bool) {
	if el == nil {
		return nil, false
	}
	return f.Get(el.Category())
}

// Categories returns the supported categories in sweep order.
func (f *Factory) Categories() []domain.Category {
	out := make([]domain.Category, len(f.order))
	for i, h := range f.order {
		out[i] = h.Category()
	}
	return out
}
