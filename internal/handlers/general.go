package handlers

import (
	"strings"

	"gostspec/internal/params"
	"gostspec/internal/units"
	"gostspec/pkg/domain"
)

// generalHandler covers fittings, accessories, equipment, sprinklers,
// plumbing fixtures and air terminals.
type generalHandler struct{ common }

func newGeneralHandler(category domain.Category, names params.Names) generalHandler {
	return generalHandler{common{category: category, names: names}}
}

func (h generalHandler) Process(el domain.Element, doc domain.Document, _ float64) Outcome {
	acc := params.NewAccessor(doc)
	return h.steps(acc, el, nil,
		func() string { return h.name(acc, el) },
		func() float64 { return h.quantity(acc, el) },
	)
}

func (h generalHandler) name(acc params.Accessor, el domain.Element) string {
	name := acc.String(el, h.names.SourceName, "")
	if h.category == domain.CategoryDuctAccessory {
		if size := acc.String(el, h.names.Size, ""); size != "" {
			name += ", " + size
		}
	}
	return name
}

// quantity is one piece, except plumbing fixtures whose type counts them by
// length ("Д"); those report their source length in meters without reserve.
func (h generalHandler) quantity(acc params.Accessor, el domain.Element) float64 {
	if h.category != domain.CategoryPlumbingFixture {
		return 1
	}
	counting := strings.TrimSpace(acc.ScopedString(el, h.names.CountingType, domain.ScopeType, ""))
	if !strings.EqualFold(counting, "Д") {
		return 1
	}
	if length := acc.Double(el, h.names.SourceLength, 0); length > 0 {
		return units.ToMillimeters(length) / 1000
	}
	return 1
}
