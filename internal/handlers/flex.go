package handlers

import (
	"fmt"
	"math"

	"gostspec/internal/params"
	"gostspec/internal/units"
	"gostspec/pkg/domain"
)

type flexPipeHandler struct{ common }

func newFlexPipeHandler(names params.Names) flexPipeHandler {
	return flexPipeHandler{common{category: domain.CategoryFlexPipe, names: names}}
}

// Process names a flexible pipe after its type and counts it as one piece.
func (h flexPipeHandler) Process(el domain.Element, doc domain.Document, _ float64) Outcome {
	acc := params.NewAccessor(doc)
	typ := typeOf(acc, el)
	return h.steps(acc, el, typ,
		func() string { return acc.String(typ, h.names.SourceName, "") },
		func() float64 { return 1 },
	)
}

type flexDuctHandler struct{ common }

func newFlexDuctHandler(names params.Names) flexDuctHandler {
	return flexDuctHandler{common{category: domain.CategoryFlexDuct, names: names}}
}

func (h flexDuctHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	acc := params.NewAccessor(doc)
	typ := typeOf(acc, el)
	return h.steps(acc, el, typ,
		func() string {
			name := acc.String(typ, h.names.SourceName, "")
			if p, ok := el.LookupParameter(h.names.Diameter); ok && p.HasValue() {
				name = fmt.Sprintf("%s Ø%s", name, trimmed(math.RoundToEven(units.ToMillimeters(p.AsDouble()))))
			}
			return name
		},
		func() float64 { return units.ToMeters(acc.Double(el, h.names.Length, 0)) * reserve },
	)
}
