package handlers

import (
	"fmt"

	"gostspec/internal/params"
	"gostspec/internal/units"
	"gostspec/pkg/domain"
)

type cableTrayHandler struct{ common }

func newCableTrayHandler(names params.Names) cableTrayHandler {
	return cableTrayHandler{common{category: domain.CategoryCableTray, names: names}}
}

func (h cableTrayHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	if el.Class() != domain.ClassCableTray {
		return Outcome{Rejected: true}
	}
	acc := params.NewAccessor(doc)
	typ, ok := acc.TypeOf(el)
	if !ok {
		return Outcome{Rejected: true}
	}
	n := h.names
	return h.steps(acc, el, typ,
		func() string {
			name := acc.String(typ, n.SourceName, "")
			width := acc.Double(el, n.Width, 0)
			height := acc.Double(el, n.Height, 0)
			if width > 0 && height > 0 {
				name = fmt.Sprintf("%s, %sx%s мм", name, whole(units.ToMillimeters(width)), whole(units.ToMillimeters(height)))
			}
			return name
		},
		func() float64 { return units.ToMeters(acc.Double(el, n.Length, 0)) * reserve },
	)
}

type conduitHandler struct{ common }

func newConduitHandler(names params.Names) conduitHandler {
	return conduitHandler{common{category: domain.CategoryConduit, names: names}}
}

func (h conduitHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	if el.Class() != domain.ClassConduit {
		return Outcome{Rejected: true}
	}
	acc := params.NewAccessor(doc)
	typ, ok := acc.TypeOf(el)
	if !ok {
		return Outcome{Rejected: true}
	}
	n := h.names
	return h.steps(acc, el, typ,
		func() string {
			name := acc.String(typ, n.SourceName, "")
			if diameter := acc.Double(el, n.Diameter, 0); diameter > 0 {
				name = fmt.Sprintf("%s, Ø%s мм", name, whole(units.ToMillimeters(diameter)))
			}
			return name
		},
		func() float64 { return units.ToMeters(acc.Double(el, n.Length, 0)) * reserve },
	)
}

// fixtureHandler serves electrical and lighting fixtures counted per piece.
type fixtureHandler struct{ common }

func newFixtureHandler(category domain.Category, names params.Names) fixtureHandler {
	return fixtureHandler{common{category: category, names: names}}
}

func (h fixtureHandler) Process(el domain.Element, doc domain.Document, _ float64) Outcome {
	acc := params.NewAccessor(doc)
	return h.steps(acc, el, typeOf(acc, el),
		func() string { return acc.String(el, h.names.SourceName, "") },
		func() float64 { return 1 },
	)
}
