package handlers

import (
	"fmt"
	"strings"

	"gostspec/internal/params"
	"gostspec/internal/units"
	"gostspec/pkg/domain"
)

type ductHandler struct{ common }

func newDuctHandler(names params.Names) ductHandler {
	return ductHandler{common{category: domain.CategoryDuct, names: names}}
}

func (h ductHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	if el.Class() != domain.ClassDuct {
		return Outcome{Rejected: true}
	}
	acc := params.NewAccessor(doc)
	return h.steps(acc, el, nil,
		func() string { return h.name(acc, el) },
		func() float64 { return units.ToMeters(acc.Double(el, h.names.Length, 0)) * reserve },
	)
}

func (h ductHandler) name(acc params.Accessor, el domain.Element) string {
	n := h.names
	source := acc.String(el, n.SourceName, "")
	size := acc.String(el, n.Size, "")
	typeName := acc.ScopedString(el, n.TypeName, domain.ScopeType, "")
	return fmt.Sprintf("%s, %s δ=%s мм", source, size, trimmed(h.wallThickness(acc, el, typeName)))
}

// wallThickness returns the sheet thickness in millimeters for a duct.
// Round ducts are keyed by diameter, rectangular ones by their larger side.
// Transit and fire-protected ducts never go below 0.8 mm.
func (h ductHandler) wallThickness(acc params.Accessor, el domain.Element, typeName string) float64 {
	var thickness float64
	if p, ok := el.LookupParameter(h.names.Diameter); ok && p.HasValue() {
		thickness = roundDuctThickness(units.ToMillimeters(p.AsDouble()))
	} else {
		height := units.ToMillimeters(acc.Double(el, h.names.Height, 0))
		width := units.ToMillimeters(acc.Double(el, h.names.Width, 0))
		thickness = rectDuctThickness(max(height, width))
	}
	lower := strings.ToLower(typeName)
	if (strings.Contains(lower, "транзит") || strings.Contains(lower, "огнезащитой")) && thickness < 0.8 {
		thickness = 0.8
	}
	return thickness
}

// roundDuctThickness keeps the base 0.5 mm above 2000 mm.
func roundDuctThickness(diameter float64) float64 {
	switch {
	case diameter <= 200:
		return 0.5
	case diameter <= 450:
		return 0.6
	case diameter <= 800:
		return 0.7
	case diameter <= 1250:
		return 1.0
	case diameter <= 1600:
		return 1.2
	case diameter <= 2000:
		return 1.4
	}
	return 0.5
}

func rectDuctThickness(bigSide float64) float64 {
	switch {
	case bigSide <= 250:
		return 0.5
	case bigSide <= 1000:
		return 0.7
	case bigSide <= 2000:
		return 0.9
	}
	return 1.2
}
