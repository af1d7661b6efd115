package handlers

import (
	"fmt"

	"gostspec/internal/params"
	"gostspec/internal/units"
	"gostspec/pkg/domain"
)

// InvalidPipeType is written as the name of pipes with an unknown type code.
const InvalidPipeType = "ТАКОЙ ТИП ТРУБЫ НЕ СУЩЕСТВУЕТ. ДОСТУПНЫЕ ТИПЫ 1-3"

type pipeHandler struct{ common }

func newPipeHandler(names params.Names) pipeHandler {
	return pipeHandler{common{category: domain.CategoryPipe, names: names}}
}

func (h pipeHandler) Process(el domain.Element, doc domain.Document, reserve float64) Outcome {
	if el.Class() != domain.ClassPipe {
		return Outcome{Rejected: true}
	}
	acc := params.NewAccessor(doc)
	typ, ok := acc.TypeOf(el)
	if !ok {
		return Outcome{Rejected: true}
	}
	return h.steps(acc, el, typ,
		func() string { return h.name(acc, el, typ) },
		func() float64 { return units.ToMillimeters(acc.Double(el, h.names.Length, 0)) / 1000 * reserve },
	)
}

func (h pipeHandler) name(acc params.Accessor, el, typ domain.Element) string {
	n := h.names
	source := acc.String(typ, n.SourceName, "")
	size := acc.String(el, n.Size, "")
	code := int(acc.Double(el, n.SourcePipeType, 0))
	outer := acc.Double(el, n.OuterDiameter, 0)
	inner := acc.Double(el, n.InnerDiameter, 0)
	wall := oneDecimal(units.ToMillimeters((outer - inner) / 2))

	switch code {
	case 1:
		return fmt.Sprintf("%s, %sх%s", source, size, wall)
	case 2:
		return fmt.Sprintf("%s, Ø%sх%s", source, plain(units.ToMillimeters(outer)), wall)
	case 3:
		return fmt.Sprintf("%s, %s", source, size)
	default:
		return InvalidPipeType
	}
}
