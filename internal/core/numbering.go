package core

import (
	"strconv"

	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

// Body columns of the position schedule read by numbering.
const (
	columnSystem = 0
	columnOrder  = 1
	columnName   = 3
	columnMark   = 4
)

// noSystem never matches a rendered system cell.
const noSystem = "ImpossibleSystemName"

// NumberingService writes per-system position numbers derived from the row
// order of a position schedule.
type NumberingService struct {
	names  params.Names
	logger Logger
}

// NewNumberingService returns a numbering service using names.
func NewNumberingService(names params.Names, logger Logger) *NumberingService {
	if logger == nil {
		logger = noopLogger{}
	}
	return &NumberingService{names: names, logger: logger}
}

// OrderKey joins the fields identifying a schedule row. Fields are joined
// without a separator, so adjacent values can collide ("A1"+"" and "A"+"1").
func OrderKey(system, order, name, mark string) string {
	return system + order + name + mark
}

// Positions maps each row key of the schedule body to its zero-based
// position. The counter restarts whenever the system cell changes; a later
// duplicate key overwrites an earlier one.
func Positions(body domain.TableSection) map[string]int {
	positions := make(map[string]int)
	current, position := noSystem, 0
	for row := 0; row < body.RowCount(); row++ {
		system := body.CellText(row, columnSystem)
		if system != current {
			current, position = system, 0
		}
		key := OrderKey(system, body.CellText(row, columnOrder), body.CellText(row, columnName), body.CellText(row, columnMark))
		positions[key] = position
		position++
	}
	return positions
}

// Execute numbers the elements shown by schedule. It returns
// domain.ErrNothingToNumber when the schedule yields no keys.
func (s *NumberingService) Execute(doc domain.Document, schedule domain.Schedule) (domain.NumberingReport, error) {
	if doc == nil {
		return domain.NumberingReport{}, domain.ErrNoDocument
	}
	if schedule == nil {
		return domain.NumberingReport{}, domain.ErrScheduleNotFound{}
	}
	body := schedule.Section(domain.SectionBody)
	report := domain.NumberingReport{Schedule: schedule.Name(), Rows: body.RowCount()}
	positions := Positions(body)
	report.Keys = len(positions)
	if len(positions) == 0 {
		return report, domain.ErrNothingToNumber
	}

	acc := params.NewAccessor(doc)
	n := s.names
	for _, el := range doc.ElementsInView(schedule.ID()) {
		key := OrderKey(acc.String(el, n.System, ""), acc.String(el, n.Order, ""), acc.String(el, n.TargetName, ""), acc.String(el, n.TargetMark, ""))
		position, ok := positions[key]
		if !ok {
			continue
		}
		if acc.SetString(el, n.Position, strconv.Itoa(position)) {
			report.Numbered++
		} else {
			s.logger.Debug("position not written", "element", el.ID(), "position", position)
		}
	}
	return report, nil
}
