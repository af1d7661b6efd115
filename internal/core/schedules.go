package core

import (
	"fmt"
	"strings"

	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

// Template layout assumed by schedule generation.
const (
	systemFilterIndex = 1
	headerTitleRow    = 0
	headerTitleColumn = 1
	maxNameCopies     = 9
)

// ScheduleGenerationService creates one schedule per system from a template.
type ScheduleGenerationService struct {
	names     params.Names
	schedules ScheduleNames
	logger    Logger
}

// NewScheduleGenerationService returns a generation service.
func NewScheduleGenerationService(names params.Names, schedules ScheduleNames, logger Logger) *ScheduleGenerationService {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ScheduleGenerationService{names: names, schedules: schedules.WithDefaults(), logger: logger}
}

// Systems returns the distinct trimmed system names of the elements shown by
// the position schedule, in first-seen order.
func (s *ScheduleGenerationService) Systems(doc domain.Document, positions domain.Schedule) []string {
	acc := params.NewAccessor(doc)
	seen := make(map[string]bool)
	var systems []string
	for _, el := range doc.ElementsInView(positions.ID()) {
		system := strings.TrimSpace(acc.String(el, s.names.System, ""))
		if system == "" || seen[system] {
			continue
		}
		seen[system] = true
		systems = append(systems, system)
	}
	return systems
}

// Execute duplicates template for every system and returns the names of the
// schedules created. A failure for one system is logged and skipped.
func (s *ScheduleGenerationService) Execute(doc domain.Document, template, positions domain.Schedule) (domain.GenerationReport, error) {
	if doc == nil {
		return domain.GenerationReport{}, domain.ErrNoDocument
	}
	if template == nil || positions == nil {
		return domain.GenerationReport{}, domain.ErrScheduleNotFound{}
	}
	report := domain.GenerationReport{Systems: s.Systems(doc, positions), Created: []string{}}
	for _, system := range report.Systems {
		name, err := s.create(doc, template, system)
		if err != nil {
			s.logger.Warn("schedule not created", "system", system, "error", err)
			continue
		}
		report.Created = append(report.Created, name)
	}
	return report, nil
}

func (s *ScheduleGenerationService) create(doc domain.Document, template domain.Schedule, system string) (string, error) {
	schedule, err := doc.DuplicateSchedule(template)
	if err != nil {
		return "", fmt.Errorf("duplicate %q: %w", template.Name(), err)
	}
	if p, ok := schedule.LookupParameter(s.names.ProjectSection); ok {
		if err := p.SetString(s.schedules.SectionValue); err != nil {
			s.logger.Debug("project section not set", "schedule", schedule.Name(), "error", err)
		}
	}
	s.rename(schedule, s.schedules.Prefix+system)
	s.setHeader(schedule, system)
	s.setFilter(schedule, system)
	return schedule.Name(), nil
}

// rename tries base and then base with " копия1" through " копия9"; the
// duplicate keeps its generated name when all of them are taken.
func (s *ScheduleGenerationService) rename(schedule domain.Schedule, base string) {
	if schedule.SetName(base) == nil {
		return
	}
	for i := 1; i <= maxNameCopies; i++ {
		if schedule.SetName(fmt.Sprintf("%s копия%d", base, i)) == nil {
			return
		}
	}
	s.logger.Debug("schedule name unavailable", "base", base, "kept", schedule.Name())
}

func (s *ScheduleGenerationService) setHeader(schedule domain.Schedule, system string) {
	header := schedule.Section(domain.SectionHeader)
	if header.RowCount() == 0 {
		return
	}
	title := fmt.Sprintf(s.schedules.HeaderTemplate, system)
	if err := header.SetCellText(headerTitleRow, headerTitleColumn, title); err != nil {
		s.logger.Debug("header not set", "schedule", schedule.Name(), "error", err)
	}
}

// setFilter replaces the template's system filter with an equality filter
// on the same field.
func (s *ScheduleGenerationService) setFilter(schedule domain.Schedule, system string) {
	def := schedule.Definition()
	filters := def.Filters()
	if len(filters) <= systemFilterIndex {
		return
	}
	old := filters[systemFilterIndex]
	next := domain.ScheduleFilter{FieldID: old.FieldID, Type: domain.FilterEqual, Value: system}
	if err := def.ReplaceFilter(systemFilterIndex, next); err != nil {
		s.logger.Debug("filter not set", "schedule", schedule.Name(), "error", err)
	}
}
