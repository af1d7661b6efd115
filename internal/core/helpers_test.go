package core

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"gostspec/internal/infra/model/memory"
	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

var names = params.DefaultNames()

type captureLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *captureLogger) add(level, msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, level+":"+msg)
	l.mu.Unlock()
}

func (l *captureLogger) Debug(msg string, _ ...any) { l.add("d", msg) }
func (l *captureLogger) Info(msg string, _ ...any)  { l.add("i", msg) }
func (l *captureLogger) Warn(msg string, _ ...any)  { l.add("w", msg) }
func (l *captureLogger) Error(msg string, _ ...any) { l.add("e", msg) }

func (l *captureLogger) has(entry string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e == entry {
			return true
		}
	}
	return false
}

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls    []metricsCall
	elements map[string][2]int
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) ObserveElements(_ context.Context, category string, processed, skipped int) {
	if c.elements == nil {
		c.elements = make(map[string][2]int)
	}
	c.elements[category] = [2]int{processed, skipped}
}

type spanRecord struct {
	op    string
	runID string
	err   error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op, runID: RunIDFromContext(ctx)}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
	runID  string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, runID: s.runID, err: err})
}

// fitting returns a pipe fitting shown by the position schedule fixture.
func fitting(system, order, name, mark string) memory.ElementRecord {
	return memory.ElementRecord{
		Category: domain.CategoryPipeFitting,
		Class:    domain.ClassFamilyInstance,
		Parameters: memory.Params{
			names.System:     memory.StringParam(system),
			names.Order:      memory.StringParam(order),
			names.TargetName: memory.StringParam(name),
			names.TargetMark: memory.StringParam(mark),
			names.Position:   memory.EmptyParam(domain.StorageString),
		},
	}
}

// positionSchedule lays out system, order, position, name and mark columns
// in the order numbering reads them.
func positionSchedule(name string) memory.ScheduleRecord {
	return memory.ScheduleRecord{
		Name:       name,
		Categories: []domain.Category{domain.CategoryPipeFitting},
		Fields: []memory.FieldRecord{
			{Parameter: names.System},
			{Parameter: names.Order},
			{Parameter: names.Position},
			{Parameter: names.TargetName},
			{Parameter: names.TargetMark},
		},
		Filters: []domain.ScheduleFilter{
			{FieldID: 0, Type: domain.FilterHasValue},
			{FieldID: 0, Type: domain.FilterNotEqual, Value: "-"},
		},
		SortBy: []int{0, 1, 3, 4},
		Header: [][]string{{"", "Спецификация"}},
		Parameters: memory.Params{
			names.ProjectSection: memory.EmptyParam(domain.StorageString),
		},
	}
}

func positionOf(t *testing.T, snap memory.Snapshot, id domain.ElementID) string {
	t.Helper()
	for _, rec := range snap.Elements {
		if rec.ID != id {
			continue
		}
		p, ok := rec.Parameters[names.Position]
		if !ok || p.String == nil {
			return ""
		}
		return *p.String
	}
	t.Fatalf("element %d missing from snapshot", id)
	return ""
}

func systemOf(t *testing.T, snap memory.Snapshot, id domain.ElementID) string {
	t.Helper()
	for _, rec := range snap.Elements {
		if rec.ID != id {
			continue
		}
		p, ok := rec.Parameters[names.System]
		if !ok || p.String == nil {
			return ""
		}
		return *p.String
	}
	t.Fatalf("element %d missing from snapshot", id)
	return ""
}

func scheduleRecord(t *testing.T, snap memory.Snapshot, name string) memory.ScheduleRecord {
	t.Helper()
	for _, rec := range snap.Schedules {
		if rec.Name == name {
			return rec
		}
	}
	var have []string
	for _, rec := range snap.Schedules {
		have = append(have, rec.Name)
	}
	t.Fatalf("schedule %q missing; have %s", name, strings.Join(have, ", "))
	return memory.ScheduleRecord{}
}
