package memory

import (
	"context"
	"errors"
	"testing"

	"gostspec/pkg/domain"
)

func scheduleFixture() (*Store, domain.ElementID) {
	b := NewBuilder()
	add := func(system, name string) {
		b.Add(ElementRecord{
			Category: domain.CategoryPipe,
			Class:    domain.ClassPipe,
			Parameters: Params{
				"С_Система":      StringParam(system),
				"С_Наименование": StringParam(name),
			},
		})
	}
	add("К1", "Труба 20")
	add("В1", "Труба 15")
	add("В1", "Труба 15")
	add("В1", "Труба 25")
	id := b.AddSchedule(ScheduleRecord{
		Name:       "Позиции",
		Categories: []domain.Category{domain.CategoryPipe},
		Fields:     []FieldRecord{{Parameter: "С_Система"}, {Parameter: "С_Наименование"}},
		Filters:    []domain.ScheduleFilter{{FieldID: 0, Type: domain.FilterHasValue}, {FieldID: 0, Type: domain.FilterNotEqual, Value: "Х"}},
		SortBy:     []int{0, 1},
		Header:     [][]string{{"", "Система"}},
	})
	return b.Store(), id
}

func TestBodyCollapsesAndSorts(t *testing.T) {
	store, id := scheduleFixture()
	_ = store.View(context.Background(), func(doc domain.Document) error {
		sched, ok := doc.ScheduleByName("Позиции")
		if !ok || sched.ID() != id {
			t.Fatalf("schedule not found")
		}
		body := sched.Section(domain.SectionBody)
		if body.RowCount() != 3 {
			t.Fatalf("expected 3 collapsed rows, got %d", body.RowCount())
		}
		want := [][2]string{{"В1", "Труба 15"}, {"В1", "Труба 25"}, {"К1", "Труба 20"}}
		for i, w := range want {
			if body.CellText(i, 0) != w[0] || body.CellText(i, 1) != w[1] {
				t.Fatalf("row %d = %q,%q want %v", i, body.CellText(i, 0), body.CellText(i, 1), w)
			}
		}
		if len(doc.ElementsInView(id)) != 4 {
			t.Fatalf("expected all four elements under the view")
		}
		if err := body.SetCellText(0, 0, "x"); !errors.Is(err, domain.ErrReadOnly) {
			t.Fatalf("body must be read-only, got %v", err)
		}
		return nil
	})
}

func TestFilterReplacementNarrowsRows(t *testing.T) {
	store, _ := scheduleFixture()
	err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		sched, _ := tx.ScheduleByName("Позиции")
		if err := sched.Definition().ReplaceFilter(1, domain.ScheduleFilter{FieldID: 0, Type: domain.FilterEqual, Value: "К1"}); err != nil {
			return err
		}
		if got := sched.Section(domain.SectionBody).RowCount(); got != 1 {
			t.Fatalf("expected 1 row after filter, got %d", got)
		}
		if err := sched.Definition().ReplaceFilter(5, domain.ScheduleFilter{}); !errors.Is(err, domain.ErrOutOfRange) {
			t.Fatalf("expected out of range, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestDuplicateAndRename(t *testing.T) {
	store, id := scheduleFixture()
	err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		src, _ := tx.ScheduleByName("Позиции")
		dup, err := tx.DuplicateSchedule(src)
		if err != nil {
			return err
		}
		if dup.ID() == id || dup.Name() != "Позиции Copy 1" {
			t.Fatalf("unexpected duplicate %d %q", dup.ID(), dup.Name())
		}
		if err := dup.SetName("Позиции"); !errors.Is(err, domain.ErrNameInUse) {
			t.Fatalf("expected name collision, got %v", err)
		}
		if err := dup.SetName("Новая"); err != nil {
			return err
		}
		header := dup.Section(domain.SectionHeader)
		if err := header.SetCellText(0, 1, "Система В1"); err != nil {
			return err
		}
		if err := header.SetCellText(3, 0, "x"); !errors.Is(err, domain.ErrOutOfRange) {
			t.Fatalf("expected out of range header write, got %v", err)
		}
		if src.Section(domain.SectionHeader).CellText(0, 1) != "Система" {
			t.Fatalf("duplicate header must not alias the source")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	snap := store.ExportState()
	if len(snap.Schedules) != 2 || snap.Schedules[1].Name != "Новая" || snap.Schedules[1].Header[0][1] != "Система В1" {
		t.Fatalf("unexpected schedules %+v", snap.Schedules)
	}
}

func TestItemizedScheduleKeepsDuplicates(t *testing.T) {
	b := NewBuilder()
	for range 2 {
		b.Add(ElementRecord{Category: domain.CategoryDuct, Class: domain.ClassDuct, Parameters: Params{"С_Система": StringParam("П1")}})
	}
	b.AddSchedule(ScheduleRecord{Name: "s", Categories: []domain.Category{domain.CategoryDuct}, Fields: []FieldRecord{{Parameter: "С_Система"}}, Itemize: true})
	store := b.Store()
	_ = store.View(context.Background(), func(doc domain.Document) error {
		sched, _ := doc.ScheduleByName("s")
		if got := sched.Section(domain.SectionBody).RowCount(); got != 2 {
			t.Fatalf("expected itemized rows, got %d", got)
		}
		return nil
	})
}
