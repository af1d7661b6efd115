package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/pkg/domain"
)

func seed() memory.Snapshot {
	b := memory.NewBuilder()
	b.Global("Запас", 1.1)
	b.Add(memory.ElementRecord{
		Category: domain.CategoryPipe,
		Class:    domain.ClassPipe,
		Parameters: memory.Params{
			"С_Система": memory.StringParam(""),
		},
	})
	b.AddSchedule(memory.ScheduleRecord{Name: "Позиции", Categories: []domain.Category{domain.CategoryPipe}})
	return b.Snapshot()
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "model.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.ImportState(seed()); err != nil {
		t.Fatalf("import: %v", err)
	}
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		el, _ := tx.Element(1)
		p, _ := el.LookupParameter("С_Система")
		return p.SetString("В1")
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	snap := reopened.ExportState()
	if len(snap.Elements) != 1 || len(snap.Schedules) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := *snap.Elements[0].Parameters["С_Система"].String; got != "В1" {
		t.Fatalf("expected persisted write, got %q", got)
	}
	if snap.Globals["Запас"] != 1.1 {
		t.Fatalf("expected globals persisted, got %v", snap.Globals)
	}
	if reopened.Path() != path {
		t.Fatalf("unexpected path %s", reopened.Path())
	}
}

func TestFailedTransactionIsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.ImportState(seed()); err != nil {
		t.Fatalf("import: %v", err)
	}
	_ = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		el, _ := tx.Element(1)
		p, _ := el.LookupParameter("С_Система")
		_ = p.SetString("В1")
		return domain.ErrNothingToNumber
	})
	_ = store.Close()

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if got := *reopened.ExportState().Elements[0].Parameters["С_Система"].String; got != "" {
		t.Fatalf("rolled back write was persisted: %q", got)
	}
}

func TestPersistFailureRestoresModel(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "model.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.ImportState(seed()); err != nil {
		t.Fatalf("import: %v", err)
	}
	_ = store.Close()

	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		el, _ := tx.Element(1)
		p, _ := el.LookupParameter("С_Система")
		return p.SetString("В1")
	})
	if err == nil {
		t.Fatalf("expected persist error on a closed database")
	}
	if got := *store.ExportState().Elements[0].Parameters["С_Система"].String; got != "" {
		t.Fatalf("unpersisted write kept in memory: %q", got)
	}
}

func TestNewStoreEmptyDatabase(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	if snap := store.ExportState(); len(snap.Elements) != 0 {
		t.Fatalf("expected empty model, got %d elements", len(snap.Elements))
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows before first commit, got %d", count)
	}
}
