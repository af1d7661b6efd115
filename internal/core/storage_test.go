package core

import (
	"path/filepath"
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/internal/infra/model/sqlite"
)

func TestOpenModelStoreMemory(t *testing.T) {
	store, err := OpenModelStore(t.Context(), StorageOptions{Driver: StorageMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
	if err := CloseModelStore(store); err != nil {
		t.Fatalf("close memory: %v", err)
	}
}

func TestOpenModelStoreSQLitePersistsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	opts := StorageOptions{SQLitePath: path}
	store, err := OpenModelStore(t.Context(), opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*sqlite.Store); !ok {
		t.Fatalf("empty driver must select sqlite, got %T", store)
	}
	b := memory.NewBuilder()
	b.Add(fitting("В1", "1", "Отвод", "А"))
	b.AddSchedule(positionSchedule(DefaultScheduleNames().Position))
	if err := store.ImportState(b.Snapshot()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := NewService(store).NumberPositions(t.Context(), ""); err != nil {
		t.Fatalf("number: %v", err)
	}
	if err := CloseModelStore(store); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenModelStore(t.Context(), opts)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = CloseModelStore(reopened) }()
	snap := reopened.ExportState()
	if got := positionOf(t, snap, snap.Elements[0].ID); got != "0" {
		t.Fatalf("position not persisted: %q", got)
	}
}

func TestOpenModelStoreUnknownDriver(t *testing.T) {
	if _, err := OpenModelStore(t.Context(), StorageOptions{Driver: "mongo"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestStorageOptionsFromEnv(t *testing.T) {
	t.Setenv("GOSTSPEC_STORAGE_DRIVER", "")
	t.Setenv("GOSTSPEC_SQLITE_PATH", "/tmp/model.db")
	t.Setenv("GOSTSPEC_POSTGRES_DSN", "")
	opts := StorageOptionsFromEnv()
	if opts.Driver != StorageSQLite || opts.SQLitePath != "/tmp/model.db" {
		t.Fatalf("unexpected options %+v", opts)
	}
	t.Setenv("GOSTSPEC_STORAGE_DRIVER", "postgres")
	t.Setenv("GOSTSPEC_POSTGRES_DSN", "postgres://db/gostspec")
	opts = StorageOptionsFromEnv()
	if opts.Driver != StoragePostgres || opts.PostgresDSN != "postgres://db/gostspec" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
