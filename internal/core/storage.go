package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"gostspec/internal/infra/model/memory"
	"gostspec/internal/infra/model/postgres"
	"gostspec/internal/infra/model/sqlite"
	"gostspec/pkg/domain"
)

// StorageDriver identifies a model store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests, batch runs)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageOptions selects and configures the model store.
type StorageOptions struct {
	Driver      StorageDriver `yaml:"driver"`
	SQLitePath  string        `yaml:"sqlite_path"`
	PostgresDSN string        `yaml:"postgres_dsn"`
}

// PersistentModelStore is a model store that can exchange whole snapshots.
type PersistentModelStore interface {
	domain.ModelStore
	ExportState() memory.Snapshot
	ImportState(memory.Snapshot) error
	LastChanges() []memory.Change
}

var (
	_ PersistentModelStore = (*memory.Store)(nil)
	_ PersistentModelStore = (*sqlite.Store)(nil)
	_ PersistentModelStore = (*postgres.Store)(nil)
)

// StorageOptionsFromEnv reads the storage selection from the environment:
//
//	GOSTSPEC_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	GOSTSPEC_SQLITE_PATH: path to sqlite file (default ./gostspec.db)
//	GOSTSPEC_POSTGRES_DSN: postgres DSN when driver=postgres
func StorageOptionsFromEnv() StorageOptions {
	opts := StorageOptions{
		Driver:      StorageDriver(os.Getenv("GOSTSPEC_STORAGE_DRIVER")),
		SQLitePath:  os.Getenv("GOSTSPEC_SQLITE_PATH"),
		PostgresDSN: os.Getenv("GOSTSPEC_POSTGRES_DSN"),
	}
	if opts.Driver == "" {
		opts.Driver = StorageSQLite
	}
	return opts
}

// OpenModelStore opens the configured backend.
func OpenModelStore(ctx context.Context, opts StorageOptions) (PersistentModelStore, error) {
	switch opts.Driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite, "":
		return sqlite.NewStore(opts.SQLitePath)
	case StoragePostgres:
		return postgres.NewStore(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", opts.Driver)
	}
}

// CloseModelStore closes stores that hold external resources.
func CloseModelStore(store PersistentModelStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
