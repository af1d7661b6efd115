package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/internal/infra/model/postgres/testutil"
	"gostspec/pkg/domain"
)

func openStub(t *testing.T) (*sql.DB, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	return db, conn
}

func seed() memory.Snapshot {
	b := memory.NewBuilder()
	b.Add(memory.ElementRecord{
		Category:   domain.CategoryDuct,
		Class:      domain.ClassDuct,
		Parameters: memory.Params{"С_Система": memory.StringParam("")},
	})
	return b.Snapshot()
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS STATE") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got %v", conn.Execs)
	}
	if len(store.ExportState().Elements) != 0 {
		t.Fatalf("expected empty model")
	}
}

func TestRunInTransactionPersistsBuckets(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.ImportState(seed()); err != nil {
		t.Fatalf("import: %v", err)
	}
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		el, _ := tx.Element(1)
		p, _ := el.LookupParameter("С_Система")
		return p.SetString("П1")
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	rows := conn.Rows("state")
	if len(rows) != len(memory.Buckets) {
		t.Fatalf("expected one row per bucket, got %d", len(rows))
	}

	reloaded, err := NewStore(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	snap := reloaded.ExportState()
	if len(snap.Elements) != 1 || *snap.Elements[0].Parameters["С_Система"].String != "П1" {
		t.Fatalf("expected hydrated write, got %+v", snap.Elements)
	}
}

func TestNewStorePropagatesPingFailure(t *testing.T) {
	_, conn := openStub(t)
	conn.FailPing = true
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestPersistFailureSurfaces(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	conn.FailCommit = true
	err = store.RunInTransaction(context.Background(), func(domain.Transaction) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit error, got %v", err)
	}
}

func TestPersistFailureRestoresModel(t *testing.T) {
	_, conn := openStub(t)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.ImportState(seed()); err != nil {
		t.Fatalf("import: %v", err)
	}
	conn.FailCommit = true
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		el, _ := tx.Element(1)
		p, _ := el.LookupParameter("С_Система")
		return p.SetString("П1")
	})
	if err == nil {
		t.Fatalf("expected commit error")
	}
	if got := *store.ExportState().Elements[0].Parameters["С_Система"].String; got != "" {
		t.Fatalf("unpersisted write kept in memory: %q", got)
	}
	if err := store.ImportState(memory.Snapshot{}); err == nil {
		t.Fatalf("expected import commit error")
	}
	if len(store.ExportState().Elements) != 1 {
		t.Fatalf("failed import replaced the model")
	}
}
