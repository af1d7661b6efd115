package handlers

import (
	"context"
	"math"
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/internal/params"
	"gostspec/pkg/domain"
)

var names = params.DefaultNames()

// feet converts millimeters to internal length units for fixtures.
func feet(mm float64) float64 { return mm / 304.8 }

// squareFeet converts square meters to internal area units for fixtures.
func squareFeet(m2 float64) float64 { return m2 / 0.09290304 }

// targets returns empty, writable target parameters merged with extra.
func targets(extra memory.Params) memory.Params {
	out := memory.Params{
		names.TargetName:         memory.EmptyParam(domain.StorageString),
		names.TargetMark:         memory.EmptyParam(domain.StorageString),
		names.TargetCode:         memory.EmptyParam(domain.StorageString),
		names.TargetManufacturer: memory.EmptyParam(domain.StorageString),
		names.TargetUnit:         memory.EmptyParam(domain.StorageString),
		names.TargetNote:         memory.EmptyParam(domain.StorageString),
		names.TargetMass:         memory.EmptyParam(domain.StorageString),
		names.TargetCount:        memory.EmptyParam(domain.StorageDouble),
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// run processes element id with h inside a transaction and returns the
// outcome plus the committed snapshot.
func run(t *testing.T, store *memory.Store, h Handler, id domain.ElementID, reserve float64) (Outcome, memory.Snapshot) {
	t.Helper()
	var out Outcome
	err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		el, ok := tx.Element(id)
		if !ok {
			t.Fatalf("element %d not found", id)
		}
		var err error
		out, err = Apply(h, el, tx, reserve)
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	return out, store.ExportState()
}

func record(t *testing.T, snap memory.Snapshot, id domain.ElementID) memory.ElementRecord {
	t.Helper()
	for _, rec := range snap.Elements {
		if rec.ID == id {
			return rec
		}
	}
	t.Fatalf("element %d missing from snapshot", id)
	return memory.ElementRecord{}
}

func stringOf(t *testing.T, snap memory.Snapshot, id domain.ElementID, name string) string {
	t.Helper()
	p, ok := record(t, snap, id).Parameters[name]
	if !ok || p.String == nil {
		return ""
	}
	return *p.String
}

func countOf(t *testing.T, snap memory.Snapshot, id domain.ElementID) (float64, bool) {
	t.Helper()
	p, ok := record(t, snap, id).Parameters[names.TargetCount]
	if !ok || p.Double == nil {
		return 0, false
	}
	return *p.Double, true
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
