package handlers

import (
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/pkg/domain"
)

func pipeInsulationFixture(marker string, hostClass domain.ElementClass) (*memory.Store, domain.ElementID) {
	b := memory.NewBuilder()
	host := b.Add(memory.ElementRecord{Category: domain.CategoryPipe, Class: hostClass})
	typ := b.Type(domain.CategoryPipeInsulation, memory.Params{
		names.SourceInsulationType: memory.StringParam(marker),
	})
	id := b.Add(memory.ElementRecord{
		Category: domain.CategoryPipeInsulation,
		Class:    domain.ClassPipeInsulation,
		TypeID:   typ,
		Host:     host,
		Parameters: targets(memory.Params{
			names.SourceName:           memory.StringParam("K-Flex ST"),
			names.Thickness:            memory.DoubleParam(feet(13)),
			names.PipeSize:             memory.StringParam("Ø57"),
			names.SourceInsulationSize: memory.DoubleParam(76.25),
			names.Length:               memory.DoubleParam(feet(3000)),
			names.Area:                 memory.DoubleParam(squareFeet(2)),
		}),
	})
	return b.Store(), id
}

func TestPipeInsulationByMarker(t *testing.T) {
	cases := []struct {
		marker string
		name   string
		count  float64
	}{
		{"1Д", "K-Flex ST 13мм, для труб Ø57", 3.3},
		{"2П", "K-Flex ST 13мм, диаметром 76.3мм", 2.2},
		{"О", "K-Flex ST", 1.1 * 2 * 13 / 1000},
		{"", "K-Flex ST", domain.ErrorQuantity},
	}
	for _, tc := range cases {
		store, id := pipeInsulationFixture(tc.marker, domain.ClassPipe)
		_, snap := run(t, store, newPipeInsulationHandler(names), id, 1.1)
		if got := stringOf(t, snap, id, names.TargetName); got != tc.name {
			t.Fatalf("marker %q: name %q want %q", tc.marker, got, tc.name)
		}
		count, ok := countOf(t, snap, id)
		if !ok || !near(count, tc.count) {
			t.Fatalf("marker %q: count %v want %v", tc.marker, count, tc.count)
		}
	}
}

func TestPipeInsulationUnknownMarkerLeavesCount(t *testing.T) {
	store, id := pipeInsulationFixture("X", domain.ClassPipe)
	out, snap := run(t, store, newPipeInsulationHandler(names), id, 1)
	if out.Counted {
		t.Fatalf("expected no count for unknown marker")
	}
	if _, ok := countOf(t, snap, id); ok {
		t.Fatalf("count was written")
	}
}

func TestInsulationOnWrongHostIsExcluded(t *testing.T) {
	store, id := pipeInsulationFixture("1Д", domain.ClassDuct)
	out, snap := run(t, store, newPipeInsulationHandler(names), id, 1)
	if !out.Excluded {
		t.Fatalf("expected exclusion, got %+v", out)
	}
	if got := stringOf(t, snap, id, names.TargetName); got != domain.ExcludeName {
		t.Fatalf("got name %q", got)
	}
	if _, ok := countOf(t, snap, id); ok {
		t.Fatalf("excluded element was counted")
	}
}

func TestDuctInsulation(t *testing.T) {
	b := memory.NewBuilder()
	duct := b.Add(memory.ElementRecord{Category: domain.CategoryDuct, Class: domain.ClassDuct})
	pipe := b.Add(memory.ElementRecord{Category: domain.CategoryPipe, Class: domain.ClassPipe})
	layer := func(host domain.ElementID) domain.ElementID {
		return b.Add(memory.ElementRecord{
			Category: domain.CategoryDuctInsulation,
			Class:    domain.ClassDuctInsulation,
			Host:     host,
			Parameters: targets(memory.Params{
				names.SourceName: memory.StringParam("Минвата"),
				names.Thickness:  memory.DoubleParam(feet(25)),
				names.Area:       memory.DoubleParam(squareFeet(4)),
			}),
		})
	}
	onDuct, onPipe := layer(duct), layer(pipe)
	store := b.Store()
	h := newDuctInsulationHandler(names)

	_, snap := run(t, store, h, onDuct, 1.5)
	if got := stringOf(t, snap, onDuct, names.TargetName); got != "Минвата δ=25мм" {
		t.Fatalf("got name %q", got)
	}
	if count, _ := countOf(t, snap, onDuct); !near(count, 6) {
		t.Fatalf("expected 6 m², got %v", count)
	}

	out, snap := run(t, store, h, onPipe, 1.5)
	if !out.Excluded || stringOf(t, snap, onPipe, names.TargetName) != domain.ExcludeName {
		t.Fatalf("expected pipe-hosted layer excluded, got %+v", out)
	}
}
