package handlers

import (
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/pkg/domain"
)

func TestFlexDuctNameWithDiameter(t *testing.T) {
	b := memory.NewBuilder()
	typ := b.Type(domain.CategoryFlexDuct, memory.Params{names.SourceName: memory.StringParam("Воздуховод гибкий")})
	round := b.Add(memory.ElementRecord{
		Category: domain.CategoryFlexDuct,
		Class:    domain.ClassFlexDuct,
		TypeID:   typ,
		Parameters: targets(memory.Params{
			names.Diameter: memory.DoubleParam(feet(160)),
			names.Length:   memory.DoubleParam(feet(2500)),
		}),
	})
	plainDuct := b.Add(memory.ElementRecord{
		Category:   domain.CategoryFlexDuct,
		Class:      domain.ClassFlexDuct,
		TypeID:     typ,
		Parameters: targets(nil),
	})
	store := b.Store()
	h := newFlexDuctHandler(names)

	_, snap := run(t, store, h, round, 1.2)
	if got := stringOf(t, snap, round, names.TargetName); got != "Воздуховод гибкий Ø160" {
		t.Fatalf("got name %q", got)
	}
	if count, _ := countOf(t, snap, round); !near(count, 3) {
		t.Fatalf("expected 3 m, got %v", count)
	}
	_, snap = run(t, store, h, plainDuct, 1.2)
	if got := stringOf(t, snap, plainDuct, names.TargetName); got != "Воздуховод гибкий" {
		t.Fatalf("got name %q", got)
	}
}

func TestFlexPipeWithoutType(t *testing.T) {
	b := memory.NewBuilder()
	id := b.Add(memory.ElementRecord{
		Category:   domain.CategoryFlexPipe,
		Class:      domain.ClassFlexPipe,
		Parameters: targets(nil),
	})
	out, snap := run(t, b.Store(), newFlexPipeHandler(names), id, 1)
	if out.Rejected || !out.Counted {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if count, _ := countOf(t, snap, id); count != 1 {
		t.Fatalf("expected one piece, got %v", count)
	}
}
