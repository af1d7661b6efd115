package core

import (
	"errors"
	"math"
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/pkg/domain"
)

func emptySystem() memory.Params {
	return memory.Params{names.System: memory.EmptyParam(domain.StorageString)}
}

func withSystem(system string) memory.Params {
	return memory.Params{names.System: memory.StringParam(system)}
}

func instance(category domain.Category, params memory.Params) memory.ElementRecord {
	return memory.ElementRecord{Category: category, Class: domain.ClassFamilyInstance, Parameters: params}
}

func copyOnce(t *testing.T, store *memory.Store) domain.CopyReport {
	t.Helper()
	report, err := NewService(store).CopyParameters(t.Context())
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	return report
}

func TestCopyInheritsSystemFromRootFamily(t *testing.T) {
	b := memory.NewBuilder()
	root := b.Add(instance(domain.CategoryMechanicalEquipment, withSystem("П1")))
	middle := instance(domain.CategoryMechanicalEquipment, emptySystem())
	middle.SuperComponent = root
	mid := b.Add(middle)
	leaf := instance(domain.CategoryDuctAccessory, emptySystem())
	leaf.SuperComponent = mid
	leafID := b.Add(leaf)
	store := b.Store()

	report := copyOnce(t, store)
	snap := store.ExportState()
	if systemOf(t, snap, leafID) != "П1" || systemOf(t, snap, mid) != "П1" {
		t.Fatalf("nested elements did not inherit: %q %q", systemOf(t, snap, mid), systemOf(t, snap, leafID))
	}
	if report.NestedCopied != 2 {
		t.Fatalf("expected two nested writes, got %+v", report)
	}
}

func TestCopyNestedKeepsExistingSystem(t *testing.T) {
	b := memory.NewBuilder()
	root := b.Add(instance(domain.CategoryMechanicalEquipment, withSystem("П1")))
	child := instance(domain.CategoryDuctAccessory, withSystem("В2"))
	child.SuperComponent = root
	id := b.Add(child)
	store := b.Store()

	copyOnce(t, store)
	if got := systemOf(t, store.ExportState(), id); got != "В2" {
		t.Fatalf("existing system overwritten: %q", got)
	}
}

func TestCopyNestedCycleTerminates(t *testing.T) {
	b := memory.NewBuilder()
	a := instance(domain.CategoryMechanicalEquipment, emptySystem())
	a.ID, a.SuperComponent = 10, 11
	c := instance(domain.CategoryMechanicalEquipment, emptySystem())
	c.ID, c.SuperComponent = 11, 10
	b.Add(a)
	b.Add(c)
	store := b.Store()

	report := copyOnce(t, store)
	if report.NestedCopied != 0 || systemOf(t, store.ExportState(), 10) != "" {
		t.Fatalf("cycle must not produce writes: %+v", report)
	}
}

func TestCopyNativeSystemName(t *testing.T) {
	b := memory.NewBuilder()
	pipe := b.Add(memory.ElementRecord{
		Category: domain.CategoryPipe,
		Class:    domain.ClassPipe,
		Parameters: memory.Params{
			names.System:          memory.EmptyParam(domain.StorageString),
			names.RevitSystemName: memory.StringParam("В1 1"),
		},
	})
	kept := b.Add(memory.ElementRecord{
		Category: domain.CategoryDuct,
		Class:    domain.ClassDuct,
		Parameters: memory.Params{
			names.System:          memory.StringParam("П1"),
			names.RevitSystemName: memory.StringParam("ПВ 2"),
		},
	})
	store := b.Store()

	report := copyOnce(t, store)
	snap := store.ExportState()
	if systemOf(t, snap, pipe) != "В1 1" || systemOf(t, snap, kept) != "П1" {
		t.Fatalf("unexpected systems %q %q", systemOf(t, snap, pipe), systemOf(t, snap, kept))
	}
	if report.NativeCopied != 1 {
		t.Fatalf("expected one native write, got %+v", report)
	}
}

func TestCopyInfersSystemFromConnectedCurves(t *testing.T) {
	b := memory.NewBuilder()
	pipe := b.Add(memory.ElementRecord{
		Category:   domain.CategoryPipe,
		Class:      domain.ClassPipe,
		Parameters: memory.Params{names.RevitSystemName: memory.StringParam("К1")},
	})
	duct := b.Add(memory.ElementRecord{Category: domain.CategoryDuct, Class: domain.ClassDuct, MEPSystem: "П2"})
	valve := b.Add(instance(domain.CategoryPipeAccessory, emptySystem()))
	damper := b.Add(instance(domain.CategoryDuctAccessory, emptySystem()))
	loose := b.Add(instance(domain.CategoryPipeFitting, emptySystem()))
	b.Connect(valve, pipe)
	b.Connect(damper, duct)
	b.Connect(loose, valve)
	store := b.Store()

	report := copyOnce(t, store)
	snap := store.ExportState()
	if systemOf(t, snap, valve) != "К1" || systemOf(t, snap, damper) != "П2" {
		t.Fatalf("unexpected systems %q %q", systemOf(t, snap, valve), systemOf(t, snap, damper))
	}
	if systemOf(t, snap, loose) != "" {
		t.Fatalf("fitting connected only to a family instance must stay empty")
	}
	if report.ConnectorCopied != 2 {
		t.Fatalf("expected two connector writes, got %+v", report)
	}
}

func TestCopySubgroupStrategies(t *testing.T) {
	b := memory.NewBuilder()
	panel := b.Add(instance(domain.CategoryElectricalEquipment, withSystem("Щ1")))
	nested := instance(domain.CategoryLightingFixture, emptySystem())
	nested.SuperComponent = panel
	nestedID := b.Add(nested)

	bySubgroup := b.Add(instance(domain.CategoryElectricalFixture, memory.Params{
		names.System:   memory.EmptyParam(domain.StorageString),
		names.Subgroup: memory.StringParam("ЭО1"),
	}))

	byFamily := instance(domain.CategoryFireAlarmDevice, emptySystem())
	byFamily.BuiltIns = map[domain.BuiltInParameter]*memory.ParameterRecord{
		domain.BuiltInFamilyName: memory.StringParam("Извещатель ИП212"),
	}
	byFamilyID := b.Add(byFamily)

	typ := b.Add(memory.ElementRecord{
		Category: domain.CategoryDataDevice,
		Class:    domain.ClassElementType,
		BuiltIns: map[domain.BuiltInParameter]*memory.ParameterRecord{
			domain.BuiltInFamilyName: memory.StringParam("Розетка RJ45"),
		},
	})
	byType := instance(domain.CategoryDataDevice, emptySystem())
	byType.TypeID = typ
	byTypeID := b.Add(byType)
	store := b.Store()

	report := copyOnce(t, store)
	snap := store.ExportState()
	want := map[domain.ElementID]string{
		nestedID:   "Щ1",
		bySubgroup: "ЭО1",
		byFamilyID: "Извещатель ИП212",
		byTypeID:   "Розетка RJ45",
	}
	for id, system := range want {
		if got := systemOf(t, snap, id); got != system {
			t.Fatalf("element %d: system %q, want %q", id, got, system)
		}
	}
	if report.SubgroupCopied != 4 {
		t.Fatalf("expected four subgroup writes, got %+v", report)
	}
}

func TestCopyReserveCoefficient(t *testing.T) {
	cases := []struct {
		name   string
		global *float64
		want   float64
	}{
		{name: "missing", want: 1.0},
		{name: "set", global: ptr(1.15), want: 1.15},
		{name: "nan", global: ptr(math.NaN()), want: 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := memory.NewBuilder()
			if tc.global != nil {
				b.Global(names.Reserve, *tc.global)
			}
			report := copyOnce(t, b.Store())
			if report.ReserveCoefficient != tc.want {
				t.Fatalf("reserve %v, want %v", report.ReserveCoefficient, tc.want)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestCopySweepCountsOutcomes(t *testing.T) {
	b := memory.NewBuilder()
	b.Add(instance(domain.CategoryAirTerminal, memory.Params{
		names.SourceName:  memory.StringParam("Решетка АМН"),
		names.TargetName:  memory.EmptyParam(domain.StorageString),
		names.TargetCount: memory.EmptyParam(domain.StorageDouble),
	}))
	b.Add(memory.ElementRecord{Category: domain.CategoryAirTerminal, Class: domain.ClassMechanicalSystem})
	store := b.Store()
	metrics := &captureMetricsRecorder{}

	report, err := NewService(store, WithMetricsRecorder(metrics)).CopyParameters(t.Context())
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	st := report.Categories[domain.CategoryAirTerminal]
	if st.Processed != 1 || st.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if got := metrics.elements[domain.CategoryAirTerminal.String()]; got != [2]int{1, 1} {
		t.Fatalf("unexpected element metrics %v", metrics.elements)
	}
	if report.RunID == "" {
		t.Fatalf("run id missing")
	}
}

func TestCopyParametersIsIdempotent(t *testing.T) {
	b := memory.NewBuilder()
	pipe := b.Add(memory.ElementRecord{
		Category: domain.CategoryPipe,
		Class:    domain.ClassPipe,
		Parameters: memory.Params{
			names.System:          memory.EmptyParam(domain.StorageString),
			names.RevitSystemName: memory.StringParam("В1"),
		},
	})
	valve := b.Add(instance(domain.CategoryPipeAccessory, memory.Params{
		names.System:      memory.EmptyParam(domain.StorageString),
		names.SourceName:  memory.StringParam("Кран шаровой"),
		names.TargetName:  memory.EmptyParam(domain.StorageString),
		names.TargetCount: memory.EmptyParam(domain.StorageDouble),
	}))
	b.Connect(valve, pipe)
	store := b.Store()

	first := copyOnce(t, store)
	if first.SystemWrites() != 2 || len(store.LastChanges()) == 0 {
		t.Fatalf("first run wrote nothing: %+v", first)
	}
	second := copyOnce(t, store)
	if second.SystemWrites() != 0 {
		t.Fatalf("second run wrote systems: %+v", second)
	}
	if changes := store.LastChanges(); len(changes) != 0 {
		t.Fatalf("second run changed parameters: %+v", changes)
	}
}

func TestParameterCopyServiceRequiresDocument(t *testing.T) {
	if _, err := NewParameterCopyService(names, nil).Execute(nil); !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestRootOfStopsAtNonFamilyParent(t *testing.T) {
	b := memory.NewBuilder()
	host := b.Add(memory.ElementRecord{Category: domain.CategoryPipe, Class: domain.ClassPipe})
	child := instance(domain.CategoryPipeFitting, emptySystem())
	child.SuperComponent = host
	id := b.Add(child)
	_ = b.Store().View(t.Context(), func(doc domain.Document) error {
		el, _ := doc.Element(id)
		fi := el.(domain.FamilyInstance)
		if root := rootOf(fi); root.ID() != id {
			t.Fatalf("root must stay at the family instance, got %d", root.ID())
		}
		return nil
	})
}
