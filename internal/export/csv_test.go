package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"gostspec/internal/infra/model/memory"
	"gostspec/pkg/domain"
)

func TestRenderWritesHeaderThenBody(t *testing.T) {
	b := memory.NewBuilder()
	for _, name := range []string{"Труба 20", "Труба 15; ГОСТ"} {
		b.Add(memory.ElementRecord{
			Category:   domain.CategoryPipe,
			Class:      domain.ClassPipe,
			Parameters: memory.Params{"name": memory.StringParam(name)},
		})
	}
	b.AddSchedule(memory.ScheduleRecord{
		Name:       "Трубы",
		Categories: []domain.Category{domain.CategoryPipe},
		Fields:     []memory.FieldRecord{{Parameter: "name"}},
		SortBy:     []int{0},
		Header:     [][]string{{"Наименование", "Система В1"}},
	})
	var data []byte
	err := b.Store().View(context.Background(), func(doc domain.Document) error {
		s, _ := doc.ScheduleByName("Трубы")
		var err error
		data, err = Render(s)
		return err
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "Система В1" || rows[1][0] != "Труба 15; ГОСТ" || rows[2][0] != "Труба 20" {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestKey(t *testing.T) {
	cases := []struct {
		prefix, name, want string
	}{
		{"", "О_Спецификация_В1", "schedules/О_Спецификация_В1/r1.csv"},
		{"/exports/", "a/b", "exports/schedules/a_b/r1.csv"},
		{"", "../up", "schedules/__up/r1.csv"},
		{"", "  ", "schedules/_/r1.csv"},
	}
	for _, tc := range cases {
		if got := Key(tc.prefix, tc.name, "r1"); got != tc.want {
			t.Fatalf("Key(%q, %q) = %q, want %q", tc.prefix, tc.name, got, tc.want)
		}
	}
}
