// Package export renders schedules to CSV artifacts.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"gostspec/pkg/domain"
)

// ContentType is the media type of rendered schedules.
const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes the header rows followed by the body rows of s.
func WriteCSV(w io.Writer, s domain.Schedule) error {
	cw := csv.NewWriter(w)
	for _, section := range []domain.SectionType{domain.SectionHeader, domain.SectionBody} {
		if err := writeSection(cw, s.Section(section)); err != nil {
			return fmt.Errorf("schedule %q %s: %w", s.Name(), section, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSection(cw *csv.Writer, t domain.TableSection) error {
	cols := t.ColumnCount()
	for row := 0; row < t.RowCount(); row++ {
		record := make([]string, cols)
		for col := range record {
			record[col] = t.CellText(row, col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the CSV bytes of s.
func Render(s domain.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var keyReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// Key returns the blob key of one exported schedule:
// [prefix/]schedules/<name>/<run-id>.csv.
func Key(prefix, name, runID string) string {
	name = strings.TrimSpace(keyReplacer.Replace(name))
	if name == "" {
		name = "_"
	}
	key := path.Join("schedules", name, runID+".csv")
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = path.Join(prefix, key)
	}
	return key
}
