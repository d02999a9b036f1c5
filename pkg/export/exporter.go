// Package export writes the integrated record table and its per-patient
// fan-out to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
)

// OutputDelimiter is the convention of the integrated table and the
// per-patient files.
const OutputDelimiter = ','

// WriteIntegrated writes the whole table once. The write goes through a
// temporary file and a rename so an aborted run never leaves a partial
// integrated table behind.
func WriteIntegrated(table *dataset.Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".integrated-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := writeTable(tmp, table); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"path": path,
		"rows": table.NumRows(),
	}).Info("Integrated table written")
	return nil
}

// WritePerPatient emits one file per row, named from the patient identifier.
// Existing files are overwritten without an existence check, so re-running
// on an unchanged table reproduces byte-identical files.
func WritePerPatient(table *dataset.Table, dir string, idColumn string) error {
	idIdx := table.ColumnIndex(idColumn)
	if idIdx < 0 {
		return fmt.Errorf("identifier column %q not present", idColumn)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for r, row := range table.Rows {
		single := dataset.New(table.Columns)
		single.Rows = append(single.Rows, row)

		path := filepath.Join(dir, PatientFileName(row[idIdx]))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := writeTable(f, single); err != nil {
			f.Close()
			return fmt.Errorf("patient row %d: %w", r, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"dir":   dir,
		"files": table.NumRows(),
	}).Info("Per-patient files written")
	return nil
}

// PatientFileName is the deterministic per-patient filename pattern.
func PatientFileName(identifier string) string {
	return fmt.Sprintf("patient_%s.csv", identifier)
}

func writeTable(f *os.File, table *dataset.Table) error {
	w := csv.NewWriter(f)
	w.Comma = OutputDelimiter
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
