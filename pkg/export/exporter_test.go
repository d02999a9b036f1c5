package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.New([]string{"ID", "ADHD", "feat_a", "feat_b"})
	rows := [][]string{
		{"7", "1", "3.2", ""},
		{"9", "0", "-1.1", "0.5"},
	}
	for _, row := range rows {
		if err := table.AppendRow(row); err != nil {
			t.Fatalf("building table: %v", err)
		}
	}
	return table
}

func TestWriteIntegratedRoundTrips(t *testing.T) {
	table := sampleTable(t)
	path := filepath.Join(t.TempDir(), "out", "integrated.csv")

	if err := WriteIntegrated(table, path); err != nil {
		t.Fatalf("writing integrated table: %v", err)
	}

	got, err := dataset.Read(path, OutputDelimiter)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if got.NumRows() != table.NumRows() {
		t.Fatalf("expected %d rows, got %d", table.NumRows(), got.NumRows())
	}
	if cell := got.Cell(0, "feat_b"); cell != dataset.Missing {
		t.Fatalf("missing sentinel must survive the round trip, got %q", cell)
	}
	if cell := got.Cell(1, "feat_a"); cell != "-1.1" {
		t.Fatalf("expected feat_a=-1.1, got %q", cell)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("listing output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestWritePerPatientNamingAndIdempotence(t *testing.T) {
	table := sampleTable(t)
	dir := t.TempDir()

	if err := WritePerPatient(table, dir, "ID"); err != nil {
		t.Fatalf("writing per-patient files: %v", err)
	}

	path := filepath.Join(dir, "patient_7.csv")
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected patient_7.csv: %v", err)
	}

	single, err := dataset.Read(path, OutputDelimiter)
	if err != nil {
		t.Fatalf("reading patient file: %v", err)
	}
	if single.NumRows() != 1 {
		t.Fatalf("expected exactly one row, got %d", single.NumRows())
	}
	if got := single.Cell(0, "ID"); got != "7" {
		t.Fatalf("expected ID=7, got %q", got)
	}

	// A re-run over the unchanged table must reproduce identical bytes.
	if err := WritePerPatient(table, dir, "ID"); err != nil {
		t.Fatalf("re-running per-patient fan-out: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("re-reading patient file: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("re-run produced different bytes for the same patient")
	}
}

func TestWritePerPatientRequiresIdentifierColumn(t *testing.T) {
	table := dataset.New([]string{"feat_a"})
	if err := WritePerPatient(table, t.TempDir(), "ID"); err == nil {
		t.Fatal("expected missing identifier column error")
	}
}

func TestPatientFileName(t *testing.T) {
	if got := PatientFileName("42"); got != "patient_42.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
