package integrate

import (
	"os"
	"testing"

	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Version:       "test",
		Identifier:    "ID",
		Label:         "ADHD",
		InclusionFlag: "filter_$",
		CanonicalSize: 2,
		Features:      []string{"feat_a", "feat_b", "feat_ignored"},
		Sources: []catalog.Source{
			{Name: catalog.SourceClinical, HasLabel: true, HasInclusionFlag: true},
			{Name: catalog.SourcePerformance, Provides: []string{"feat_a"}},
			{Name: catalog.SourceSignal, Provides: []string{"feat_b"}},
		},
	}
}

func makeTable(t *testing.T, columns []string, rows ...[]string) *dataset.Table {
	t.Helper()
	table := dataset.New(columns)
	for _, row := range rows {
		if err := table.AppendRow(row); err != nil {
			t.Fatalf("building table: %v", err)
		}
	}
	return table
}

func TestIntegrateHappyPath(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$", "AGE"},
		[]string{"7", "1", "1", "34"})
	performance := makeTable(t, []string{"ID", "feat_a", "extra"},
		[]string{"7", "3.2", "x"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-1.1"})

	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if !report.Complete() {
		t.Fatalf("expected complete column contract, missing %v", report.MissingColumns)
	}
	if table.NumRows() != 1 {
		t.Fatalf("expected 1 integrated row, got %d", table.NumRows())
	}

	want := map[string]string{"ID": "7", "ADHD": "1", "feat_a": "3.2", "feat_b": "-1.1"}
	row := table.Row(0)
	if len(row) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, row)
	}
	for name, value := range want {
		if row[name] != value {
			t.Fatalf("column %q: expected %q, got %q", name, value, row[name])
		}
	}
	if table.HasColumn("AGE") || table.HasColumn("extra") || table.HasColumn("filter_$") {
		t.Fatalf("non-canonical columns leaked into output: %v", table.Columns)
	}
}

func TestIntegrateExcludesFilteredPatients(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$"},
		[]string{"7", "1", "0"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "3.2"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-1.1"})

	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if report.IncludedRows != 0 {
		t.Fatalf("expected 0 included rows, got %d", report.IncludedRows)
	}
	if table.NumRows() != 0 {
		t.Fatalf("expected empty output, got %d rows", table.NumRows())
	}
	if !report.Complete() {
		t.Fatalf("column contract should survive an empty join, missing %v", report.MissingColumns)
	}
}

func TestIntegrateDropsPatientsAbsentFromOneSource(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$"},
		[]string{"7", "1", "1"},
		[]string{"9", "0", "1"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "3.2"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-1.1"},
		[]string{"9", "0.4"})

	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if report.IncludedRows != 2 || report.IntegratedRows != 1 {
		t.Fatalf("expected 2 included and 1 integrated, got %d and %d", report.IncludedRows, report.IntegratedRows)
	}
	if got := table.Cell(0, "ID"); got != "7" {
		t.Fatalf("expected surviving patient 7, got %q", got)
	}
}

func TestIntegrateScrubsNonFiniteValues(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$"},
		[]string{"7", "1", "1"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "+Inf"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-Inf"})

	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if report.ScrubbedCells != 2 {
		t.Fatalf("expected 2 scrubbed cells, got %d", report.ScrubbedCells)
	}
	if table.NumRows() != 1 {
		t.Fatalf("scrubbing must keep the row, got %d rows", table.NumRows())
	}
	if got := table.Cell(0, "feat_a"); got != dataset.Missing {
		t.Fatalf("expected missing sentinel for +Inf, got %q", got)
	}
	if got := table.Cell(0, "feat_b"); got != dataset.Missing {
		t.Fatalf("expected missing sentinel for -Inf, got %q", got)
	}
}

func TestIntegrateScrubsOverflowingLiterals(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$"},
		[]string{"7", "1", "1"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "1e999"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-1e999"})

	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if report.ScrubbedCells != 2 {
		t.Fatalf("expected 2 scrubbed cells, got %d", report.ScrubbedCells)
	}
	if got := table.Cell(0, "feat_a"); got != dataset.Missing {
		t.Fatalf("expected missing sentinel for overflowing positive, got %q", got)
	}
	if got := table.Cell(0, "feat_b"); got != dataset.Missing {
		t.Fatalf("expected missing sentinel for overflowing negative, got %q", got)
	}
}

func TestIntegrateFailsFastOnDuplicateIdentifier(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$"},
		[]string{"7", "1", "1"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "3.2"},
		[]string{"7", "4.1"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-1.1"})

	_, _, err := integrator.Integrate(clinical, performance, signal)
	if err == nil {
		t.Fatal("expected duplicate identifier error")
	}
	if !IsDuplicateIdentifier(err) {
		t.Fatalf("expected ErrDuplicateIdentifier, got %v", err)
	}
}

func TestIntegrateRequiresInclusionFlag(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD"},
		[]string{"7", "1"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "3.2"})
	signal := makeTable(t, []string{"ID", "feat_b"},
		[]string{"7", "-1.1"})

	_, _, err := integrator.Integrate(clinical, performance, signal)
	if err == nil {
		t.Fatal("expected missing inclusion-flag error")
	}
}

func TestIntegrateReportsMissingCanonicalColumns(t *testing.T) {
	integrator := New(testCatalog())

	clinical := makeTable(t, []string{"ID", "ADHD", "filter_$"},
		[]string{"7", "1", "1"})
	performance := makeTable(t, []string{"ID", "feat_a"},
		[]string{"7", "3.2"})
	// Signal source dropped feat_b entirely.
	signal := makeTable(t, []string{"ID"},
		[]string{"7"})

	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		t.Fatalf("an incomplete contract must not be fatal: %v", err)
	}
	if report.Complete() {
		t.Fatal("expected the missing column to be reported")
	}
	if len(report.MissingColumns) != 1 || report.MissingColumns[0] != "feat_b" {
		t.Fatalf("expected missing feat_b, got %v", report.MissingColumns)
	}
	if len(report.UndeclaredColumns) != 1 || report.UndeclaredColumns[0] != "signal:feat_b" {
		t.Fatalf("expected the broken capability declaration to be reported, got %v", report.UndeclaredColumns)
	}
	// Partial projection still carries everything that survived.
	if !table.HasColumn("feat_a") || table.HasColumn("feat_b") {
		t.Fatalf("unexpected partial projection columns: %v", table.Columns)
	}
	if table.NumRows() != 1 {
		t.Fatalf("expected 1 row in the partial table, got %d", table.NumRows())
	}
}
