// Package integrate reconciles the three record sources into the canonical
// per-patient feature table: inclusion filtering, capability-checked column
// projection, strict inner joins on the patient identifier, non-finite value
// scrubbing and output-contract validation.
package integrate

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
)

// includedSentinel is the inclusion-flag value selecting eligible patients.
const includedSentinel = "1"

// Report carries the non-fatal findings of one integration pass. A non-empty
// MissingColumns means the output violates the columns-complete contract and
// must not be trusted as a training table.
type Report struct {
	// MissingColumns lists required output columns absent after the joins.
	MissingColumns []string
	// UndeclaredColumns lists features a source declares in its capability
	// descriptor but did not actually carry.
	UndeclaredColumns []string
	// ScrubbedCells counts ±Inf values replaced by the missing sentinel.
	ScrubbedCells int
	// Rows per stage, for run accounting.
	ClinicalRows   int
	IncludedRows   int
	IntegratedRows int
}

func (r *Report) Complete() bool {
	return len(r.MissingColumns) == 0
}

type Integrator struct {
	cat catalog.Catalog
}

func New(cat catalog.Catalog) *Integrator {
	return &Integrator{cat: cat}
}

// Integrate merges the clinical, performance and signal sources into the
// integrated record table. The returned table always has the column order
// {identifier, label, canonical features...} restricted to what survived;
// gaps are reported, never silently dropped.
func (i *Integrator) Integrate(clinical, performance, signal *dataset.Table) (*dataset.Table, *Report, error) {
	report := &Report{ClinicalRows: clinical.NumRows()}
	id := i.cat.IdentifierField()

	// Eligibility is decided on the clinical source alone, before any join,
	// so excluded patients never reach the other two sources.
	filtered, err := i.applyInclusionFilter(clinical)
	if err != nil {
		return nil, report, err
	}
	report.IncludedRows = filtered.NumRows()

	canonical := i.cat.CanonicalSet()
	clinicalProj, err := i.projectSource(catalog.SourceClinical, filtered, canonical, true, report)
	if err != nil {
		return nil, report, err
	}
	performanceProj, err := i.projectSource(catalog.SourcePerformance, performance, canonical, false, report)
	if err != nil {
		return nil, report, err
	}
	signalProj, err := i.projectSource(catalog.SourceSignal, signal, canonical, false, report)
	if err != nil {
		return nil, report, err
	}

	joined := innerJoin(clinicalProj, performanceProj, id)
	joined = innerJoin(joined, signalProj, id)
	report.IntegratedRows = joined.NumRows()

	report.ScrubbedCells = scrubNonFinite(joined, id)

	// Output contract: {identifier, label} ∪ canonical must all be present.
	// A gap is reported and projection proceeds on the surviving subset so a
	// partial table remains available for diagnosis.
	for _, col := range i.cat.OutputColumns() {
		if !joined.HasColumn(col) {
			report.MissingColumns = append(report.MissingColumns, col)
		}
	}
	if !report.Complete() {
		logger.Log.WithField("missing_columns", report.MissingColumns).
			Warn("Integrated table violates the columns-complete contract")
	}

	return joined.Project(i.cat.OutputColumns()), report, nil
}

func (i *Integrator) applyInclusionFilter(clinical *dataset.Table) (*dataset.Table, error) {
	flagIdx := clinical.ColumnIndex(i.cat.InclusionField())
	if flagIdx < 0 {
		return nil, MissingIdentifierError{Source: catalog.SourceClinical, Column: i.cat.InclusionField()}
	}
	return clinical.Filter(func(row []string) bool {
		return strings.TrimSpace(row[flagIdx]) == includedSentinel
	}), nil
}

// projectSource restricts one source to {identifier} ∪ {label when declared}
// ∪ (canonical ∩ actual columns), verifying the identifier exists and is
// unique per row. Capability declarations are cross-checked: a declared
// feature the file does not carry is reported, not fatal.
func (i *Integrator) projectSource(name string, src *dataset.Table, canonical map[string]struct{}, withLabel bool, report *Report) (*dataset.Table, error) {
	id := i.cat.IdentifierField()
	if !src.HasColumn(id) {
		return nil, MissingIdentifierError{Source: name, Column: id}
	}
	if dup := firstDuplicate(src, id); dup != "" {
		return nil, DuplicateIdentifierError{Source: name, Identifier: dup}
	}

	if spec, ok := i.cat.SourceSpec(name); ok {
		for _, declared := range spec.Provides {
			if !src.HasColumn(declared) {
				report.UndeclaredColumns = append(report.UndeclaredColumns, name+":"+declared)
			}
		}
	}

	columns := []string{id}
	if withLabel {
		columns = append(columns, i.cat.LabelField())
	}
	for _, col := range src.Columns {
		if col == id || (withLabel && col == i.cat.LabelField()) {
			continue
		}
		if _, ok := canonical[col]; ok {
			columns = append(columns, col)
		}
	}
	return src.Project(columns), nil
}

func firstDuplicate(t *dataset.Table, idColumn string) string {
	idx := t.ColumnIndex(idColumn)
	seen := make(map[string]struct{}, t.NumRows())
	for _, row := range t.Rows {
		key := strings.TrimSpace(row[idx])
		if _, dup := seen[key]; dup {
			return key
		}
		seen[key] = struct{}{}
	}
	return ""
}

// innerJoin merges two tables on the identifier column. Right-side columns
// already present on the left are not duplicated. Both sides are guaranteed
// unique on the identifier by projectSource, so the result is at most one
// row per patient.
func innerJoin(left, right *dataset.Table, idColumn string) *dataset.Table {
	leftIdx := left.ColumnIndex(idColumn)
	rightIdx := right.ColumnIndex(idColumn)

	rightCols := make([]int, 0, len(right.Columns))
	columns := make([]string, 0, len(left.Columns)+len(right.Columns))
	columns = append(columns, left.Columns...)
	for c, name := range right.Columns {
		if c == rightIdx || left.HasColumn(name) {
			continue
		}
		rightCols = append(rightCols, c)
		columns = append(columns, name)
	}

	rightRows := make(map[string][]string, right.NumRows())
	for _, row := range right.Rows {
		rightRows[strings.TrimSpace(row[rightIdx])] = row
	}

	out := dataset.New(columns)
	for _, row := range left.Rows {
		match, ok := rightRows[strings.TrimSpace(row[leftIdx])]
		if !ok {
			continue
		}
		merged := make([]string, 0, len(columns))
		merged = append(merged, row...)
		for _, c := range rightCols {
			merged = append(merged, match[c])
		}
		out.Rows = append(out.Rows, merged)
	}
	return out
}

// scrubNonFinite replaces every ±Inf numeric cell with the missing sentinel.
// Infinities originate from degenerate denominators in upstream feature
// derivation and must not reach the exporter or the classifier.
func scrubNonFinite(t *dataset.Table, idColumn string) int {
	idIdx := t.ColumnIndex(idColumn)
	scrubbed := 0
	for _, row := range t.Rows {
		for c := range row {
			if c == idIdx {
				continue
			}
			// Overflowing literals (e.g. 1e999) come back as ±Inf with
			// ErrRange; they are just as non-finite as a literal Inf.
			value, err := strconv.ParseFloat(row[c], 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				continue
			}
			if math.IsInf(value, 0) {
				row[c] = dataset.Missing
				scrubbed++
			}
		}
	}
	return scrubbed
}
