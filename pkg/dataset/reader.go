package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrSourceUnavailable marks a required input file that cannot be read.
	// Fatal on the batch path.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrDelimiterAmbiguous marks an upload whose delimiter cannot be
	// resolved by the two-attempt heuristic. Fatal for that upload only.
	ErrDelimiterAmbiguous = errors.New("delimiter ambiguous")
)

func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func IsDelimiterAmbiguous(err error) bool {
	return errors.Is(err, ErrDelimiterAmbiguous)
}

const (
	// PrimaryDelimiter is tried first on externally supplied records.
	PrimaryDelimiter = ','
	// SecondaryDelimiter is the convention of the batch sources.
	SecondaryDelimiter = ';'

	// minSaneColumns is the sanity threshold for delimiter inference: a
	// parse that yields fewer header columns than this is assumed to have
	// used the wrong delimiter.
	minSaneColumns = 5
)

// Read loads one delimiter-separated file into a Table. Schema problems are
// not diagnosed here; a source may legitimately lack canonical features.
// Every call re-reads from storage.
func Read(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	table, err := parse(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return table, nil
}

// ReadInferred parses an externally supplied record whose delimiter
// convention is not guaranteed. The primary delimiter is tried first; when
// the header collapses below the column sanity threshold the secondary
// delimiter is tried instead. If both attempts fail the upload is rejected
// with ErrDelimiterAmbiguous.
func ReadInferred(r io.Reader) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	table, primaryErr := parse(bytes.NewReader(content), PrimaryDelimiter)
	if primaryErr == nil && len(table.Columns) >= minSaneColumns {
		return table, nil
	}

	table, secondaryErr := parse(bytes.NewReader(content), SecondaryDelimiter)
	if secondaryErr == nil && len(table.Columns) >= minSaneColumns {
		return table, nil
	}

	return nil, fmt.Errorf("%w: neither %q nor %q yielded at least %d columns (primary: %v, secondary: %v)",
		ErrDelimiterAmbiguous, string(PrimaryDelimiter), string(SecondaryDelimiter), minSaneColumns, primaryErr, secondaryErr)
}

func parse(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // ragged rows surface as short cells, not parse aborts

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	table := New(records[0])
	width := len(table.Columns)
	for _, record := range records[1:] {
		row := make([]string, width)
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
