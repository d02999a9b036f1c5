package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch marks an uploaded record lacking required canonical
// feature columns. The classifier is never invoked for such records.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrPatientNotFound marks a score-by-patient request for an identifier with
// no materialised feature vector.
var ErrPatientNotFound = errors.New("patient not found")

type SchemaError struct {
	MissingColumns []string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("upload missing %d required feature columns: %s",
		len(e.MissingColumns), strings.Join(e.MissingColumns, ", "))
}

func (e SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}
