package integrate

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentifier marks a source carrying the same patient identifier
// on more than one row. Joining such a source would silently multiply rows,
// so the run fails fast instead.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

type DuplicateIdentifierError struct {
	Source     string
	Identifier string
}

func (e DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("source %s: identifier %q appears on multiple rows", e.Source, e.Identifier)
}

func (e DuplicateIdentifierError) Unwrap() error {
	return ErrDuplicateIdentifier
}

func IsDuplicateIdentifier(err error) bool {
	return errors.Is(err, ErrDuplicateIdentifier)
}

type MissingIdentifierError struct {
	Source string
	Column string
}

func (e MissingIdentifierError) Error() string {
	return fmt.Sprintf("source %s: identifier column %q not present", e.Source, e.Column)
}
