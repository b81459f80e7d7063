package strtables

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedExtension marks a table file that is neither .strings nor .stringsdict.
	ErrUnsupportedExtension = errors.New("strtables: unsupported file extension")

	// ErrMalformedTable indicates a flat table that does not follow the entry grammar.
	ErrMalformedTable = errors.New("strtables: malformed strings table")

	// ErrUnescape indicates a quoted literal that could not be decoded.
	ErrUnescape = errors.New("strtables: cannot unescape quoted literal")

	ErrMissingReference      = errors.New("missing reference")
	ErrIncorrectReference    = errors.New("incorrect reference")
	ErrCyclicReference       = errors.New("cyclic reference")
	ErrCannotUnify           = errors.New("can't unify")
	ErrNonSpecifierReference = errors.New("non-specifier reference")

	// ErrNoPaths is returned by loaders that were not given anything to read.
	ErrNoPaths = errors.New("strtables: no paths configured")
)

// SyntaxError pinpoints the region of a flat table that broke the grammar.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
	Near   string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("strtables: %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("strtables: %s:%d:%d: %s near %q", e.Path, e.Line, e.Column, e.Reason, e.Near)
}

func (e *SyntaxError) Unwrap() error {
	return ErrMalformedTable
}
