package strtables

import (
	"sort"
	"strings"
)

// DiagnosticKind classifies a recoverable problem.
type DiagnosticKind string

const (
	DiagNonConsecutive        DiagnosticKind = "non-consecutive-specifiers"
	DiagSignatureMismatch     DiagnosticKind = "signature-mismatch"
	DiagPluralReference       DiagnosticKind = "plural-reference"
	DiagNonSpecifierReference DiagnosticKind = "non-specifier-reference"
	DiagInvalidEntry          DiagnosticKind = "invalid-entry"
	DiagDuplicateKey          DiagnosticKind = "duplicate-key"
	DiagMissingTranslation    DiagnosticKind = "missing-translation"
	DiagDuplicateIdentifier   DiagnosticKind = "duplicate-identifier"
	DiagEmptyIdentifier       DiagnosticKind = "empty-identifier"
)

// Diagnostic is a warning about a key, a list of keys or a whole table.
// It never aborts a run.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Table   string         `json:"table" yaml:"table"`
	Locale  Locale         `json:"locale" yaml:"locale"`
	Key     string         `json:"key,omitempty" yaml:"key,omitempty"`
	Keys    []string       `json:"keys,omitempty" yaml:"keys,omitempty"`
	Message string         `json:"message" yaml:"message"`
	Err     error          `json:"-" yaml:"-"`
}

func (d Diagnostic) String() string {
	return d.Message
}

func (d Diagnostic) sortKey() string {
	if d.Key != "" {
		return d.Key
	}
	if len(d.Keys) > 0 {
		return d.Keys[0]
	}
	return ""
}

// Diagnostics is an append-only list of warnings.
type Diagnostics []Diagnostic

// Add appends diagnostics.
func (d *Diagnostics) Add(diags ...Diagnostic) {
	*d = append(*d, diags...)
}

// Sorted returns a copy ordered by table, key and locale. Ties keep the
// order in which they were reported.
func (d Diagnostics) Sorted() Diagnostics {
	if len(d) == 0 {
		return nil
	}
	out := make(Diagnostics, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if ka, kb := a.sortKey(), b.sortKey(); ka != kb {
			return ka < kb
		}
		return localeLess(a.Locale, b.Locale)
	})
	return out
}

// OfKind filters the list.
func (d Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Kind == kind {
			out = append(out, diag)
		}
	}
	return out
}

// Strings renders each diagnostic as its warning text.
func (d Diagnostics) Strings() []string {
	if len(d) == 0 {
		return nil
	}
	out := make([]string, len(d))
	for i, diag := range d {
		out[i] = diag.Message
	}
	return out
}

func quoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = "'" + key + "'"
	}
	return strings.Join(quoted, ", ")
}
