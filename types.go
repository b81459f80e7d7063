package strtables

import (
	"sort"
	"strconv"
	"strings"
)

// SpecType is the semantic type of a format specifier.
type SpecType int

const (
	// SpecAmbiguous marks a position that cannot be typed: a gap between
	// positional specifiers, two conflicting specifiers for one position, or a
	// string mixing positional and sequential conversions.
	SpecAmbiguous SpecType = iota
	SpecObject
	SpecInt
	SpecUInt
	SpecDouble
	SpecCString
	SpecCharacter
	SpecPointer
)

var specTypeNames = map[SpecType]string{
	SpecAmbiguous: "ambiguous",
	SpecObject:    "object",
	SpecInt:       "integer",
	SpecUInt:      "unsigned",
	SpecDouble:    "float",
	SpecCString:   "cstring",
	SpecCharacter: "character",
	SpecPointer:   "pointer",
}

func (t SpecType) String() string {
	if name, ok := specTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the type name in YAML and JSON reports.
func (t SpecType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Specifier is one typed, positional placeholder. Name is the provenance
// label: the plural-rule reference that contributed it, empty otherwise.
type Specifier struct {
	Type SpecType `json:"type" yaml:"type"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
}

// Entry is a single key of a table in one locale.
type Entry struct {
	Key        string
	Value      string
	Specifiers []Specifier
	// Comment is the developer comment attached to the key, empty when none.
	Comment string
	Source  string
}

func (e Entry) clone() Entry {
	out := e
	if len(e.Specifiers) > 0 {
		out.Specifiers = append([]Specifier(nil), e.Specifiers...)
	}
	return out
}

// HasAmbiguous reports whether any position of the entry could not be typed.
func (e Entry) HasAmbiguous() bool {
	for _, spec := range e.Specifiers {
		if spec.Type == SpecAmbiguous {
			return true
		}
	}
	return false
}

// Format identifies the on-disk format of a table file.
type Format string

const (
	FormatStrings     Format = "strings"
	FormatStringsdict Format = "stringsdict"
)

// LocalizedTable is the bucket of entries for one (table, locale) pair.
// It is read only after construction.
type LocalizedTable struct {
	Name    string
	Locale  Locale
	Sources []string
	entries map[string]Entry
}

// NewLocalizedTable builds a bucket. Later entries replace earlier ones with
// the same key.
func NewLocalizedTable(name string, locale Locale, entries []Entry, sources ...string) *LocalizedTable {
	table := &LocalizedTable{
		Name:    name,
		Locale:  locale,
		Sources: append([]string(nil), sources...),
		entries: make(map[string]Entry, len(entries)),
	}
	for _, entry := range entries {
		table.entries[entry.Key] = entry.clone()
	}
	return table
}

// Entry returns the entry for key.
func (t *LocalizedTable) Entry(key string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	entry, ok := t.entries[key]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Has reports whether key is defined in the bucket.
func (t *LocalizedTable) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries[key]
	return ok
}

// Keys returns the sorted key set of the bucket.
func (t *LocalizedTable) Keys() []string {
	if t == nil || len(t.entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns all entries sorted by key.
func (t *LocalizedTable) Entries() []Entry {
	keys := t.Keys()
	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		out = append(out, t.entries[key].clone())
	}
	return out
}

// Len returns the number of keys in the bucket.
func (t *LocalizedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Describe names the bucket the way diagnostics do: 'Localizable' (Base).
func (t *LocalizedTable) Describe() string {
	return t.Locale.WithTable(t.Name)
}

// Signature is the unified call signature for one key of a table.
type Signature struct {
	Key        string      `json:"key" yaml:"key"`
	Table      string      `json:"table" yaml:"table"`
	Specifiers []Specifier `json:"specifiers,omitempty" yaml:"specifiers,omitempty"`
}

// Param is a numbered parameter of a Signature.
type Param struct {
	Index int
	Name  string
	Label string
	Type  SpecType
}

// Params numbers the specifiers value1..valueN.
func (s Signature) Params() []Param {
	if len(s.Specifiers) == 0 {
		return nil
	}
	params := make([]Param, len(s.Specifiers))
	for i, spec := range s.Specifiers {
		params[i] = Param{
			Index: i + 1,
			Name:  "value" + strconv.Itoa(i+1),
			Label: spec.Name,
			Type:  spec.Type,
		}
	}
	return params
}

// Namespace returns the lookup table name, empty for the default table.
func (s Signature) Namespace(defaultTable string) string {
	if s.Table == defaultTable {
		return ""
	}
	return s.Table
}

func (s Signature) String() string {
	types := make([]string, len(s.Specifiers))
	for i, spec := range s.Specifiers {
		types[i] = spec.Type.String()
	}
	return s.Key + "(" + strings.Join(types, ", ") + ")"
}
