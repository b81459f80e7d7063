package strtables

import (
	"fmt"
	"sort"
	"strings"
)

// unifySpecifiers merges two specifier sequences that agree on their shared
// prefix; the longer one wins. Provenance labels of canonical take precedence.
func unifySpecifiers(canonical, other []Specifier) ([]Specifier, bool) {
	shared := min(len(canonical), len(other))
	for i := 0; i < shared; i++ {
		if canonical[i].Type != other[i].Type {
			return nil, false
		}
	}

	longer := canonical
	if len(other) > len(canonical) {
		longer = other
	}
	out := append([]Specifier(nil), longer...)
	for i := 0; i < shared; i++ {
		name := canonical[i].Name
		if name == "" {
			name = other[i].Name
		}
		out[i].Name = name
	}
	return out, true
}

// Unifier computes one Signature per key across every locale of a table.
type Unifier struct {
	baseLocale string
	identifier IdentifierFunc
}

// UnifierOption configures a Unifier.
type UnifierOption func(*Unifier)

// WithUnifierBaseLocale makes the bucket of the given language authoritative
// when a table has no Base localization.
func WithUnifierBaseLocale(code string) UnifierOption {
	return func(u *Unifier) {
		u.baseLocale = code
	}
}

// WithUnifierIdentifiers drops keys whose identifiers collide or come out
// empty. A nil function keeps every key.
func WithUnifierIdentifiers(fn IdentifierFunc) UnifierOption {
	return func(u *Unifier) {
		u.identifier = fn
	}
}

func NewUnifier(opts ...UnifierOption) *Unifier {
	u := &Unifier{}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

type contribution struct {
	locale Locale
	entry  Entry
}

// Unify merges the locale buckets of one table. Buckets of other tables are
// ignored. Signatures come back sorted by key.
func (u *Unifier) Unify(table string, buckets []*LocalizedTable) ([]Signature, Diagnostics) {
	var diags Diagnostics

	ordered := make([]*LocalizedTable, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket != nil && bucket.Name == table {
			ordered = append(ordered, bucket)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return localeLess(ordered[i].Locale, ordered[j].Locale)
	})

	base := u.baseBucket(ordered)
	var baseKeys map[string]struct{}
	if base != nil {
		baseKeys = make(map[string]struct{}, base.Len())
		for _, key := range base.Keys() {
			baseKeys[key] = struct{}{}
		}
	}

	contributions := make(map[string][]contribution)
	for _, bucket := range ordered {
		keys := bucket.Keys()
		if u.identifier != nil {
			groups := GroupByIdentifier(keys, u.identifier)
			diags.Add(identifierDiagnostics(table, bucket.Locale, bucket.Describe(), "strings", "keys", groups)...)
			keys = groups.Uniques
		}
		for _, key := range keys {
			entry, _ := bucket.Entry(key)
			contributions[key] = append(contributions[key], contribution{locale: bucket.Locale, entry: entry})
		}
	}

	diags.Add(u.missingTranslations(table, ordered, base, baseKeys, contributions)...)

	keys := make([]string, 0, len(contributions))
	for key := range contributions {
		if baseKeys != nil {
			if _, ok := baseKeys[key]; !ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		signatures []Signature
		mismatched []string
	)
	for _, key := range keys {
		contribs := contributions[key]

		consecutive := true
		for _, c := range contribs {
			if c.entry.HasAmbiguous() {
				consecutive = false
				diags.Add(Diagnostic{
					Kind:    DiagNonConsecutive,
					Table:   table,
					Locale:  c.locale,
					Key:     key,
					Message: fmt.Sprintf("Skipping string %s in %s, not all format specifiers are consecutive", key, c.locale.WithTable(table)),
				})
			}
		}
		if !consecutive {
			continue
		}

		var canonical []Specifier
		unified := true
		for _, c := range contribs {
			next, ok := unifySpecifiers(canonical, c.entry.Specifiers)
			if !ok {
				unified = false
				break
			}
			canonical = next
		}
		if !unified {
			mismatched = append(mismatched, key)
			continue
		}

		signatures = append(signatures, Signature{Key: key, Table: table, Specifiers: canonical})
	}

	for _, key := range mismatched {
		locales := make([]string, 0, len(contributions[key]))
		for _, c := range contributions[key] {
			locales = append(locales, localeLabel(c.locale))
		}
		diags.Add(Diagnostic{
			Kind:    DiagSignatureMismatch,
			Table:   table,
			Key:     key,
			Message: fmt.Sprintf("Skipping string for key %s (%s), format specifiers don't match for all locales: %s", key, table, strings.Join(locales, ", ")),
		})
	}

	return signatures, diags
}

func (u *Unifier) baseBucket(buckets []*LocalizedTable) *LocalizedTable {
	for _, bucket := range buckets {
		if bucket.Locale.IsBase() {
			return bucket
		}
	}
	if u.baseLocale == "" {
		return nil
	}
	for _, bucket := range buckets {
		if bucket.Locale.Matches(u.baseLocale) {
			return bucket
		}
	}
	return nil
}

// missingTranslations compares every non-base bucket with the authoritative
// key set: the base keys, or the union of all keys without a base.
func (u *Unifier) missingTranslations(table string, buckets []*LocalizedTable, base *LocalizedTable, baseKeys map[string]struct{}, contributions map[string][]contribution) Diagnostics {
	source := baseKeys
	if source == nil {
		source = make(map[string]struct{}, len(contributions))
		for key := range contributions {
			source[key] = struct{}{}
		}
	}

	var diags Diagnostics
	for _, bucket := range buckets {
		if bucket == base {
			continue
		}
		var missing []string
		for key := range source {
			if !bucket.Has(key) {
				missing = append(missing, key)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)
		diags.Add(Diagnostic{
			Kind:    DiagMissingTranslation,
			Table:   table,
			Locale:  bucket.Locale,
			Keys:    missing,
			Message: fmt.Sprintf("Strings file %s is missing translations for keys: %s", bucket.Describe(), quoteKeys(missing)),
		})
	}
	return diags
}

func localeLabel(l Locale) string {
	if l.Kind == LocaleNone {
		return "none"
	}
	return l.String()
}
