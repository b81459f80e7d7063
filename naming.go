package strtables

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// IdentifierFunc derives a generated identifier from a key or table name.
// An empty result means no identifier can be generated.
type IdentifierFunc func(name string) string

// Identifier builds a lowerCamel Go identifier: "home.title" becomes
// "homeTitle", "2fa_code" becomes "faCode".
func Identifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	ident := strcase.ToLowerCamel(b.String())
	ident = strings.TrimLeftFunc(ident, func(r rune) bool {
		return unicode.IsDigit(r) || r == '_'
	})
	if ident == "" {
		return ""
	}
	ident = strcase.ToLowerCamel(ident)
	if token.IsKeyword(ident) {
		ident += "_"
	}
	return ident
}

// NameGroups partitions names by the identifier they generate.
type NameGroups struct {
	Uniques []string
	// Duplicates maps an identifier to the names that all generate it.
	Duplicates map[string][]string
	Empties    []string
}

// GroupByIdentifier buckets names by identifier. Every output list is sorted.
func GroupByIdentifier(names []string, fn IdentifierFunc) NameGroups {
	if fn == nil {
		fn = Identifier
	}

	byIdent := make(map[string][]string, len(names))
	groups := NameGroups{}
	for _, name := range names {
		ident := fn(name)
		if ident == "" {
			groups.Empties = append(groups.Empties, name)
			continue
		}
		byIdent[ident] = append(byIdent[ident], name)
	}

	for ident, members := range byIdent {
		if len(members) == 1 {
			groups.Uniques = append(groups.Uniques, members[0])
			continue
		}
		if groups.Duplicates == nil {
			groups.Duplicates = make(map[string][]string)
		}
		sort.Strings(members)
		groups.Duplicates[ident] = members
	}

	sort.Strings(groups.Uniques)
	sort.Strings(groups.Empties)
	return groups
}

// DuplicateIdentifiers returns the colliding identifiers in sorted order.
func (g NameGroups) DuplicateIdentifiers() []string {
	idents := make([]string, 0, len(g.Duplicates))
	for ident := range g.Duplicates {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	return idents
}

// identifierDiagnostics reports names skipped by the naming layer. noun and
// field read like "strings"/"keys" for keys and "strings files"/"filenames"
// for tables.
func identifierDiagnostics(table string, locale Locale, where, noun, field string, groups NameGroups) Diagnostics {
	var diags Diagnostics
	for _, ident := range groups.DuplicateIdentifiers() {
		members := groups.Duplicates[ident]
		diags.Add(Diagnostic{
			Kind:    DiagDuplicateIdentifier,
			Table:   table,
			Locale:  locale,
			Keys:    members,
			Message: fmt.Sprintf("Skipping %d %s%s because symbol '%s' would be generated for all of these %s: %s", len(members), noun, in(where), ident, field, quoteKeys(members)),
		})
	}

	switch n := len(groups.Empties); {
	case n == 1:
		diags.Add(Diagnostic{
			Kind:    DiagEmptyIdentifier,
			Table:   table,
			Locale:  locale,
			Keys:    groups.Empties,
			Message: fmt.Sprintf("Skipping 1 %s%s because no identifier can be generated for %s: %s", strings.TrimSuffix(noun, "s"), in(where), strings.TrimSuffix(field, "s"), quoteKeys(groups.Empties)),
		})
	case n > 1:
		diags.Add(Diagnostic{
			Kind:    DiagEmptyIdentifier,
			Table:   table,
			Locale:  locale,
			Keys:    groups.Empties,
			Message: fmt.Sprintf("Skipping %d %s%s because no identifier can be generated for all of these %s: %s", n, noun, in(where), field, quoteKeys(groups.Empties)),
		})
	}
	return diags
}

func in(where string) string {
	if where == "" {
		return ""
	}
	return " in " + where
}
