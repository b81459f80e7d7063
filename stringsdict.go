package strtables

import (
	"fmt"
	"slices"
	"sort"

	"howett.net/plist"
)

const (
	localizedFormatKey = "NSStringLocalizedFormatKey"
	formatSpecTypeKey  = "NSStringFormatSpecTypeKey"
	formatValueTypeKey = "NSStringFormatValueTypeKey"
	pluralRuleType     = "NSStringPluralRuleType"
)

// pluralCategories lists the CLDR categories in the order variants are visited.
var pluralCategories = []string{"zero", "one", "two", "few", "many", "other"}

// DecodeStringsdict decodes an XML, binary or OpenStep property list into a
// Value. The root must be a dictionary.
func DecodeStringsdict(path string, data []byte) (Value, error) {
	var raw any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("%w: %s: %v", ErrMalformedTable, path, err)
	}
	root := ValueOf(raw)
	if root.Kind() != KindDict {
		return Value{}, fmt.Errorf("%w: %s: root is not a dictionary", ErrMalformedTable, path)
	}
	return root, nil
}

// ResolveStringsdict turns every top-level key that carries a localized
// format into an Entry. Keys whose references cannot be resolved are dropped
// with a diagnostic; the rest of the table is kept.
func ResolveStringsdict(table string, locale Locale, source string, root Value) ([]Entry, Diagnostics) {
	var (
		entries []Entry
		diags   Diagnostics
	)
	where := locale.WithTable(table + ".stringsdict")

	for _, key := range root.Keys() {
		node, _ := root.Lookup(key)
		if node.Kind() != KindDict {
			diags.Add(Diagnostic{
				Kind:    DiagInvalidEntry,
				Table:   table,
				Locale:  locale,
				Key:     key,
				Message: fmt.Sprintf("Non-dict value in %s: %s = %s", where, key, node.Describe()),
			})
			continue
		}

		format, ok := node.LookupString(localizedFormatKey)
		if !ok {
			continue
		}

		specs, err := resolveFormat(format, node)
		if err != nil {
			diags.Add(Diagnostic{
				Kind:    DiagPluralReference,
				Table:   table,
				Locale:  locale,
				Key:     key,
				Message: fmt.Sprintf("%v in '%s' %s", err, key, where),
				Err:     err,
			})
			continue
		}

		entries = append(entries, Entry{
			Key:        key,
			Value:      format,
			Specifiers: specs,
			Source:     source,
		})
	}

	return entries, diags
}

func resolveFormat(format string, dict Value) ([]Specifier, error) {
	var specs []Specifier
	for _, part := range FormatParts(format) {
		if !part.IsReference() {
			specs = append(specs, part.Spec)
			continue
		}
		resolved, err := resolveReference(part.Reference, dict, nil)
		if err != nil {
			return nil, err
		}
		specs = append(specs, resolved...)
	}
	return specs, nil
}

// resolveReference flattens the plural rule called name. path holds the
// references being resolved above this one; meeting one of them again is a
// cycle.
func resolveReference(name string, dict Value, path []string) ([]Specifier, error) {
	if slices.Contains(path, name) {
		return nil, fmt.Errorf("%w '%s'", ErrCyclicReference, name)
	}
	path = append(path[:len(path):len(path)], name)

	node, ok := dict.Lookup(name)
	if !ok || node.Kind() != KindDict {
		return nil, fmt.Errorf("%w '%s'", ErrMissingReference, name)
	}

	specType, hasSpecType := node.LookupString(formatSpecTypeKey)
	valueType, hasValueType := node.LookupString(formatValueTypeKey)
	if !hasSpecType || !hasValueType || specType != pluralRuleType {
		return nil, fmt.Errorf("%w '%s'", ErrIncorrectReference, name)
	}

	typ, ok := parseValueType(valueType)
	if !ok {
		return nil, fmt.Errorf("%w format specifier %q for '%s'", ErrIncorrectReference, valueType, name)
	}

	results := []Specifier{{Type: typ, Name: name}}

	for _, variant := range variantKeys(node) {
		text, _ := node.LookupString(variant)

		var alternative []Specifier
		for _, part := range FormatParts(text) {
			if !part.IsReference() {
				alternative = append(alternative, Specifier{Type: part.Spec.Type, Name: name})
				continue
			}
			nested, err := resolveReference(part.Reference, dict, path)
			if err != nil {
				return nil, err
			}
			alternative = append(alternative, nested...)
		}

		unified, ok := unifySpecifiers(results, alternative)
		if !ok {
			return nil, fmt.Errorf("%w '%s'", ErrCannotUnify, name)
		}
		results = unified
	}

	return results, nil
}

// variantKeys returns the string-valued keys of a plural rule other than its
// declarations, plural categories first.
func variantKeys(node Value) []string {
	var categories, others []string
	for _, key := range node.Keys() {
		if key == formatSpecTypeKey || key == formatValueTypeKey {
			continue
		}
		if _, ok := node.LookupString(key); !ok {
			continue
		}
		if slices.Contains(pluralCategories, key) {
			categories = append(categories, key)
		} else {
			others = append(others, key)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return slices.Index(pluralCategories, categories[i]) < slices.Index(pluralCategories, categories[j])
	})
	return append(categories, others...)
}
