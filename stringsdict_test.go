package strtables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pluralRule(valueType string, variants map[string]any) map[string]any {
	rule := map[string]any{
		formatSpecTypeKey:  pluralRuleType,
		formatValueTypeKey: valueType,
	}
	for key, value := range variants {
		rule[key] = value
	}
	return rule
}

func resolve(t *testing.T, root map[string]any) ([]Entry, Diagnostics) {
	t.Helper()
	return ResolveStringsdict("Localizable", LanguageLocale("en"), "en.lproj/Localizable.stringsdict", ValueOf(root))
}

func entryByKey(entries []Entry, key string) (Entry, bool) {
	for _, entry := range entries {
		if entry.Key == key {
			return entry, true
		}
	}
	return Entry{}, false
}

func TestResolveStringsdictItemsCount(t *testing.T) {
	entries, diags := resolve(t, map[string]any{
		"itemsCount": map[string]any{
			localizedFormatKey: "%#@items@",
			"items": pluralRule("d", map[string]any{
				"one":   "%d item",
				"other": "%d items",
			}),
		},
	})

	require.Empty(t, diags)
	require.Len(t, entries, 1)
	assert.Equal(t, "itemsCount", entries[0].Key)
	assert.Equal(t, "%#@items@", entries[0].Value)
	assert.Equal(t, []Specifier{{Type: SpecInt, Name: "items"}}, entries[0].Specifiers)
}

func TestResolveStringsdictMixedAndNested(t *testing.T) {
	entries, diags := resolve(t, map[string]any{
		"inbox": map[string]any{
			localizedFormatKey: "%1$@ has %2$#@messages@",
			"messages": pluralRule("lld", map[string]any{
				"zero":  "no messages",
				"one":   "one message in %#@folders@",
				"other": "%lld messages in %#@folders@",
			}),
			"folders": pluralRule("d", map[string]any{
				"other": "%d folders",
			}),
		},
	})

	require.Empty(t, diags)
	entry, ok := entryByKey(entries, "inbox")
	require.True(t, ok)
	assert.Equal(t, []Specifier{
		{Type: SpecObject},
		{Type: SpecInt, Name: "messages"},
		{Type: SpecInt, Name: "folders"},
	}, entry.Specifiers)
}

func TestResolveStringsdictCycleDropsOnlyThatKey(t *testing.T) {
	entries, diags := resolve(t, map[string]any{
		"looping": map[string]any{
			localizedFormatKey: "%#@a@",
			"a":                pluralRule("d", map[string]any{"other": "%#@b@"}),
			"b":                pluralRule("d", map[string]any{"other": "%#@a@"}),
		},
		"plain": map[string]any{
			localizedFormatKey: "%@",
		},
	})

	_, ok := entryByKey(entries, "looping")
	assert.False(t, ok)
	plain, ok := entryByKey(entries, "plain")
	require.True(t, ok)
	assert.Equal(t, []SpecType{SpecObject}, specTypes(plain.Specifiers))

	require.Len(t, diags, 1)
	assert.Equal(t, DiagPluralReference, diags[0].Kind)
	assert.Equal(t, "looping", diags[0].Key)
	assert.ErrorIs(t, diags[0].Err, ErrCyclicReference)
	assert.Equal(t, "cyclic reference 'a' in 'looping' 'Localizable.stringsdict' (en)", diags[0].Message)
}

func TestResolveStringsdictReferenceErrors(t *testing.T) {
	cases := []struct {
		name string
		node map[string]any
		want error
	}{
		{
			name: "missing",
			node: map[string]any{localizedFormatKey: "%#@nope@"},
			want: ErrMissingReference,
		},
		{
			name: "not a dictionary",
			node: map[string]any{localizedFormatKey: "%#@n@", "n": "text"},
			want: ErrMissingReference,
		},
		{
			name: "no value type",
			node: map[string]any{
				localizedFormatKey: "%#@n@",
				"n":                map[string]any{formatSpecTypeKey: pluralRuleType, "other": "%d"},
			},
			want: ErrIncorrectReference,
		},
		{
			name: "wrong spec type",
			node: map[string]any{
				localizedFormatKey: "%#@n@",
				"n": map[string]any{
					formatSpecTypeKey:  "NSStringDeviceSpecificRuleType",
					formatValueTypeKey: "d",
				},
			},
			want: ErrIncorrectReference,
		},
		{
			name: "unknown value type",
			node: map[string]any{localizedFormatKey: "%#@n@", "n": pluralRule("k", nil)},
			want: ErrIncorrectReference,
		},
		{
			name: "variants disagree",
			node: map[string]any{
				localizedFormatKey: "%#@n@",
				"n":                pluralRule("d", map[string]any{"one": "%@ thing", "other": "%d things"}),
			},
			want: ErrCannotUnify,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, diags := resolve(t, map[string]any{"key": tc.node})
			assert.Empty(t, entries)
			require.Len(t, diags, 1)
			assert.Equal(t, DiagPluralReference, diags[0].Kind)
			assert.ErrorIs(t, diags[0].Err, tc.want)
			assert.Contains(t, diags[0].Message, "'key'")
		})
	}
}

func TestResolveStringsdictInvalidEntries(t *testing.T) {
	entries, diags := resolve(t, map[string]any{
		"stray":    "not a dictionary",
		"noFormat": map[string]any{"other": "%d"},
		"ok":       map[string]any{localizedFormatKey: "plain"},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].Key)
	assert.Empty(t, entries[0].Specifiers)

	require.Len(t, diags, 1)
	assert.Equal(t, DiagInvalidEntry, diags[0].Kind)
	assert.Equal(t, "stray", diags[0].Key)
}

const itemsPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>itemsCount</key>
	<dict>
		<key>NSStringLocalizedFormatKey</key>
		<string>%#@items@</string>
		<key>items</key>
		<dict>
			<key>NSStringFormatSpecTypeKey</key>
			<string>NSStringPluralRuleType</string>
			<key>NSStringFormatValueTypeKey</key>
			<string>d</string>
			<key>one</key>
			<string>%d item</string>
			<key>other</key>
			<string>%d items</string>
		</dict>
	</dict>
</dict>
</plist>
`

func TestDecodeStringsdictXML(t *testing.T) {
	root, err := DecodeStringsdict("Localizable.stringsdict", []byte(itemsPlist))
	require.NoError(t, err)
	assert.Equal(t, []string{"itemsCount"}, root.Keys())

	entries, diags := ResolveStringsdict("Localizable", BaseLocale, "Localizable.stringsdict", root)
	require.Empty(t, diags)
	require.Len(t, entries, 1)
	assert.Equal(t, []SpecType{SpecInt}, specTypes(entries[0].Specifiers))
}

func TestDecodeStringsdictRejectsMalformed(t *testing.T) {
	_, err := DecodeStringsdict("bad.stringsdict", []byte(`{ "a" = `))
	require.ErrorIs(t, err, ErrMalformedTable)

	_, err = DecodeStringsdict("array.stringsdict", []byte(`<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><array><string>x</string></array></plist>`))
	require.ErrorIs(t, err, ErrMalformedTable)
}
