package strtables

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticStoreGroupsBuckets(t *testing.T) {
	store := NewStaticStore(Tables{
		bucket("Settings", LanguageLocale("fr"), map[string][]SpecType{"title": nil}),
		bucket("Localizable", LanguageLocale("fr"), map[string][]SpecType{"a": nil}),
		bucket("Localizable", BaseLocale, map[string][]SpecType{"a": nil, "b": nil}),
		nil,
	})

	assert.Equal(t, []string{"Localizable", "Settings"}, store.Tables())
	assert.Equal(t, []Locale{BaseLocale, LanguageLocale("fr")}, store.Locales("Localizable"))
	assert.Equal(t, []string{"a", "b"}, store.Keys("Localizable", BaseLocale))
	assert.Equal(t, []string{"a", "b"}, store.AllKeys("Localizable"))
	assert.Nil(t, store.Keys("Localizable", LanguageLocale("de")))

	_, ok := store.Bucket("Settings", BaseLocale)
	assert.False(t, ok)
	settings, ok := store.Bucket("Settings", LanguageLocale("fr"))
	require.True(t, ok)
	assert.Equal(t, 1, settings.Len())
}

func TestStaticStoreMergesSameLocale(t *testing.T) {
	flat := NewLocalizedTable("Localizable", BaseLocale, []Entry{
		{Key: "count", Value: "%d things"},
		{Key: "title", Value: "Title"},
	}, "Base.lproj/Localizable.strings")
	plurals := NewLocalizedTable("Localizable", BaseLocale, []Entry{
		{Key: "count", Value: "%#@n@", Specifiers: []Specifier{{Type: SpecInt, Name: "n"}}},
	}, "Base.lproj/Localizable.stringsdict")

	store := NewStaticStore(Tables{flat, plurals})

	buckets := store.Buckets("Localizable")
	require.Len(t, buckets, 1)
	assert.Equal(t, []string{"Base.lproj/Localizable.strings", "Base.lproj/Localizable.stringsdict"}, buckets[0].Sources)

	entry, ok := buckets[0].Entry("count")
	require.True(t, ok)
	assert.Equal(t, "%#@n@", entry.Value)
	assert.True(t, buckets[0].Has("title"))
}

func TestNewStaticStoreFromLoader(t *testing.T) {
	loader := LoaderFunc(func() (Tables, Diagnostics, error) {
		return Tables{bucket("Localizable", BaseLocale, map[string][]SpecType{"a": nil})},
			Diagnostics{{Kind: DiagDuplicateKey, Table: "Localizable", Key: "a"}}, nil
	})

	store, diags, err := NewStaticStoreFromLoader(loader)
	require.NoError(t, err)
	assert.Equal(t, []string{"Localizable"}, store.Tables())
	assert.Len(t, diags, 1)

	boom := errors.New("boom")
	_, _, err = NewStaticStoreFromLoader(LoaderFunc(func() (Tables, Diagnostics, error) {
		return nil, nil, boom
	}))
	assert.ErrorIs(t, err, boom)

	empty, diags, err := NewStaticStoreFromLoader(nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Empty(t, empty.Tables())
}

func TestLocalizedTableCopiesEntries(t *testing.T) {
	specs := []Specifier{{Type: SpecInt}}
	table := NewLocalizedTable("Localizable", BaseLocale, []Entry{{Key: "a", Specifiers: specs}})
	specs[0].Type = SpecObject

	entry, ok := table.Entry("a")
	require.True(t, ok)
	assert.Equal(t, SpecInt, entry.Specifiers[0].Type)

	entry.Specifiers[0].Type = SpecDouble
	again, _ := table.Entry("a")
	assert.Equal(t, SpecInt, again.Specifiers[0].Type)
	assert.Equal(t, "'Localizable' (Base)", table.Describe())
}
