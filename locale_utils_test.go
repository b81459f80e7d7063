package strtables

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleFromPath(t *testing.T) {
	cases := map[string]Locale{
		"App/en.lproj/Localizable.strings":       LanguageLocale("en"),
		"App/Base.lproj/Localizable.strings":     BaseLocale,
		"App/base.lproj/Localizable.stringsdict": BaseLocale,
		"App/pt_BR.lproj/Localizable.strings":    LanguageLocale("pt-BR"),
		"App/Resources/Localizable.strings":      NoLocale,
		"Localizable.strings":                    NoLocale,
	}
	for path, want := range cases {
		assert.Equal(t, want, LocaleFromPath(path), path)
	}
}

func TestLocaleDescriptions(t *testing.T) {
	assert.Equal(t, "'Localizable' (Base)", BaseLocale.WithTable("Localizable"))
	assert.Equal(t, "'Localizable' (fr)", LanguageLocale("fr").WithTable("Localizable"))
	assert.Equal(t, "'Localizable'", NoLocale.WithTable("Localizable"))

	assert.Equal(t, "Base", BaseLocale.String())
	assert.Equal(t, "", NoLocale.String())
	assert.Equal(t, "pt-BR", LanguageLocale("pt_BR").String())
}

func TestLocaleMatches(t *testing.T) {
	assert.True(t, LanguageLocale("pt-BR").Matches("pt_BR"))
	assert.True(t, LanguageLocale("en").Matches("EN"))
	assert.False(t, LanguageLocale("en").Matches(""))
	assert.False(t, BaseLocale.Matches("en"))
}

func TestLocaleOrdering(t *testing.T) {
	locales := []Locale{LanguageLocale("fr"), BaseLocale, LanguageLocale("de"), NoLocale}
	sort.SliceStable(locales, func(i, j int) bool {
		return localeLess(locales[i], locales[j])
	})
	assert.Equal(t, []Locale{NoLocale, BaseLocale, LanguageLocale("de"), LanguageLocale("fr")}, locales)
}
