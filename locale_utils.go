package strtables

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// LocaleKind distinguishes the three ways a table file can be localized.
type LocaleKind int

const (
	LocaleNone LocaleKind = iota
	LocaleBase
	LocaleLanguage
)

const (
	localeDirExt  = ".lproj"
	baseLocaleDir = "Base"
)

// Locale is the localization a bucket belongs to.
type Locale struct {
	Kind LocaleKind
	// Code is the language tag, set only for LocaleLanguage.
	Code string
}

var (
	NoLocale   = Locale{Kind: LocaleNone}
	BaseLocale = Locale{Kind: LocaleBase}
)

// LanguageLocale builds a language locale from a tag such as "pt_BR".
func LanguageLocale(code string) Locale {
	return Locale{Kind: LocaleLanguage, Code: normalizeLocale(code)}
}

// ParseLocale maps a locale directory name (without .lproj) to a Locale.
func ParseLocale(name string) Locale {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return NoLocale
	case strings.EqualFold(name, baseLocaleDir):
		return BaseLocale
	default:
		return LanguageLocale(name)
	}
}

// LocaleFromPath infers the locale from the directory holding a table file:
// en.lproj/Localizable.strings is "en", Base.lproj is base, anything else is
// unspecified.
func LocaleFromPath(path string) Locale {
	dir := filepath.Base(filepath.Dir(filepath.ToSlash(path)))
	if !strings.EqualFold(filepath.Ext(dir), localeDirExt) {
		return NoLocale
	}
	return ParseLocale(strings.TrimSuffix(dir, filepath.Ext(dir)))
}

// IsBase reports whether the locale is the Base localization.
func (l Locale) IsBase() bool {
	return l.Kind == LocaleBase
}

// Matches reports whether l is the language locale for code.
func (l Locale) Matches(code string) bool {
	if l.Kind != LocaleLanguage || code == "" {
		return false
	}
	return strings.EqualFold(l.Code, normalizeLocale(code))
}

func (l Locale) String() string {
	switch l.Kind {
	case LocaleBase:
		return baseLocaleDir
	case LocaleLanguage:
		return l.Code
	default:
		return ""
	}
}

// MarshalText renders the locale in YAML and JSON reports.
func (l Locale) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// WithTable describes a bucket in diagnostics.
func (l Locale) WithTable(table string) string {
	switch l.Kind {
	case LocaleBase:
		return "'" + table + "' (Base)"
	case LocaleLanguage:
		return "'" + table + "' (" + l.Code + ")"
	default:
		return "'" + table + "'"
	}
}

// normalizeLocale canonicalizes a locale identifier. Tags x/text understands
// are rendered in BCP 47 form, everything else only gets underscores replaced.
func normalizeLocale(locale string) string {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	return tag.String()
}

func localeRank(l Locale) int {
	switch l.Kind {
	case LocaleNone:
		return 0
	case LocaleBase:
		return 1
	default:
		return 2
	}
}

// localeLess orders unspecified first, then base, then languages by code.
func localeLess(a, b Locale) bool {
	if ra, rb := localeRank(a), localeRank(b); ra != rb {
		return ra < rb
	}
	return a.Code < b.Code
}
