package strtables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsSorted(t *testing.T) {
	var diags Diagnostics
	diags.Add(
		Diagnostic{Table: "B", Key: "x", Message: "b-x"},
		Diagnostic{Table: "A", Keys: []string{"z"}, Locale: LanguageLocale("fr"), Message: "a-z-fr"},
		Diagnostic{Table: "A", Key: "z", Locale: BaseLocale, Message: "a-z-base"},
		Diagnostic{Table: "A", Key: "m", Message: "a-m"},
	)

	assert.Equal(t, []string{"a-m", "a-z-base", "a-z-fr", "b-x"}, diags.Sorted().Strings())
	assert.Equal(t, "b-x", diags[0].String())
	assert.Nil(t, Diagnostics(nil).Sorted())
}

func TestDiagnosticsOfKind(t *testing.T) {
	diags := Diagnostics{
		{Kind: DiagDuplicateKey, Message: "dup"},
		{Kind: DiagMissingTranslation, Message: "missing"},
	}
	assert.Equal(t, []string{"missing"}, diags.OfKind(DiagMissingTranslation).Strings())
	assert.Empty(t, diags.OfKind(DiagInvalidEntry))
}
