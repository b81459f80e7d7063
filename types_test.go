package strtables

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSignatureParams(t *testing.T) {
	sig := Signature{
		Key:   "inbox",
		Table: "Mail",
		Specifiers: []Specifier{
			{Type: SpecObject},
			{Type: SpecInt, Name: "messages"},
		},
	}

	assert.Equal(t, "inbox(object, integer)", sig.String())
	assert.Equal(t, []Param{
		{Index: 1, Name: "value1", Type: SpecObject},
		{Index: 2, Name: "value2", Label: "messages", Type: SpecInt},
	}, sig.Params())
	assert.Equal(t, "Mail", sig.Namespace(DefaultTableName))
	assert.Equal(t, "", sig.Namespace("Mail"))

	assert.Nil(t, Signature{Key: "plain"}.Params())
	assert.Equal(t, "plain()", Signature{Key: "plain"}.String())
}

func TestSignatureEncoding(t *testing.T) {
	sig := Signature{Key: "count", Table: "Localizable", Specifiers: []Specifier{{Type: SpecInt, Name: "items"}}}

	data, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"count","table":"Localizable","specifiers":[{"type":"integer","name":"items"}]}`, string(data))

	out, err := yaml.Marshal(sig)
	require.NoError(t, err)
	assert.Contains(t, string(out), "type: integer")
	assert.Contains(t, string(out), "name: items")
}
