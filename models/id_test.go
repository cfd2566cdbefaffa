package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_KeepsJSONForm(t *testing.T) {
	var decoded struct {
		Number *ID `json:"number"`
		Text   *ID `json:"text"`
		Null   *ID `json:"null"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"number": 501, "text": "1", "null": null}`), &decoded))

	require.NotNil(t, decoded.Number)
	assert.Equal(t, "501", decoded.Number.String())
	assert.False(t, decoded.Number.IsString())

	require.NotNil(t, decoded.Text)
	assert.Equal(t, "1", decoded.Text.String())
	assert.True(t, decoded.Text.IsString())

	assert.Nil(t, decoded.Null)

	out, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"number": 501, "text": "1", "null": null}`, string(out))
	assert.Contains(t, string(out), `"text":"1"`)
	assert.Contains(t, string(out), `"number":501`)
}

func TestID_Constructors(t *testing.T) {
	out, err := json.Marshal([]ID{NumericID(7), StringID("7"), {}})
	require.NoError(t, err)
	assert.Equal(t, `[7,"7",null]`, string(out))
}

func TestID_RejectsOtherTypes(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	assert.Error(t, json.Unmarshal([]byte(`{"id": 1}`), &id))
}

func TestID_Equal(t *testing.T) {
	assert.True(t, NumericID(3).Equal(NumericID(3)))
	assert.False(t, NumericID(3).Equal(StringID("3")))
}
