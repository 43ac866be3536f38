package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalsTwoDecimals(t *testing.T) {
	payload, err := json.Marshal(map[string]Money{"total": NewMoney(decimal.RequireFromString("60500"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"60500.00"}`, string(payload))

	assert.Equal(t, "0.13", NewMoney(decimal.RequireFromString("0.125")).String())
}

func TestMoneyUnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var body struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1500.50","b":2000}`), &body))
	assert.True(t, body.A.Equal(decimal.RequireFromString("1500.5")))
	assert.True(t, body.B.Equal(decimal.NewFromInt(2000)))

	var bad Money
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &bad))
}
