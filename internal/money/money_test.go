package money_test

import (
	"encoding/json"
	"testing"

	"cantinho/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_UnmarshalStringAndNumber(t *testing.T) {
	var payload struct {
		A money.Money `json:"a"`
		B money.Money `json:"b"`
		C money.Money `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"150.50","b":99.9,"c":null}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, "150.5", payload.A.String())
	assert.Equal(t, "99.9", payload.B.String())
	assert.True(t, payload.C.IsZero())
}

func TestMoney_MarshalAsNumber(t *testing.T) {
	b, err := json.Marshal(map[string]money.Money{"valor": money.MustParse("120.00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valor":120}`, string(b))
}

func TestSum(t *testing.T) {
	amounts := []string{"0.10", "0.20", "100"}
	total := money.Sum(amounts, func(s string) (money.Money, bool) {
		return money.MustParse(s), true
	})
	assert.Equal(t, "100.3", total.String())

	empty := money.Sum([]string{}, func(s string) (money.Money, bool) {
		return money.MustParse(s), true
	})
	assert.True(t, empty.IsZero())
}
