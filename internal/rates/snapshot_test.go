package rates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finflow/finflow-server/internal/currency"
)

func TestSnapshot_EncodeDecode(t *testing.T) {
	in := Snapshot{"UAH": decimal.NewFromInt(1), "USD": decimal.RequireFromString("41.1234")}

	raw, err := in.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"UAH":"1","USD":"41.1234"}`, raw)

	out, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.True(t, out["USD"].Equal(in["USD"]))
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	for _, raw := range []string{"", "{}", "[]", `{"USD":"lots"}`} {
		_, err := DecodeSnapshot(raw)
		assert.Error(t, err, raw)
	}
}

func TestSnapshot_RateOrOne(t *testing.T) {
	s := Snapshot{"USD": decimal.NewFromInt(40)}

	assert.True(t, s.RateOrOne(currency.USD).Equal(decimal.NewFromInt(40)))
	assert.True(t, s.RateOrOne(currency.CZK).Equal(decimal.NewFromInt(1)))

	_, ok := s.Rate(currency.CZK)
	assert.False(t, ok)
}

func TestFallback_CoversBase(t *testing.T) {
	fb := Fallback()
	rate, ok := fb.Rate(currency.Base)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	assert.True(t, fb["USD"].Equal(decimal.RequireFromString("41.2")))

	fb["USD"] = decimal.Zero
	assert.False(t, Fallback()["USD"].IsZero(), "fallback table is copied")
}
