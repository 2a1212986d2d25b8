package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(d("1234.5"), "USD"), "$1,234.50"},
		{M(d("0.005"), "USD"), "$0.01"},
		{M(d("-12"), "USD"), "-$12.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.String())
		})
	}
}

func TestMoney_SignedString(t *testing.T) {
	assert.Equal(t, "-", M(0, "USD").SignedString())
	assert.Equal(t, "+$3.00", M(3, "USD").SignedString())
}

func TestMoney_JSONKeepsAllDigits(t *testing.T) {
	m := EUR("1031.6625")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"EUR","amount":1031.6625}`, string(data))

	var got Money
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.Equal(m))
}

func TestMoney_Ratio(t *testing.T) {
	assert.True(t, EUR("25").Ratio(EUR("200")).Equal(12.5))
	assert.Zero(t, EUR("25").Ratio(EUR("0")))
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { EUR("1").Add(M(1, "USD")) })
}

func TestQuantity_IsDust(t *testing.T) {
	assert.True(t, Q(0).IsDust())
	assert.True(t, Q(d("0.0001")).IsDust())
	assert.False(t, Q(d("0.00011")).IsDust())
	assert.True(t, Q(d("-1")).IsDust())
}
