package dbx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 3600, 1<<63 + 7, ^uint64(0)} {
		got, err := Uint64(Numeric(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestNumeric_MaxUint64Text(t *testing.T) {
	assert.Equal(t, "18446744073709551615", Numeric(^uint64(0)).String())
}

func TestUint64_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"negative", "-1"},
		{"fraction", "1.5"},
		{"too large", "18446744073709551616"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Uint64(decimal.RequireFromString(tt.in))
			require.ErrorIs(t, err, ErrColumnRange)
		})
	}
}

func TestAddress_Column(t *testing.T) {
	b := make([]byte, 32)
	b[0] = 9
	a, err := Address(b)
	require.NoError(t, err)
	assert.Equal(t, byte(9), a[0])

	_, err = Address([]byte{1})
	require.ErrorIs(t, err, ErrColumnRange)
}
