package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, size := range []int{0, 1, 32} {
		s, err := MakeRandHexString(size)
		require.NoError(t, err)
		assert.Len(t, s, size*2)

		raw, err := hex.DecodeString(s)
		require.NoError(t, err)
		assert.Len(t, raw, size)
	}
}

func TestMakeRandHexString_RefreshTokensDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		s, err := MakeRandHexString(32)
		require.NoError(t, err)
		require.False(t, seen[s], "duplicate token %s", s)
		seen[s] = true
	}
}

func TestGenerateRandByteArray(t *testing.T) {
	salt := GenerateRandByteArray(16)
	nonce := GenerateRandByteArray(16)

	assert.Len(t, salt, 16)
	assert.NotEqual(t, salt, nonce)
	assert.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	seed := []byte("ed25519 seed material")
	WipeByteArray(seed)
	assert.Equal(t, make([]byte, len(seed)), seed)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestCheckedAdd(t *testing.T) {
	const max = ^uint64(0)

	tests := []struct {
		name   string
		a, b   uint64
		want   uint64
		wantOK bool
	}{
		{"lock from now", 1_700_000_000, 3600, 1_700_003_600, true},
		{"zero period", 1_700_000_000, 0, 1_700_000_000, true},
		{"reaches max", max - 5, 5, max, true},
		{"one past max", max - 5, 6, 0, false},
		{"both max", max, max, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CheckedAdd(tt.a, tt.b)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCheckedSub(t *testing.T) {
	got, ok := CheckedSub(100, 40)
	assert.True(t, ok)
	assert.Equal(t, uint64(60), got)

	got, ok = CheckedSub(40, 40)
	assert.True(t, ok)
	assert.Zero(t, got)

	_, ok = CheckedSub(40, 41)
	assert.False(t, ok)
}

func TestLoginMessage(t *testing.T) {
	msg := LoginMessage("4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi", -5)
	assert.Equal(t, "timevault-login:4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi:-5", string(msg))

	assert.NotEqual(t, LoginMessage("a", 1), LoginMessage("a", 2))
}
