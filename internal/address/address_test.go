package address

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentity(t *testing.T) Address {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	a, err := FromBytes(pub)
	require.NoError(t, err)
	return a
}

func TestDerive_Deterministic(t *testing.T) {
	owner := newIdentity(t)

	a1, err := Derive(DefaultVaultProgram, TagVault, owner[:])
	require.NoError(t, err)
	a2, err := Derive(DefaultVaultProgram, TagVault, owner[:])
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, a1, VaultAddress(DefaultVaultProgram, owner))
}

func TestDerive_SeparatesInputs(t *testing.T) {
	owner := newIdentity(t)
	other := newIdentity(t)

	tests := []struct {
		name string
		a, b Address
	}{
		{"different owners", VaultAddress(DefaultVaultProgram, owner), VaultAddress(DefaultVaultProgram, other)},
		{"different programs", VaultAddress(DefaultVaultProgram, owner), VaultAddress(MustProgramID("other"), owner)},
		{"vault vs pool", VaultAddress(DefaultVaultProgram, owner), PoolAddress(DefaultVaultProgram)},
		{"pool vs authority", PoolAddress(DefaultVaultProgram), ProgramAuthority(DefaultVaultProgram)},
		{"associated order", AssociatedAccount(owner, other), AssociatedAccount(other, owner)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, tt.a, tt.b)
		})
	}
}

func TestDerive_LengthPrefixPreventsConcatCollision(t *testing.T) {
	a, err := Derive(DefaultVaultProgram, TagVault, []byte("ab"), []byte("c"))
	require.NoError(t, err)
	b, err := Derive(DefaultVaultProgram, TagVault, []byte("a"), []byte("bc"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDerive_EmptyTag(t *testing.T) {
	_, err := Derive(DefaultVaultProgram, "")
	require.ErrorIs(t, err, ErrEmptyTag)
}

func TestPoolAddress_IndependentOfOwner(t *testing.T) {
	assert.Equal(t, PoolAddress(DefaultVaultProgram), PoolAddress(DefaultVaultProgram))
}

func TestParse_RoundTrip(t *testing.T) {
	a := newIdentity(t)

	got, err := Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not base58", "0OIl"},
		{"too short", "3yZe7d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("want ErrInvalidAddress, got %v", err)
			}
		})
	}
}

func TestFromBytes_WrongLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestBytes_ReturnsCopy(t *testing.T) {
	a := newIdentity(t)
	b := a.Bytes()
	b[0] ^= 0xff
	assert.NotEqual(t, a[0], b[0])
}

func TestIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, newIdentity(t).IsZero())
}

func TestAddress_JSONUsesBase58(t *testing.T) {
	a := newIdentity(t)

	b, err := json.Marshal(struct {
		Owner Address `json:"owner"`
	}{a})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+a.String()+`"}`, string(b))

	var back struct {
		Owner Address `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, a, back.Owner)
}
