// Package address implements deterministic addressing for vault records and
// asset accounts.
//
// Every location the service touches (a vault record, the shared custody
// pool, a holder's asset account, a mint) is identified by a 32-byte Address
// that is a pure function of a program id, a fixed tag and a list of
// components. Instructions never trust an address supplied by a caller: they
// recompute the expected value with Derive and compare.
package address

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

// Size is the length of an Address in bytes.
const Size = 32

// Derivation tags. They are part of every derived address, so changing one
// relocates every record derived with it.
const (
	TagVault      = "vault"
	TagAuthority  = "authority"
	TagAssociated = "associated"
	TagMint       = "mint"
)

// domain separates timevault derivations from any other BLAKE2b use.
const domain = "timevault/derive/v1"

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrEmptyTag       = errors.New("empty derivation tag")
)

// Address is a 32-byte identifier. Identities are ed25519 public keys and
// share the same representation.
type Address [Size]byte

// Zero is the unset address.
var Zero Address

// TokenProgram is the program id of the asset ledger. Mints and associated
// asset accounts are derived under it.
var TokenProgram = MustProgramID("timevault/token")

// DefaultVaultProgram is the program id used by the vault engine unless the
// server is configured with another one.
var DefaultVaultProgram = MustProgramID("timevault/lockup")

// MustProgramID hashes a human-readable name into a program id.
func MustProgramID(name string) Address {
	if name == "" {
		panic("address: empty program name")
	}
	return Address(blake2b.Sum256([]byte("timevault/program/" + name)))
}

// Derive returns the address of (program, tag, components...). Tag and
// components are length-prefixed so distinct inputs never collide by
// concatenation.
func Derive(program Address, tag string, components ...[]byte) (Address, error) {
	if tag == "" {
		return Zero, ErrEmptyTag
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return Zero, err
	}

	h.Write([]byte(domain))
	h.Write(program[:])
	writeChunk(h, []byte(tag))
	for _, c := range components {
		writeChunk(h, c)
	}

	var out Address
	copy(out[:], h.Sum(nil))
	return out, nil
}

type writer interface {
	Write(p []byte) (int, error)
}

func writeChunk(w writer, b []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	w.Write(l[:])
	w.Write(b)
}

// mustDerive is used by helpers whose tag is a non-empty constant.
func mustDerive(program Address, tag string, components ...[]byte) Address {
	a, err := Derive(program, tag, components...)
	if err != nil {
		panic(err)
	}
	return a
}

// VaultAddress is the location of owner's vault record.
func VaultAddress(program, owner Address) Address {
	return mustDerive(program, TagVault, owner[:])
}

// PoolAddress is the custody account holding deposited funds. It depends on
// the tag alone, so every vault of a program shares it.
func PoolAddress(program Address) Address {
	return mustDerive(program, TagVault)
}

// ProgramAuthority is the identity that controls the custody pool.
func ProgramAuthority(program Address) Address {
	return mustDerive(program, TagAuthority)
}

// AssociatedAccount is the canonical asset account of owner for mint.
func AssociatedAccount(owner, mint Address) Address {
	return mustDerive(TokenProgram, TagAssociated, owner[:], mint[:])
}

// MintAddress derives a mint id from its authority and a unique seed.
func MintAddress(authority Address, seed []byte) Address {
	return mustDerive(TokenProgram, TagMint, authority[:], seed)
}

// FromBytes copies b into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, Size, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Parse decodes the base58 form of an address.
func Parse(s string) (Address, error) {
	if s == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidAddress)
	}
	b := base58.Decode(s)
	if len(b) == 0 {
		return Zero, fmt.Errorf("%w: not base58: %q", ErrInvalidAddress, s)
	}
	return FromBytes(b)
}

// String returns the base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// IsZero reports whether a is unset.
func (a Address) IsZero() bool {
	return a == Zero
}

// MarshalText encodes the address as base58, so JSON carries the text form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the base58 form.
func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
