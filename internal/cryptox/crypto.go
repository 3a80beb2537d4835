// Package cryptox keeps client signing keys encrypted at rest.
//
// A key is an ed25519 seed sealed with AES-GCM under a key derived from the
// user's passphrase with argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"errors"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

var (
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key")
	ErrEmptyPassphrase = errors.New("empty passphrase")
)

// EncryptedKey is a sealed ed25519 seed together with what is needed to
// open it again. Identity is stored in the clear so the owner can be shown
// without the passphrase.
type EncryptedKey struct {
	Identity   address.Address `json:"identity"`
	Salt       []byte          `json:"salt"`
	Nonce      []byte          `json:"nonce"`
	Ciphertext []byte          `json:"ciphertext"`
}

// argon2id cost parameters for the passphrase key.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32
)

// DeriveMasterKey stretches password into an AES-256 key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen)
}

// GenerateKey creates a new signing key and returns it with its identity.
func GenerateKey() (ed25519.PrivateKey, address.Address, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, address.Zero, err
	}
	id, err := address.FromBytes(pub)
	if err != nil {
		return nil, address.Zero, err
	}
	return priv, id, nil
}

// Identity returns the address of priv's public key.
func Identity(priv ed25519.PrivateKey) address.Address {
	var id address.Address
	copy(id[:], priv.Public().(ed25519.PublicKey))
	return id
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SealKey encrypts priv's seed under passphrase. The identity is bound to
// the ciphertext as additional data.
func SealKey(priv ed25519.PrivateKey, passphrase []byte) (*EncryptedKey, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	id := Identity(priv)
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext := aesgcm.Seal(nil, nonce, priv.Seed(), id[:])

	return &EncryptedKey{Identity: id, Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// OpenKey decrypts ek with passphrase.
func OpenKey(ek *EncryptedKey, passphrase []byte) (ed25519.PrivateKey, error) {
	key := DeriveMasterKey(passphrase, ek.Salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ek.Nonce) != aesgcm.NonceSize() {
		return nil, ErrWrongPassphrase
	}

	seed, err := aesgcm.Open(nil, ek.Nonce, ek.Ciphertext, ek.Identity[:])
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	defer common.WipeByteArray(seed)

	if len(seed) != ed25519.SeedSize {
		return nil, ErrWrongPassphrase
	}

	priv := ed25519.NewKeyFromSeed(seed)
	if Identity(priv) != ek.Identity {
		return nil, ErrWrongPassphrase
	}
	return priv, nil
}
