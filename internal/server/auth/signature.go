package auth

import (
	"crypto/ed25519"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
)

// VerifyLogin checks that signature is identity's ed25519 signature over the
// login message for ts, and that ts lies within skew of now.
func VerifyLogin(identity address.Address, ts int64, signature []byte, now time.Time, skew time.Duration) error {
	if len(signature) != ed25519.SignatureSize {
		return common.ErrInvalidSignature
	}

	drift := now.Sub(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > skew {
		return common.ErrLoginExpired
	}

	msg := common.LoginMessage(identity.String(), ts)
	if !ed25519.Verify(ed25519.PublicKey(identity[:]), msg, signature) {
		return common.ErrInvalidSignature
	}
	return nil
}
