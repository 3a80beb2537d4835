package models

import (
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
)

// RefreshToken is a stored session token. The token itself is never kept,
// only its SHA-256.
type RefreshToken struct {
	TokenHash []byte
	Identity  address.Address
	ExpiresAt time.Time
	CreatedAt time.Time
}
