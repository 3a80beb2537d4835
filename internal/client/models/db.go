// Package models defines the values the timevault CLI shows and keeps in
// its local profile.
package models

import (
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
)

// Mint is an asset type as reported by the server.
type Mint struct {
	Address   address.Address
	Authority address.Address
	Supply    uint64
}

// Account is one asset account.
type Account struct {
	Address   address.Address
	Mint      address.Address
	Authority address.Address
	Balance   uint64
}

// Vault is the caller's time-locked balance.
type Vault struct {
	Address   address.Address
	Authority address.Address
	Mint      address.Address
	Amount    uint64
	StartTime uint64
	EndTime   uint64
}

// Unlocked reports whether a withdrawal would pass the time check at now.
func (v *Vault) Unlocked(now time.Time) bool {
	return now.Unix() >= 0 && uint64(now.Unix()) >= v.EndTime
}

// Receipt is one committed instruction of the caller's vault.
type Receipt struct {
	ID        string
	Kind      string
	Identity  address.Address
	Vault     address.Address
	Amount    uint64
	StartTime uint64
	EndTime   uint64
	CreatedAt time.Time
}
