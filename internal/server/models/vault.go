// Package models defines server-side data models persisted in the database.
package models

import "github.com/dmitrijs2005/timevault/internal/address"

// Vault is one owner's time-locked balance.
//
// Authority and Mint are fixed when the vault is created. Amount,
// StartTime and EndTime are overwritten by every deposit and zeroed by a
// withdrawal. EndTime is always StartTime plus the lock period.
type Vault struct {
	// Address is the derived location of the record.
	Address address.Address
	// Authority is the owner entitled to deposit and withdraw.
	Authority address.Address
	// Mint is the single asset type this vault may hold.
	Mint address.Address
	// Amount currently locked.
	Amount uint64
	// StartTime is the Unix time of the last deposit.
	StartTime uint64
	// EndTime is the Unix time from which withdrawal is allowed.
	EndTime uint64
}

// VaultState is the conceptual lifecycle position of a vault.
type VaultState string

const (
	VaultCreated    VaultState = "created"
	VaultLocked     VaultState = "locked"
	VaultUnlockable VaultState = "unlockable"
)

// State reports where the vault is at Unix time now. A drained vault is
// indistinguishable from a freshly created one.
func (v *Vault) State(now uint64) VaultState {
	if v.Amount == 0 && v.EndTime == 0 {
		return VaultCreated
	}
	if now < v.EndTime {
		return VaultLocked
	}
	return VaultUnlockable
}
