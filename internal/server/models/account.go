package models

import "github.com/dmitrijs2005/timevault/internal/address"

// Mint is an asset type. Only Authority may issue new units.
type Mint struct {
	Address   address.Address
	Authority address.Address
	Supply    uint64
}

// Account holds a balance of exactly one mint. Outgoing transfers must be
// signed by Authority.
type Account struct {
	Address   address.Address
	Mint      address.Address
	Authority address.Address
	Balance   uint64
}
