package dbx

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/shopspring/decimal"
)

// ErrColumnRange is returned when a NUMERIC column holds a value that does
// not fit the Go type it is scanned into.
var ErrColumnRange = errors.New("column value out of range")

// Numeric converts an unsigned amount or timestamp for a NUMERIC(20,0)
// column. BIGINT cannot hold the upper half of the uint64 range.
func Numeric(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// Uint64 converts a scanned NUMERIC back into uint64.
func Uint64(d decimal.Decimal) (uint64, error) {
	if !d.IsInteger() || d.Sign() < 0 {
		return 0, fmt.Errorf("%w: %s", ErrColumnRange, d.String())
	}
	b := d.BigInt()
	if !b.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrColumnRange, d.String())
	}
	return b.Uint64(), nil
}

// Address converts a scanned BYTEA column into an address.
func Address(b []byte) (address.Address, error) {
	a, err := address.FromBytes(b)
	if err != nil {
		return address.Zero, fmt.Errorf("%w: %v", ErrColumnRange, err)
	}
	return a, nil
}
