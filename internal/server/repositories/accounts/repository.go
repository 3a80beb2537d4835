// Package accounts declares the repository contract for asset accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/server/models"
)

// Repository persists asset accounts.
type Repository interface {
	// Create opens an account. It returns common.ErrorAlreadyExists if the
	// address is taken.
	Create(ctx context.Context, a *models.Account) error

	// Get returns the account at addr or common.ErrorNotFound.
	Get(ctx context.Context, addr address.Address) (*models.Account, error)

	// GetForUpdate is Get that locks the row for the enclosing transaction.
	GetForUpdate(ctx context.Context, addr address.Address) (*models.Account, error)

	// SetBalance overwrites the balance of an existing account.
	SetBalance(ctx context.Context, addr address.Address, balance uint64) error
}
