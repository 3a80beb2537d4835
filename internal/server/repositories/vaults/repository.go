// Package vaults declares the server-side repository contract for vault
// records.
package vaults

import (
	"context"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/server/models"
)

// Repository persists vault records keyed by their derived address.
type Repository interface {
	// Create inserts a new record. It returns common.ErrorAlreadyExists if a
	// record already exists at the address or for the authority.
	Create(ctx context.Context, v *models.Vault) error

	// Get returns the record at addr or common.ErrorNotFound.
	Get(ctx context.Context, addr address.Address) (*models.Vault, error)

	// GetForUpdate is Get that also locks the row until the enclosing
	// transaction ends.
	GetForUpdate(ctx context.Context, addr address.Address) (*models.Vault, error)

	// UpdateLock overwrites amount, start_time and end_time. Authority and
	// mint are never written after creation.
	UpdateLock(ctx context.Context, v *models.Vault) error
}
