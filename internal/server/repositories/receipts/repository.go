// Package receipts stores the append-only journal of committed vault
// instructions.
package receipts

import (
	"context"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/server/models"
)

type Repository interface {
	// Create appends a receipt. Receipts are never updated.
	Create(ctx context.Context, r *models.Receipt) error

	// ListByVault returns up to limit receipts of a vault, newest first.
	ListByVault(ctx context.Context, vault address.Address, limit int) ([]models.Receipt, error)
}
