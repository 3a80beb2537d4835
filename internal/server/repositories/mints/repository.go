// Package mints declares the repository contract for asset mints.
package mints

import (
	"context"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Mint) error
	Get(ctx context.Context, addr address.Address) (*models.Mint, error)
	GetForUpdate(ctx context.Context, addr address.Address) (*models.Mint, error)
	SetSupply(ctx context.Context, addr address.Address, supply uint64) error
}
