// Package refreshtokens stores the long-lived half of a session. Tokens are
// single use: redeeming one deletes it.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/server/models"
)

type Repository interface {
	// Create stores token for identity until expiresAt. Only a hash of the
	// token is persisted.
	Create(ctx context.Context, identity address.Address, token string, expiresAt time.Time) error

	// Consume removes token and returns what it was issued for. Of two
	// concurrent calls with the same token at most one succeeds; the other,
	// like any unknown token, gets common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteExpired drops tokens whose expiry is before now and reports how
	// many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
