package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rc *models.Receipt) error {
	query := `
		INSERT INTO receipts (id, kind, identity, vault, amount, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		rc.ID, rc.Kind, rc.Identity.Bytes(), rc.Vault.Bytes(),
		dbx.Numeric(rc.Amount), dbx.Numeric(rc.StartTime), dbx.Numeric(rc.EndTime), rc.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByVault(ctx context.Context, vault address.Address, limit int) ([]models.Receipt, error) {
	query := `
		SELECT id, kind, identity, vault, amount, start_time, end_time, created_at
		FROM receipts
		WHERE vault = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, vault.Bytes(), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Receipt, 0)
	for rows.Next() {
		var (
			rc                    models.Receipt
			rawIdentity, rawVault []byte
			amount, start, end    decimal.Decimal
			createdAt             time.Time
		)
		if err := rows.Scan(&rc.ID, &rc.Kind, &rawIdentity, &rawVault, &amount, &start, &end, &createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if rc.Identity, err = dbx.Address(rawIdentity); err != nil {
			return nil, err
		}
		if rc.Vault, err = dbx.Address(rawVault); err != nil {
			return nil, err
		}
		if rc.Amount, err = dbx.Uint64(amount); err != nil {
			return nil, err
		}
		if rc.StartTime, err = dbx.Uint64(start); err != nil {
			return nil, err
		}
		if rc.EndTime, err = dbx.Uint64(end); err != nil {
			return nil, err
		}
		rc.CreatedAt = createdAt
		result = append(result, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
