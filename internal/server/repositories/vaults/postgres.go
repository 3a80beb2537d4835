// Package vaults provides a PostgreSQL-backed repository for vault records.
package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/shopspring/decimal"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.Vault) error {
	query := `
		INSERT INTO vaults (address, authority, mint, amount, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		v.Address.Bytes(), v.Authority.Bytes(), v.Mint.Bytes(),
		dbx.Numeric(v.Amount), dbx.Numeric(v.StartTime), dbx.Numeric(v.EndTime))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, addr address.Address) (*models.Vault, error) {
	query := `
		SELECT address, authority, mint, amount, start_time, end_time
		FROM vaults
		WHERE address = $1
	`
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, addr address.Address) (*models.Vault, error) {
	query := `
		SELECT address, authority, mint, amount, start_time, end_time
		FROM vaults
		WHERE address = $1
		FOR UPDATE
	`
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) get(ctx context.Context, query string, addr address.Address) (*models.Vault, error) {
	var (
		rawAddr, rawAuthority, rawMint []byte
		amount, start, end             decimal.Decimal
	)

	err := r.db.QueryRowContext(ctx, query, addr.Bytes()).
		Scan(&rawAddr, &rawAuthority, &rawMint, &amount, &start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	v := &models.Vault{}
	if v.Address, err = dbx.Address(rawAddr); err != nil {
		return nil, err
	}
	if v.Authority, err = dbx.Address(rawAuthority); err != nil {
		return nil, err
	}
	if v.Mint, err = dbx.Address(rawMint); err != nil {
		return nil, err
	}
	if v.Amount, err = dbx.Uint64(amount); err != nil {
		return nil, err
	}
	if v.StartTime, err = dbx.Uint64(start); err != nil {
		return nil, err
	}
	if v.EndTime, err = dbx.Uint64(end); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) UpdateLock(ctx context.Context, v *models.Vault) error {
	query := `
		UPDATE vaults
		SET amount = $2, start_time = $3, end_time = $4, updated_at = now()
		WHERE address = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		v.Address.Bytes(), dbx.Numeric(v.Amount), dbx.Numeric(v.StartTime), dbx.Numeric(v.EndTime))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
