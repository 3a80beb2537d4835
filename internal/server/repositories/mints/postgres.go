package mints

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores a new mint. A taken address yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Mint) error {
	query := `
		INSERT INTO mints (address, authority, supply)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, m.Address.Bytes(), m.Authority.Bytes(), dbx.Numeric(m.Supply))
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

func (r *PostgresRepository) Get(ctx context.Context, addr address.Address) (*models.Mint, error) {
	query := `
		SELECT address, authority, supply
		FROM mints
		WHERE address = $1
	`
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, addr address.Address) (*models.Mint, error) {
	query := `
		SELECT address, authority, supply
		FROM mints
		WHERE address = $1
		FOR UPDATE
	`
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) get(ctx context.Context, query string, addr address.Address) (*models.Mint, error) {
	var (
		rawAddr, rawAuthority []byte
		supply                decimal.Decimal
	)
	if err := r.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&rawAddr, &rawAuthority, &supply); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var err error
	m := &models.Mint{}
	if m.Address, err = dbx.Address(rawAddr); err != nil {
		return nil, err
	}
	if m.Authority, err = dbx.Address(rawAuthority); err != nil {
		return nil, err
	}
	if m.Supply, err = dbx.Uint64(supply); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) SetSupply(ctx context.Context, addr address.Address, supply uint64) error {
	query := `
		UPDATE mints SET supply = $2
		WHERE address = $1
	`
	res, err := r.db.ExecContext(ctx, query, addr.Bytes(), dbx.Numeric(supply))
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
