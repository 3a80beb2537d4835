package accounts

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (address, mint, authority, balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, a.Address.Bytes(), a.Mint.Bytes(), a.Authority.Bytes(), dbx.Numeric(a.Balance))
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

func (r *PostgresRepository) Get(ctx context.Context, addr address.Address) (*models.Account, error) {
	query := `
		SELECT address, mint, authority, balance
		FROM accounts
		WHERE address = $1
	`
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, addr address.Address) (*models.Account, error) {
	query := `
		SELECT address, mint, authority, balance
		FROM accounts
		WHERE address = $1
		FOR UPDATE
	`
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) get(ctx context.Context, query string, addr address.Address) (*models.Account, error) {
	var (
		rawAddr, rawMint, rawAuthority []byte
		balance                        decimal.Decimal
	)
	err := r.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&rawAddr, &rawMint, &rawAuthority, &balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a := &models.Account{}
	if a.Address, err = dbx.Address(rawAddr); err != nil {
		return nil, err
	}
	if a.Mint, err = dbx.Address(rawMint); err != nil {
		return nil, err
	}
	if a.Authority, err = dbx.Address(rawAuthority); err != nil {
		return nil, err
	}
	if a.Balance, err = dbx.Uint64(balance); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) SetBalance(ctx context.Context, addr address.Address, balance uint64) error {
	query := `
		UPDATE accounts SET balance = $2
		WHERE address = $1
	`
	res, err := r.db.ExecContext(ctx, query, addr.Bytes(), dbx.Numeric(balance))
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
