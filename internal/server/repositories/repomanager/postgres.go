// Package repomanager hands out PostgreSQL repositories bound to either the
// pool or an open transaction, and migrates the server schema.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/logging"
	"github.com/dmitrijs2005/timevault/internal/server/migrations"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/mints"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/vaults"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is swapped in tests.
var newMigrator = func(db *sql.DB) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, db, migrations.Migrations)
}

// PostgresRepositoryManager is stateless apart from its logger; every
// repository it returns runs on the handle passed in.
type PostgresRepositoryManager struct {
	log logging.Logger
}

func NewPostgresRepositoryManager(log logging.Logger) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{log: logging.Named(log, "repomanager")}
}

func (m *PostgresRepositoryManager) Vaults(db dbx.DBTX) vaults.Repository {
	return vaults.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Mints(db dbx.DBTX) mints.Repository {
	return mints.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Receipts(db dbx.DBTX) receipts.Repository {
	return receipts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// RunMigrations applies every pending embedded migration and logs each
// version it applied.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(db)
	if err != nil {
		return fmt.Errorf("error preparing migrations: %w", err)
	}
	applied, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}
	for _, r := range applied {
		if r == nil || r.Source == nil {
			continue
		}
		m.log.Info(ctx, "migration applied", "version", r.Source.Version, "elapsed", r.Duration)
	}
	if len(applied) == 0 {
		m.log.Debug(ctx, "schema up to date")
	}
	return nil
}
