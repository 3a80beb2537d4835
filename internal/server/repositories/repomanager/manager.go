package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/mints"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/vaults"
)

// RepositoryManager builds repositories on a DBTX so services can use them
// both outside and inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Vaults(db dbx.DBTX) vaults.Repository
	Mints(db dbx.DBTX) mints.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Receipts(db dbx.DBTX) receipts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
