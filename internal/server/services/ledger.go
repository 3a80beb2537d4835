package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/logging"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// newMintSeed is a seam for tests that need predictable mint addresses.
var newMintSeed = func() []byte {
	id := uuid.New()
	return id[:]
}

// Transferer moves units between two asset accounts inside a caller-owned
// transaction.
type Transferer interface {
	Transfer(ctx context.Context, tx dbx.DBTX, from, to, authority address.Address, amount uint64) error
}

// LedgerService is the asset ledger: mints, accounts and the transfer
// primitive the vault engine moves custody with.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *LedgerService {
	return &LedgerService{db: db, repomanager: m, log: logging.Named(log, "ledger")}
}

// CreateMint registers a new asset type controlled by authority.
func (s *LedgerService) CreateMint(ctx context.Context, authority address.Address) (*models.Mint, error) {
	m := &models.Mint{
		Address:   address.MintAddress(authority, newMintSeed()),
		Authority: authority,
	}
	if err := s.repomanager.Mints(s.db).Create(ctx, m); err != nil {
		return nil, fmt.Errorf("error creating mint: %w", err)
	}
	s.log.Info(ctx, "mint created", "mint", m.Address, "authority", authority)
	return m, nil
}

// OpenAccount opens owner's associated account for mint.
func (s *LedgerService) OpenAccount(ctx context.Context, owner, mint address.Address) (*models.Account, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Account, error) {
		if _, err := s.repomanager.Mints(tx).Get(ctx, mint); err != nil {
			return nil, err
		}
		a := &models.Account{
			Address:   address.AssociatedAccount(owner, mint),
			Mint:      mint,
			Authority: owner,
		}
		if err := s.repomanager.Accounts(tx).Create(ctx, a); err != nil {
			return nil, err
		}
		return a, nil
	})
}

// MintTo issues amount new units of mint into account. Only the mint
// authority may issue.
func (s *LedgerService) MintTo(ctx context.Context, authority, mint, account address.Address, amount uint64) (*models.Account, error) {
	if amount == 0 {
		return nil, common.ErrInvalidAmount
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Account, error) {
		mints := s.repomanager.Mints(tx)
		accounts := s.repomanager.Accounts(tx)

		m, err := mints.GetForUpdate(ctx, mint)
		if err != nil {
			return nil, err
		}
		if m.Authority != authority {
			return nil, common.ErrorUnauthorized
		}

		a, err := accounts.GetForUpdate(ctx, account)
		if err != nil {
			return nil, err
		}
		if a.Mint != mint {
			return nil, common.ErrMintMismatch
		}

		supply, ok := common.CheckedAdd(m.Supply, amount)
		if !ok {
			return nil, common.ErrOverflow
		}
		balance, ok := common.CheckedAdd(a.Balance, amount)
		if !ok {
			return nil, common.ErrOverflow
		}

		if err := mints.SetSupply(ctx, mint, supply); err != nil {
			return nil, err
		}
		if err := accounts.SetBalance(ctx, account, balance); err != nil {
			return nil, err
		}
		a.Balance = balance
		return a, nil
	})
}

// GetAccount returns the current state of an account.
func (s *LedgerService) GetAccount(ctx context.Context, addr address.Address) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).Get(ctx, addr)
}

// Transfer moves amount from one account to another. authority must own
// from and both accounts must hold the same mint. Rule violations are
// reported as common.ErrTransferFailed. Rows are locked in address order so
// concurrent transfers over the same pair cannot deadlock.
func (s *LedgerService) Transfer(ctx context.Context, tx dbx.DBTX, from, to, authority address.Address, amount uint64) error {
	accounts := s.repomanager.Accounts(tx)

	first, second := from, to
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}

	locked := make(map[address.Address]*models.Account, 2)
	for _, addr := range []address.Address{first, second} {
		if _, ok := locked[addr]; ok {
			continue
		}
		a, err := accounts.GetForUpdate(ctx, addr)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: account %s does not exist", common.ErrTransferFailed, addr)
			}
			return err
		}
		locked[addr] = a
	}

	src, dst := locked[from], locked[to]
	if src.Authority != authority {
		return fmt.Errorf("%w: %s is not the authority of %s", common.ErrTransferFailed, authority, from)
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: accounts hold different mints", common.ErrTransferFailed)
	}
	debited, ok := common.CheckedSub(src.Balance, amount)
	if !ok {
		return fmt.Errorf("%w: insufficient funds", common.ErrTransferFailed)
	}
	if from == to || amount == 0 {
		return nil
	}

	credited, ok := common.CheckedAdd(dst.Balance, amount)
	if !ok {
		return fmt.Errorf("%w: destination balance overflow", common.ErrTransferFailed)
	}

	if err := accounts.SetBalance(ctx, from, debited); err != nil {
		return err
	}
	if err := accounts.SetBalance(ctx, to, credited); err != nil {
		return err
	}

	s.log.Debug(ctx, "transfer", "from", from, "to", to, "amount", amount)
	return nil
}
