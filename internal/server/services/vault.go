package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/logging"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timevault/internal/timex"
	"github.com/google/uuid"
)

// InstructionObserver is told about every finished instruction.
type InstructionObserver interface {
	ObserveInstruction(kind string, err error, elapsed time.Duration)
}

// ReceiptArchiver copies committed receipts to secondary storage.
type ReceiptArchiver interface {
	Archive(ctx context.Context, r *models.Receipt) error
}

type nopObserver struct{}

func (nopObserver) ObserveInstruction(string, error, time.Duration) {}

type nopArchiver struct{}

func (nopArchiver) Archive(context.Context, *models.Receipt) error { return nil }

// DepositRequest locks Amount units for Period seconds.
//
// Account is the caller's source asset account. Vault and Mint are optional
// references the caller expects to act on; when set they must match what
// the service derives.
type DepositRequest struct {
	Account address.Address
	Amount  uint64
	Period  uint64
	Vault   address.Address
	Mint    address.Address
}

// WithdrawRequest releases the whole locked amount to Account.
type WithdrawRequest struct {
	Account address.Address
	Vault   address.Address
	Mint    address.Address
}

// VaultService executes the initialize, deposit and withdraw instructions.
// Each instruction runs in exactly one transaction; any failure leaves every
// record and balance as it was.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       *VaultStore
	ledger      Transferer
	clock       timex.Clock
	log         logging.Logger
	observer    InstructionObserver
	archiver    ReceiptArchiver
	newID       func() string
	now         func() time.Time
}

func NewVaultService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	store *VaultStore,
	ledger Transferer,
	clock timex.Clock,
	log logging.Logger,
	observer InstructionObserver,
	archiver ReceiptArchiver,
) *VaultService {
	if observer == nil {
		observer = nopObserver{}
	}
	if archiver == nil {
		archiver = nopArchiver{}
	}
	return &VaultService{
		db:          db,
		repomanager: m,
		store:       store,
		ledger:      ledger,
		clock:       clock,
		log:         logging.Named(log, "vault"),
		observer:    observer,
		archiver:    archiver,
		newID:       func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

// Initialize creates owner's vault for mint.
func (s *VaultService) Initialize(ctx context.Context, owner, mint address.Address) (*models.Vault, error) {
	return s.run(ctx, models.KindInitialize, owner, func(ctx context.Context, tx dbx.DBTX) (*models.Vault, uint64, error) {
		if _, err := s.repomanager.Mints(tx).Get(ctx, mint); err != nil {
			return nil, 0, err
		}
		v, err := s.store.Create(ctx, tx, owner, mint)
		if err != nil {
			return nil, 0, err
		}
		return v, 0, nil
	})
}

// Deposit moves req.Amount from the caller's account into custody and arms
// the lock to expire req.Period seconds from now. A deposit replaces the
// previous amount and lock rather than adding to them.
func (s *VaultService) Deposit(ctx context.Context, caller address.Address, req DepositRequest) (*models.Vault, error) {
	if req.Amount == 0 {
		s.observer.ObserveInstruction(models.KindDeposit, common.ErrInvalidAmount, 0)
		return nil, common.ErrInvalidAmount
	}

	return s.run(ctx, models.KindDeposit, caller, func(ctx context.Context, tx dbx.DBTX) (*models.Vault, uint64, error) {
		v, err := s.resolveForCaller(ctx, tx, caller, req.Vault)
		if err != nil {
			return nil, 0, err
		}
		if !req.Mint.IsZero() && req.Mint != v.Mint {
			return nil, 0, common.ErrMintMismatch
		}
		if req.Account != address.AssociatedAccount(caller, v.Mint) {
			return nil, 0, common.ErrInvalidAccountBinding
		}

		now := s.clock.Now()
		end, ok := common.CheckedAdd(now, req.Period)
		if !ok {
			return nil, 0, common.ErrOverflow
		}

		if err := s.ledger.Transfer(ctx, tx, req.Account, s.store.Pool(), caller, req.Amount); err != nil {
			return nil, 0, err
		}

		v.Amount = req.Amount
		v.StartTime = now
		v.EndTime = end
		if err := s.store.Save(ctx, tx, v); err != nil {
			return nil, 0, err
		}
		return v, req.Amount, nil
	})
}

// Withdraw releases the locked amount to the caller once the lock has
// expired, then clears the lock.
func (s *VaultService) Withdraw(ctx context.Context, caller address.Address, req WithdrawRequest) (*models.Vault, error) {
	return s.run(ctx, models.KindWithdraw, caller, func(ctx context.Context, tx dbx.DBTX) (*models.Vault, uint64, error) {
		v, err := s.resolveForCaller(ctx, tx, caller, req.Vault)
		if err != nil {
			return nil, 0, err
		}
		if req.Account != address.AssociatedAccount(caller, v.Mint) {
			return nil, 0, common.ErrInvalidAccountBinding
		}

		if !req.Mint.IsZero() && req.Mint != v.Mint {
			return nil, 0, common.ErrMintMismatch
		}
		pool, err := s.repomanager.Accounts(tx).Get(ctx, s.store.Pool())
		if err != nil {
			return nil, 0, err
		}
		if pool.Mint != v.Mint {
			return nil, 0, common.ErrMintMismatch
		}
		if s.clock.Now() < v.EndTime {
			return nil, 0, common.ErrLockNotExpired
		}

		amount := v.Amount
		if err := s.ledger.Transfer(ctx, tx, s.store.Pool(), req.Account, s.store.Authority(), amount); err != nil {
			return nil, 0, err
		}

		v.Amount = 0
		v.StartTime = 0
		v.EndTime = 0
		if err := s.store.Save(ctx, tx, v); err != nil {
			return nil, 0, err
		}
		return v, amount, nil
	})
}

// GetVault returns the caller's vault without locking it.
func (s *VaultService) GetVault(ctx context.Context, caller address.Address) (*models.Vault, error) {
	return s.repomanager.Vaults(s.db).Get(ctx, s.store.AddressOf(caller))
}

// ListReceipts returns the most recent receipts of the caller's vault.
func (s *VaultService) ListReceipts(ctx context.Context, caller address.Address, limit int) ([]models.Receipt, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.repomanager.Receipts(s.db).ListByVault(ctx, s.store.AddressOf(caller), limit)
}

// resolveForCaller loads the vault the caller acts on. ref, when set, names
// the vault explicitly and must be the caller's own derived vault.
func (s *VaultService) resolveForCaller(ctx context.Context, tx dbx.DBTX, caller, ref address.Address) (*models.Vault, error) {
	derived := s.store.AddressOf(caller)
	target := derived
	if !ref.IsZero() {
		target = ref
	}

	v, err := s.store.Load(ctx, tx, target)
	if err != nil {
		return nil, err
	}
	if v.Authority != caller {
		return nil, common.ErrorUnauthorized
	}
	if v.Address != derived {
		return nil, common.ErrInvalidAccountBinding
	}
	return v, nil
}

type instruction func(ctx context.Context, tx dbx.DBTX) (*models.Vault, uint64, error)

// instructionAttempts bounds replays of an instruction that lost a
// deadlock or serialization race.
const instructionAttempts = 3

// run executes fn in one transaction, journals a receipt in the same
// transaction and, after commit, reports and archives it.
func (s *VaultService) run(ctx context.Context, kind string, identity address.Address, fn instruction) (*models.Vault, error) {
	started := s.now()

	var receipt *models.Receipt
	v, err := dbx.Retry(ctx, instructionAttempts, func() (*models.Vault, error) {
		return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Vault, error) {
			v, moved, err := fn(ctx, tx)
			if err != nil {
				return nil, err
			}
			receipt = &models.Receipt{
				ID:        s.newID(),
				Kind:      kind,
				Identity:  identity,
				Vault:     v.Address,
				Amount:    moved,
				StartTime: v.StartTime,
				EndTime:   v.EndTime,
				CreatedAt: s.now().UTC(),
			}
			if err := s.repomanager.Receipts(tx).Create(ctx, receipt); err != nil {
				return nil, err
			}
			return v, nil
		})
	})

	s.observer.ObserveInstruction(kind, err, s.now().Sub(started))

	if err != nil {
		if isInstructionError(err) {
			s.log.Info(ctx, "instruction rejected", "kind", kind, "identity", identity, "reason", err.Error())
		} else {
			s.log.Error(ctx, "instruction failed", "kind", kind, "identity", identity, "error", err)
		}
		return nil, err
	}

	s.log.Info(ctx, "instruction committed",
		"kind", kind, "identity", identity, "vault", v.Address,
		"amount", receipt.Amount, "start_time", v.StartTime, "end_time", v.EndTime)

	if err := s.archiver.Archive(ctx, receipt); err != nil {
		s.log.Warn(ctx, "receipt archive failed", "receipt", receipt.ID, "error", err)
	}
	return v, nil
}

func isInstructionError(err error) bool {
	for _, e := range common.InstructionErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
