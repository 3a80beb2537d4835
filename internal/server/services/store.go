package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/repomanager"
)

// VaultStore locates vault records. Addresses are always recomputed from
// the program id and owner; nothing a caller supplies is used unchecked.
type VaultStore struct {
	program     address.Address
	repomanager repomanager.RepositoryManager
}

func NewVaultStore(program address.Address, m repomanager.RepositoryManager) *VaultStore {
	return &VaultStore{program: program, repomanager: m}
}

// Program returns the program id the store derives addresses under.
func (s *VaultStore) Program() address.Address { return s.program }

// AddressOf is the derived vault address of owner.
func (s *VaultStore) AddressOf(owner address.Address) address.Address {
	return address.VaultAddress(s.program, owner)
}

// Pool is the shared custody account.
func (s *VaultStore) Pool() address.Address {
	return address.PoolAddress(s.program)
}

// Authority is the identity that signs transfers out of the pool.
func (s *VaultStore) Authority() address.Address {
	return address.ProgramAuthority(s.program)
}

// Create allocates a zeroed vault for owner holding mint, and the pool
// account if it does not exist yet.
func (s *VaultStore) Create(ctx context.Context, tx dbx.DBTX, owner, mint address.Address) (*models.Vault, error) {
	if err := s.ensurePool(ctx, tx, mint); err != nil {
		return nil, err
	}

	v := &models.Vault{
		Address:   s.AddressOf(owner),
		Authority: owner,
		Mint:      mint,
	}
	if err := s.repomanager.Vaults(tx).Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VaultStore) ensurePool(ctx context.Context, tx dbx.DBTX, mint address.Address) error {
	accounts := s.repomanager.Accounts(tx)

	pool, err := accounts.GetForUpdate(ctx, s.Pool())
	switch {
	case err == nil:
		if pool.Mint != mint {
			return common.ErrMintMismatch
		}
		return nil
	case errors.Is(err, common.ErrorNotFound):
	default:
		return err
	}

	err = accounts.Create(ctx, &models.Account{
		Address:   s.Pool(),
		Mint:      mint,
		Authority: s.Authority(),
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		// Lost a race with a concurrent initialize; re-check the binding.
		return s.ensurePool(ctx, tx, mint)
	}
	return err
}

// Resolve locks and returns owner's vault.
func (s *VaultStore) Resolve(ctx context.Context, tx dbx.DBTX, owner address.Address) (*models.Vault, error) {
	return s.Load(ctx, tx, s.AddressOf(owner))
}

// Load locks and returns the vault stored at addr.
func (s *VaultStore) Load(ctx context.Context, tx dbx.DBTX, addr address.Address) (*models.Vault, error) {
	return s.repomanager.Vaults(tx).GetForUpdate(ctx, addr)
}

// Save persists the mutable lock fields of v.
func (s *VaultStore) Save(ctx context.Context, tx dbx.DBTX, v *models.Vault) error {
	return s.repomanager.Vaults(tx).UpdateLock(ctx, v)
}
