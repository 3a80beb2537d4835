package client

import (
	"context"
	"crypto/ed25519"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/models"
)

// DepositParams are the arguments of a deposit. Vault and Mint are
// optional references; zero means not sent.
type DepositParams struct {
	Account address.Address
	Amount  uint64
	Period  uint64
	Vault   address.Address
	Mint    address.Address
}

// WithdrawParams are the arguments of a withdrawal.
type WithdrawParams struct {
	Account address.Address
	Vault   address.Address
	Mint    address.Address
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Login(ctx context.Context, key ed25519.PrivateKey) error
	CreateMint(ctx context.Context) (*models.Mint, error)
	OpenAccount(ctx context.Context, mint address.Address) (*models.Account, error)
	MintTo(ctx context.Context, mint, account address.Address, amount uint64) (*models.Account, error)
	GetAccount(ctx context.Context, account address.Address) (*models.Account, error)
	Initialize(ctx context.Context, mint address.Address) (*models.Vault, error)
	Deposit(ctx context.Context, p DepositParams) (*models.Vault, error)
	Withdraw(ctx context.Context, p WithdrawParams) (*models.Vault, error)
	GetVault(ctx context.Context) (*models.Vault, error)
	ListReceipts(ctx context.Context, limit int) ([]models.Receipt, error)
}
