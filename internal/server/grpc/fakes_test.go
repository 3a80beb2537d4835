package grpc

import (
	"context"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/logging"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/services"
)

func addr(b byte) address.Address {
	var a address.Address
	for i := range a {
		a[i] = b
	}
	return a
}

type fakeAuth struct {
	tokens     map[string]address.Address
	expired    map[string]bool
	loginResp  *services.TokenPair
	loginErr   error
	loginID    address.Address
	refreshOut *services.TokenPair
	refreshErr error
}

func (f *fakeAuth) Login(_ context.Context, identity address.Address, _ int64, _ []byte) (*services.TokenPair, error) {
	f.loginID = identity
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return f.refreshOut, f.refreshErr
}

func (f *fakeAuth) Identity(token string) (address.Address, error) {
	if f.expired[token] {
		return address.Zero, common.ErrTokenExpired
	}
	id, ok := f.tokens[token]
	if !ok {
		return address.Zero, common.ErrInvalidToken
	}
	return id, nil
}

type fakeLedger struct {
	mint    *models.Mint
	account *models.Account
	err     error

	gotAuthority address.Address
	gotMint      address.Address
	gotAccount   address.Address
	gotAmount    uint64
}

func (f *fakeLedger) CreateMint(_ context.Context, authority address.Address) (*models.Mint, error) {
	f.gotAuthority = authority
	return f.mint, f.err
}

func (f *fakeLedger) OpenAccount(_ context.Context, owner, mint address.Address) (*models.Account, error) {
	f.gotAuthority, f.gotMint = owner, mint
	return f.account, f.err
}

func (f *fakeLedger) MintTo(_ context.Context, authority, mint, account address.Address, amount uint64) (*models.Account, error) {
	f.gotAuthority, f.gotMint, f.gotAccount, f.gotAmount = authority, mint, account, amount
	return f.account, f.err
}

func (f *fakeLedger) GetAccount(_ context.Context, a address.Address) (*models.Account, error) {
	f.gotAccount = a
	return f.account, f.err
}

type fakeVaults struct {
	vault    *models.Vault
	receipts []models.Receipt
	err      error

	gotCaller   address.Address
	gotMint     address.Address
	gotDeposit  services.DepositRequest
	gotWithdraw services.WithdrawRequest
	gotLimit    int
}

func (f *fakeVaults) Initialize(_ context.Context, owner, mint address.Address) (*models.Vault, error) {
	f.gotCaller, f.gotMint = owner, mint
	return f.vault, f.err
}

func (f *fakeVaults) Deposit(_ context.Context, c address.Address, req services.DepositRequest) (*models.Vault, error) {
	f.gotCaller, f.gotDeposit = c, req
	return f.vault, f.err
}

func (f *fakeVaults) Withdraw(_ context.Context, c address.Address, req services.WithdrawRequest) (*models.Vault, error) {
	f.gotCaller, f.gotWithdraw = c, req
	return f.vault, f.err
}

func (f *fakeVaults) GetVault(_ context.Context, c address.Address) (*models.Vault, error) {
	f.gotCaller = c
	return f.vault, f.err
}

func (f *fakeVaults) ListReceipts(_ context.Context, c address.Address, limit int) ([]models.Receipt, error) {
	f.gotCaller, f.gotLimit = c, limit
	return f.receipts, f.err
}

type countingRecorder struct{ n int }

func (c *countingRecorder) RecordRateLimited() { c.n++ }

func newServer(a *fakeAuth, l *fakeLedger, v *fakeVaults) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, a, l, v, nil, nil)
}

func withIdentity(ctx context.Context, id address.Address) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
