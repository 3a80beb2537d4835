package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/mints"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/vaults"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memStore backs every fake repository. It does not model transactions:
// tests rely on instructions validating before they write.
type memStore struct {
	mu       sync.Mutex
	vaults   map[address.Address]models.Vault
	mints    map[address.Address]models.Mint
	accounts map[address.Address]models.Account
	receipts []models.Receipt
	tokens   map[string]models.RefreshToken

	receiptErr error
	tokenErr   error
	consumeErr error
}

func newMemStore() *memStore {
	return &memStore{
		vaults:   map[address.Address]models.Vault{},
		mints:    map[address.Address]models.Mint{},
		accounts: map[address.Address]models.Account{},
		tokens:   map[string]models.RefreshToken{},
	}
}

func (s *memStore) vault(a address.Address) (models.Vault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vaults[a]
	return v, ok
}

func (s *memStore) balance(a address.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[a].Balance
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Vaults(dbx.DBTX) vaults.Repository            { return &fakeVaults{m.s} }
func (m *fakeRepoManager) Mints(dbx.DBTX) mints.Repository              { return &fakeMints{m.s} }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return &fakeAccounts{m.s} }
func (m *fakeRepoManager) Receipts(dbx.DBTX) receipts.Repository        { return &fakeReceipts{m.s} }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &fakeRefreshTokens{m.s}
}

type fakeVaults struct{ s *memStore }

func (r *fakeVaults) Create(_ context.Context, v *models.Vault) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vaults[v.Address]; ok {
		return common.ErrorAlreadyExists
	}
	r.s.vaults[v.Address] = *v
	return nil
}

func (r *fakeVaults) Get(_ context.Context, a address.Address) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vaults[a]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &v, nil
}

func (r *fakeVaults) GetForUpdate(ctx context.Context, a address.Address) (*models.Vault, error) {
	return r.Get(ctx, a)
}

func (r *fakeVaults) UpdateLock(_ context.Context, v *models.Vault) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.vaults[v.Address]
	if !ok {
		return common.ErrorNotFound
	}
	cur.Amount, cur.StartTime, cur.EndTime = v.Amount, v.StartTime, v.EndTime
	r.s.vaults[v.Address] = cur
	return nil
}

type fakeMints struct{ s *memStore }

func (r *fakeMints) Create(_ context.Context, m *models.Mint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.mints[m.Address]; ok {
		return common.ErrorAlreadyExists
	}
	r.s.mints[m.Address] = *m
	return nil
}

func (r *fakeMints) Get(_ context.Context, a address.Address) (*models.Mint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.mints[a]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (r *fakeMints) GetForUpdate(ctx context.Context, a address.Address) (*models.Mint, error) {
	return r.Get(ctx, a)
}

func (r *fakeMints) SetSupply(_ context.Context, a address.Address, supply uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.mints[a]
	if !ok {
		return common.ErrorNotFound
	}
	m.Supply = supply
	r.s.mints[a] = m
	return nil
}

type fakeAccounts struct{ s *memStore }

func (r *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.Address]; ok {
		return common.ErrorAlreadyExists
	}
	r.s.accounts[a.Address] = *a
	return nil
}

func (r *fakeAccounts) Get(_ context.Context, a address.Address) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[a]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &acc, nil
}

func (r *fakeAccounts) GetForUpdate(ctx context.Context, a address.Address) (*models.Account, error) {
	return r.Get(ctx, a)
}

func (r *fakeAccounts) SetBalance(_ context.Context, a address.Address, balance uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[a]
	if !ok {
		return common.ErrorNotFound
	}
	acc.Balance = balance
	r.s.accounts[a] = acc
	return nil
}

type fakeReceipts struct{ s *memStore }

func (r *fakeReceipts) Create(_ context.Context, rc *models.Receipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.receiptErr != nil {
		return r.s.receiptErr
	}
	r.s.receipts = append(r.s.receipts, *rc)
	return nil
}

func (r *fakeReceipts) ListByVault(_ context.Context, vault address.Address, limit int) ([]models.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Receipt, 0)
	for _, rc := range r.s.receipts {
		if rc.Vault == vault {
			out = append(out, rc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRefreshTokens struct{ s *memStore }

func (r *fakeRefreshTokens) Create(_ context.Context, identity address.Address, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.tokenErr != nil {
		return r.s.tokenErr
	}
	r.s.tokens[token] = models.RefreshToken{Identity: identity, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeRefreshTokens) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.consumeErr != nil {
		return nil, r.s.consumeErr
	}
	t, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.tokens, token)
	return &t, nil
}

func (r *fakeRefreshTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.tokens, k)
			n++
		}
	}
	return n, nil
}

type observed struct {
	kind string
	err  error
}

type recObserver struct {
	mu  sync.Mutex
	got []observed
}

func (o *recObserver) ObserveInstruction(kind string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, observed{kind, err})
}

type recArchiver struct {
	mu  sync.Mutex
	got []models.Receipt
	err error
}

func (a *recArchiver) Archive(_ context.Context, r *models.Receipt) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, *r)
	return a.err
}
