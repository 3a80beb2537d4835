package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/logging"
	"github.com/dmitrijs2005/timevault/internal/timex"
	"github.com/stretchr/testify/require"
)

const t0 = uint64(1_700_000_000)

type env struct {
	t        *testing.T
	mock     sqlmock.Sqlmock
	store    *memStore
	clock    *timex.FixedClock
	ledger   *LedgerService
	vaults   *VaultStore
	svc      *VaultService
	observer *recObserver
	archiver *recArchiver
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	rm := &fakeRepoManager{s: store}
	clock := &timex.FixedClock{T: t0}
	ledger := NewLedgerService(db, rm, logging.Nop{})
	vs := NewVaultStore(address.DefaultVaultProgram, rm)
	obs := &recObserver{}
	arch := &recArchiver{}

	e := &env{
		t: t, mock: mock, store: store, clock: clock, ledger: ledger, vaults: vs,
		svc:      NewVaultService(db, rm, vs, ledger, clock, logging.Nop{}, obs, arch),
		observer: obs, archiver: arch,
	}
	n := 0
	e.svc.newID = func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
	return e
}

func (e *env) commit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *env) rollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func (e *env) done() {
	e.t.Helper()
	require.NoError(e.t, e.mock.ExpectationsWereMet())
}

func id(b byte) address.Address {
	var a address.Address
	a[0] = 0xA0
	a[31] = b
	return a
}

// fund creates a mint owned by authority and gives owner an associated
// account holding amount units of it.
func (e *env) fund(authority, owner address.Address, amount uint64) address.Address {
	e.t.Helper()
	ctx := context.Background()

	m, err := e.ledger.CreateMint(ctx, authority)
	require.NoError(e.t, err)

	e.commit()
	acc, err := e.ledger.OpenAccount(ctx, owner, m.Address)
	require.NoError(e.t, err)

	if amount > 0 {
		e.commit()
		_, err = e.ledger.MintTo(ctx, authority, m.Address, acc.Address, amount)
		require.NoError(e.t, err)
	}
	return m.Address
}

func (e *env) open(owner, mint address.Address) address.Address {
	e.t.Helper()
	e.commit()
	acc, err := e.ledger.OpenAccount(context.Background(), owner, mint)
	require.NoError(e.t, err)
	return acc.Address
}

func (e *env) initialize(owner, mint address.Address) {
	e.t.Helper()
	e.commit()
	_, err := e.svc.Initialize(context.Background(), owner, mint)
	require.NoError(e.t, err)
}
