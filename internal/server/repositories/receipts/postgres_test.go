package receipts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func addr(b byte) address.Address {
	var a address.Address
	a[0] = b
	return a
}

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+receipts\s*\(id,\s*kind,\s*identity,\s*vault,\s*amount,\s*start_time,\s*end_time,\s*created_at\)\s*VALUES\s*\(\$1,.*\$8\)\s*$`
	listQ   = `(?s)^\s*SELECT\s+id,\s*kind,.*FROM\s+receipts\s+WHERE\s+vault\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$2\s*$`
)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rc := &models.Receipt{
		ID: "7d7c4a36-0f62-4b9e-9d36-3b1f3f0e9a11", Kind: models.KindDeposit,
		Identity: addr(1), Vault: addr(2), Amount: 500, StartTime: 100, EndTime: 3700, CreatedAt: now,
	}

	mock.ExpectExec(insertQ).
		WithArgs(rc.ID, "deposit", addr(1).Bytes(), addr(2).Bytes(), "500", "100", "3700", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), rc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("boom"))
	err := repo.Create(context.Background(), &models.Receipt{ID: "x"})
	require.ErrorContains(t, err, "db error: boom")
}

func TestListByVault(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	rows := sqlmock.NewRows([]string{"id", "kind", "identity", "vault", "amount", "start_time", "end_time", "created_at"}).
		AddRow("b", models.KindWithdraw, addr(1).Bytes(), addr(2).Bytes(), "500", "0", "0", t1).
		AddRow("a", models.KindDeposit, addr(1).Bytes(), addr(2).Bytes(), "500", "10", "20", t0)
	mock.ExpectQuery(listQ).WithArgs(addr(2).Bytes(), 10).WillReturnRows(rows)

	got, err := repo.ListByVault(context.Background(), addr(2), 10)
	require.NoError(t, err)

	want := []models.Receipt{
		{ID: "b", Kind: models.KindWithdraw, Identity: addr(1), Vault: addr(2), Amount: 500, CreatedAt: t1},
		{ID: "a", Kind: models.KindDeposit, Identity: addr(1), Vault: addr(2), Amount: 500, StartTime: 10, EndTime: 20, CreatedAt: t0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("receipts mismatch (-want +got):\n%s", diff)
	}
}

func TestListByVault_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "identity", "vault", "amount", "start_time", "end_time", "created_at"}))

	got, err := repo.ListByVault(context.Background(), addr(2), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByVault_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnError(errors.New("down"))
	_, err := repo.ListByVault(context.Background(), addr(2), 10)
	require.ErrorContains(t, err, "db error: down")
}
