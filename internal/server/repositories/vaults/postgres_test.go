package vaults

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/google/go-cmp/cmp"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func addr(b byte) address.Address {
	var a address.Address
	a[0] = b
	return a
}

func sampleVault() *models.Vault {
	return &models.Vault{
		Address:   addr(1),
		Authority: addr(2),
		Mint:      addr(3),
		Amount:    1000,
		StartTime: 1700000000,
		EndTime:   1700003600,
	}
}

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+vaults\s*\(address,\s*authority,\s*mint,\s*amount,\s*start_time,\s*end_time\).*ON\s+CONFLICT\s+DO\s+NOTHING\s*$`
	selectQ = `(?s)^\s*SELECT\s+address,\s*authority,\s*mint,\s*amount,\s*start_time,\s*end_time\s+FROM\s+vaults\s+WHERE\s+address\s*=\s*\$1\s*$`
	lockQ   = `(?s)^\s*SELECT\s+address,.*FROM\s+vaults\s+WHERE\s+address\s*=\s*\$1\s+FOR\s+UPDATE\s*$`
	updateQ = `(?s)^\s*UPDATE\s+vaults\s+SET\s+amount\s*=\s*\$2,\s*start_time\s*=\s*\$3,\s*end_time\s*=\s*\$4.*WHERE\s+address\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	v := &models.Vault{Address: addr(1), Authority: addr(2), Mint: addr(3)}
	mock.ExpectExec(insertQ).
		WithArgs(addr(1).Bytes(), addr(2).Bytes(), addr(3).Bytes(), "0", "0", "0").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), v); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), sampleVault())
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleVault())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := sampleVault()
	rows := sqlmock.NewRows([]string{"address", "authority", "mint", "amount", "start_time", "end_time"}).
		AddRow(want.Address.Bytes(), want.Authority.Bytes(), want.Mint.Bytes(), "1000", "1700000000", "1700003600")
	mock.ExpectQuery(selectQ).WithArgs(want.Address.Bytes()).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), want.Address)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("vault mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_MaxUint64EndTime(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"address", "authority", "mint", "amount", "start_time", "end_time"}).
		AddRow(addr(1).Bytes(), addr(2).Bytes(), addr(3).Bytes(), "5", "0", "18446744073709551615")
	mock.ExpectQuery(selectQ).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), addr(1))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.EndTime != ^uint64(0) {
		t.Fatalf("end_time = %d", got.EndTime)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), addr(1))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGet_CorruptAddress(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"address", "authority", "mint", "amount", "start_time", "end_time"}).
		AddRow([]byte{1, 2}, addr(2).Bytes(), addr(3).Bytes(), "0", "0", "0")
	mock.ExpectQuery(selectQ).WillReturnRows(rows)

	if _, err := repo.Get(context.Background(), addr(1)); err == nil {
		t.Fatal("expected error for short address column")
	}
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := sampleVault()
	rows := sqlmock.NewRows([]string{"address", "authority", "mint", "amount", "start_time", "end_time"}).
		AddRow(want.Address.Bytes(), want.Authority.Bytes(), want.Mint.Bytes(), "1000", "1700000000", "1700003600")
	mock.ExpectQuery(lockQ).WithArgs(want.Address.Bytes()).WillReturnRows(rows)

	got, err := repo.GetForUpdate(context.Background(), want.Address)
	if err != nil {
		t.Fatalf("GetForUpdate error: %v", err)
	}
	if got.Amount != 1000 {
		t.Fatalf("unexpected amount: %d", got.Amount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateLock_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	v := sampleVault()
	mock.ExpectExec(updateQ).
		WithArgs(v.Address.Bytes(), "1000", "1700000000", "1700003600").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLock(context.Background(), v); err != nil {
		t.Fatalf("UpdateLock error: %v", err)
	}
}

func TestUpdateLock_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLock(context.Background(), sampleVault())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
