package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

func openProfile(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

func repoAt(db dbx.DBTX, at time.Time) *SQLiteRepository {
	r := NewSQLiteRepository(db)
	r.now = func() time.Time { return at }
	return r
}

var (
	t0      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mint    = []byte{0x01, 0x02, 0x03}
	account = []byte{0x0A, 0x0B}
)

func TestRemembersAndOverwrites(t *testing.T) {
	db := openProfile(t)
	ctx := context.Background()

	require.NoError(t, repoAt(db, t0).Set(ctx, "mint", mint))
	got, err := NewSQLiteRepository(db).Get(ctx, "mint")
	require.NoError(t, err)
	assert.Equal(t, mint, got)

	require.NoError(t, repoAt(db, t0.Add(time.Minute)).Set(ctx, "mint", account))

	entries, err := NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, account, entries[0].Value)
	assert.True(t, entries[0].UpdatedAt.Equal(t0.Add(time.Minute)), "got %v", entries[0].UpdatedAt)
}

func TestGet_Absent(t *testing.T) {
	_, err := NewSQLiteRepository(openProfile(t)).Get(context.Background(), "keystore")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_SortedByKey(t *testing.T) {
	r := repoAt(openProfile(t), t0)
	ctx := context.Background()

	for _, k := range []string{"mint", "account", "keystore"} {
		require.NoError(t, r.Set(ctx, k, []byte(k)))
	}

	entries, err := r.List(ctx)
	require.NoError(t, err)
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"account", "keystore", "mint"}, keys)
}

func TestDelete_ReportsPresence(t *testing.T) {
	r := repoAt(openProfile(t), t0)
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "account", account))

	removed, err := r.Delete(ctx, "account")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.Delete(ctx, "account")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClear_InsideRolledBackTxKeepsProfile(t *testing.T) {
	db := openProfile(t)
	ctx := context.Background()
	require.NoError(t, repoAt(db, t0).Set(ctx, "keystore", []byte("sealed")))

	stop := errors.New("stop")
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Clear(ctx))
		return stop
	})
	require.ErrorIs(t, err, stop)

	got, err := NewSQLiteRepository(db).Get(ctx, "keystore")
	require.NoError(t, err)
	assert.Equal(t, []byte("sealed"), got)

	require.NoError(t, NewSQLiteRepository(db).Clear(ctx))
	entries, err := NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestErrorsNameTheKey(t *testing.T) {
	db := openProfile(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "mint")
	assert.ErrorContains(t, err, `profile read "mint"`)
	assert.ErrorContains(t, r.Set(ctx, "mint", mint), `profile write "mint"`)
	_, err = r.Delete(ctx, "mint")
	assert.ErrorContains(t, err, `profile delete "mint"`)
	assert.ErrorContains(t, r.Clear(ctx), "profile clear")
	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "profile list")
}
