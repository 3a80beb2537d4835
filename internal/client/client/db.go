package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/timevault/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// profilePragmas are applied to every connection of a file-backed profile.
const profilePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = goose.UpContext

// RunMigrations applies the embedded client schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("profile migration failed: %w", err)
	}
	return nil
}

// InitDatabase opens the local profile database at path and migrates it.
// The file holds the sealed signing key, so it is made readable by the
// owner only.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", profileDSN(path))
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if isFile(path) {
		file, _, _ := strings.Cut(path, "?")
		if err := os.Chmod(file, 0o600); err != nil {
			db.Close()
			return nil, fmt.Errorf("restricting profile permissions: %w", err)
		}
	}

	return db, nil
}

func isFile(path string) bool {
	return path != "" && path != ":memory:" && !strings.HasPrefix(path, "file:")
}

func profileDSN(path string) string {
	if !isFile(path) || strings.Contains(path, "?") {
		return path
	}
	return path + "?" + profilePragmas
}
