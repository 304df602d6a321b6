package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// schema mirrors the tables the repositories read and write.
const schema = `
CREATE TABLE IF NOT EXISTS branches (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	staff_roles JSONB NOT NULL DEFAULT '{}',
	shifts      JSONB NOT NULL DEFAULT '[]',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS employees (
	id                  TEXT PRIMARY KEY,
	first_name          TEXT NOT NULL,
	last_name           TEXT NOT NULL,
	phone               TEXT NOT NULL,
	role                TEXT NOT NULL,
	start_date          DATE NOT NULL,
	base_salary         NUMERIC(14, 2) NOT NULL,
	allowed_absent_days NUMERIC(6, 2) NOT NULL,
	attendance          JSONB NOT NULL DEFAULT '{}',
	bonus_days          JSONB NOT NULL DEFAULT '{}',
	penalty_days        JSONB NOT NULL DEFAULT '{}',
	branch_ids          TEXT[] NOT NULL DEFAULT '{}',
	status              TEXT NOT NULL,
	is_active           BOOLEAN NOT NULL DEFAULT TRUE,
	payroll_end_month   INT,
	payroll_end_year    INT,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	all_branches  BOOLEAN NOT NULL DEFAULT FALSE,
	branch_ids    TEXT[] NOT NULL DEFAULT '{}',
	permissions   JSONB,
	token_version INT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS roles (
	name        TEXT PRIMARY KEY,
	permissions JSONB NOT NULL DEFAULT '{}',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var tables = []string{"employees", "branches", "users", "roles"}

// newTestDB connects to TEST_DATABASE_URL, creates the schema and empties
// every table. The test is skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, schema)
	require.NoError(t, err)
	require.NoError(t, truncateAll(ctx, db))

	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}
