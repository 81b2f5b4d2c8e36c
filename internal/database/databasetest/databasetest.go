// Package databasetest prepares a PostgreSQL database for integration tests.
//
// Tests are skipped unless QUERYLAB_TEST_DATABASE_DSN points at a database
// the tests may freely truncate.
package databasetest

import (
	"context"
	"os"
	"testing"

	"github.com/deppfellow/querylab/internal/database"
	"github.com/deppfellow/querylab/internal/fixture"
	"github.com/rs/zerolog"
)

// DSNEnv names the variable holding the test database DSN.
const DSNEnv = "QUERYLAB_TEST_DATABASE_DSN"

// lockKey serializes test packages sharing one database.
const lockKey = 7_331_001

// Open migrates the test database, reloads the reference data and returns
// a connected Database. Everything is released when the test ends.
func Open(t testing.TB) (*database.Database, fixture.Data) {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping integration test", DSNEnv)
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	db, err := database.Open(ctx, dsn, &logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	lock, err := db.Pool.Acquire(ctx)
	if err != nil {
		db.Close()
		t.Fatalf("acquire lock connection: %v", err)
	}
	if _, err := lock.Exec(ctx, "SELECT pg_advisory_lock($1)", lockKey); err != nil {
		lock.Release()
		db.Close()
		t.Fatalf("take advisory lock: %v", err)
	}

	t.Cleanup(func() {
		_, _ = lock.Exec(ctx, "SELECT pg_advisory_unlock($1)", lockKey)
		lock.Release()
		db.Close()
	})

	if err := database.MigrateDSN(ctx, &logger, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := fixture.Reset(ctx, db.ORM); err != nil {
		t.Fatalf("reset: %v", err)
	}

	data, err := fixture.Import(ctx, db.ORM)
	if err != nil {
		t.Fatalf("import fixture: %v", err)
	}

	return db, data
}
