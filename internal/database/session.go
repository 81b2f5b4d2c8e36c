package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

var readOnlyTx = pgx.TxOptions{AccessMode: pgx.ReadOnly}

// Session runs fn inside a read-only pgx transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise.
// The tx must not be used after fn returns.
func (db *Database) Session(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, db.Pool, readOnlyTx, fn)
}

// ORMSession runs fn inside a read-only gorm transaction bound to ctx.
func (db *Database) ORMSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.ORM.WithContext(ctx).Transaction(fn, &sql.TxOptions{ReadOnly: true})
}
