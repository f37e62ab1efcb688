package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is what the kv and sync log repositories run against: the shared
// *sql.DB, or the *sql.Tx of a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork groups Local Store reads and writes that span several keys,
// so a CLI command and a sync watcher sharing one database file never see
// half of each other's state.
type UnitOfWork interface {
	// WithinTx runs fn in a write transaction. The write lock is taken at
	// BEGIN, so a read-modify-write inside fn cannot lose to another
	// writer; competing writers wait out the busy timeout instead.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
	// WithinSnapshot runs fn in a read-only transaction. Every read in fn
	// sees the same committed state.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork on a database opened by OpenDB.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return u.run(ctx, nil, fn)
}

func (u *SQLiteUnitOfWork) WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return u.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (u *SQLiteUnitOfWork) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if opts != nil && opts.ReadOnly {
		// Nothing to commit; rollback just ends the read snapshot.
		return tx.Rollback()
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
