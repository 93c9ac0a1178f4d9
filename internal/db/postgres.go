package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"orghub/backend/internal/platform/apperr"
)

// Open opens a Postgres connection using the given DSN. Caller must call Close when done.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Repositories are
// built over DBTX so the same code runs standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction at the store's default isolation. The
// transaction is rolled back on any error or panic and committed otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return withTx(ctx, db, nil, fn)
}

// serializableAttempts bounds retries of a serializable transaction aborted
// by a serialization failure or deadlock.
const serializableAttempts = 3

// WithSerializableTx runs fn inside a SERIALIZABLE transaction, retrying when
// Postgres aborts it with a serialization failure. Check-and-act sequences
// whose correctness depends on the read (admin counting, duplicate lookups)
// must run through here: at READ COMMITTED two concurrent demotions can both
// count two admins, update disjoint rows, and commit an org into having none.
func WithSerializableTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return runSerializable(func() error {
		return withTx(ctx, db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
	})
}

func runSerializable(attempt func() error) error {
	var err error
	for i := 0; i < serializableAttempts; i++ {
		err = attempt()
		if !retryableTxError(err) {
			return err
		}
	}
	return err
}

// Postgres error codes that mean the transaction lost a concurrency conflict
// and is safe to retry from the top.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// retryableTxError reports whether err is a serialization failure or deadlock
// that a fresh transaction attempt may resolve.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// pgUniqueViolation is the Postgres error code for a unique constraint conflict.
const pgUniqueViolation = "23505"

// ConflictOnUnique converts a unique-constraint violation into an
// apperr.Conflict with the given reason, leaving every other error untouched.
// Repositories use it so a lost duplicate race surfaces as Conflict rather
// than a bare driver error.
func ConflictOnUnique(err error, reason string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict(reason)
	}
	return err
}

func withTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
