package orm

import (
	"context"
	"database/sql"
	"errors"
)

// Querier is the common interface for DB and Tx.
// Query factories accept this so that queries work with both.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Dialect() Dialect
}

// Logger receives every statement before it is sent to the database.
type Logger interface {
	Log(ctx context.Context, query string, args ...any)
}

// conn is the part of *sql.DB and *sql.Tx that DB and Tx forward to.
type conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// session forwards statements to a conn, logging them first when a Logger
// is attached.
type session struct {
	c      conn
	d      Dialect
	logger Logger
}

func (s session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.logger != nil {
		s.logger.Log(ctx, query, args...)
	}
	return s.c.QueryContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

func (s session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.logger != nil {
		s.logger.Log(ctx, query, args...)
	}
	return s.c.ExecContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

// Dialect returns the dialect queries are rendered for.
func (s session) Dialect() Dialect { return s.d }

// DB wraps *sql.DB with a Dialect and satisfies Querier.
type DB struct {
	session
	raw *sql.DB
}

// New wraps a *sql.DB with the given Dialect.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{session: session{c: db, d: d}, raw: db}
}

// Debug returns a new *DB that logs every query using the given Logger.
// The original DB is not modified.
func (db *DB) Debug(l Logger) *DB {
	return &DB{session: session{c: db.raw, d: db.d, logger: l}, raw: db.raw}
}

// Begin starts a transaction. The Tx inherits the DB's dialect and logger.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := db.raw.BeginTx(ctx, nil)
	if err != nil {
		return nil, err //nolint:wrapcheck // thin wrapper
	}
	return &Tx{session: session{c: tx, d: db.d, logger: db.logger}, raw: tx}, nil
}

// Transaction executes fn within a transaction.
// If fn returns nil the transaction is committed.
// If fn returns an error or panics the transaction is rolled back; a failed
// rollback is reported alongside fn's error.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error { return db.raw.PingContext(ctx) } //nolint:wrapcheck // thin wrapper

// Close closes the underlying *sql.DB.
func (db *DB) Close() error { return db.raw.Close() } //nolint:wrapcheck // thin wrapper

// Tx wraps *sql.Tx with a Dialect and satisfies Querier.
type Tx struct {
	session
	raw *sql.Tx
}

// Commit commits the transaction.
func (tx *Tx) Commit() error { return tx.raw.Commit() } //nolint:wrapcheck // thin wrapper

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error { return tx.raw.Rollback() } //nolint:wrapcheck // thin wrapper
