// Package store opens connections to the relational store backing
// pressroom and loads its schema.
//
// A Provider never keeps a connection around: every Open returns a fresh
// single-connection *orm.DB that the caller must close, and Do wraps that
// in a scoped acquisition that closes the connection on every path.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mickamy/pressroom/orm"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned by New for a driver outside the supported set.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Provider opens connections to one configured store.
type Provider struct {
	driver  string
	dialect orm.Dialect
	logger  orm.Logger
	connect func() (*sql.DB, error)
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger logs every statement run through connections opened by the
// Provider.
func WithLogger(l orm.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New returns a Provider for driver and dsn. The DSN is validated up front
// for mysql and postgres; for sqlite it is the database file path,
// optionally followed by query parameters.
func New(driver, dsn string, opts ...Option) (*Provider, error) {
	d, ok := orm.DialectFor(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("store: empty dsn for %s", driver)
	}

	p := &Provider{driver: driver, dialect: d}

	switch driver {
	case DriverSQLite:
		p.connect = func() (*sql.DB, error) {
			return sql.Open("sqlite", sqliteDSN(dsn))
		}
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("store: parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("store: mysql connector: %w", err)
		}
		p.connect = func() (*sql.DB, error) {
			return sql.OpenDB(connector), nil
		}
	case DriverPostgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("store: parse postgres dsn: %w", err)
		}
		p.connect = func() (*sql.DB, error) {
			return stdlib.OpenDB(*cfg), nil
		}
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// sqliteDSN turns foreign key enforcement on for the connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Driver returns the configured driver name.
func (p *Provider) Driver() string { return p.driver }

// Dialect returns the dialect of the configured store.
func (p *Provider) Dialect() orm.Dialect { return p.dialect }

// Open opens and pings a new connection. The caller must Close it.
func (p *Provider) Open(ctx context.Context) (*orm.DB, error) {
	raw, err := p.connect()
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", p.driver, err)
	}
	raw.SetMaxOpenConns(1)

	db := orm.New(raw, p.dialect)
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: open %s: %w", p.driver, err)
	}

	log.Trace().Str("driver", p.driver).Msg("Connection opened")

	if p.logger != nil {
		db = db.Debug(p.logger)
	}
	return db, nil
}

// Do opens a connection, runs fn with it and closes it before returning,
// including when fn fails or panics. A close failure is joined with fn's
// error.
func (p *Provider) Do(ctx context.Context, fn func(db orm.Querier) error) error {
	return p.with(ctx, func(db *orm.DB) error { return fn(db) })
}

// Transaction is Do with fn running inside a transaction that commits when
// fn returns nil and rolls back otherwise.
func (p *Provider) Transaction(ctx context.Context, fn func(tx *orm.Tx) error) error {
	return p.with(ctx, func(db *orm.DB) error { return db.Transaction(ctx, fn) })
}

func (p *Provider) with(ctx context.Context, fn func(db *orm.DB) error) (err error) {
	db, err := p.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("store: close %s: %w", p.driver, cerr))
		}
	}()
	return fn(db)
}
