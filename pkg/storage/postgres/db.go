package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// builder renders SQL with Postgres placeholders ($1, $2, ...).
var builder = sql.Dialect(dialect.Postgres)

type DB struct {
	cfg  *Config
	pool *pgxpool.Pool
}

func NewDB(cfg *Config) *DB {
	return &DB{cfg: cfg}
}

func (d *DB) Pool() *pgxpool.Pool {
	if d.pool == nil {
		panic("db pool not connected, call DB.Connect() first")
	}
	return d.pool
}

// Connect connects to Postgres and optionally creates the schema.
func (d *DB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(d.cfg.DSN())
	if err != nil {
		return fmt.Errorf("parse pool config: %w", err)
	}
	if d.cfg.MaxConns > 0 {
		poolCfg.MaxConns = d.cfg.MaxConns
	}
	if d.cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = d.cfg.MaxConnIdleTime
	}
	if d.cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = d.cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("pgx connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	// Optional schema creation for local/dev environments.
	if d.cfg.AutoMigrate {
		if _, err := pool.Exec(ctx, schema); err != nil {
			pool.Close()
			return fmt.Errorf("create schema resources: %w", err)
		}
	}

	d.pool = pool

	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.Pool().Ping(ctx)
}

func (d *DB) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// collectOne returns nil when the query matched no rows.
func collectOne[T any](ctx context.Context, q querier, query string, args []any) (*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}

func collectAll[T any](ctx context.Context, q querier, query string, args []any) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}
