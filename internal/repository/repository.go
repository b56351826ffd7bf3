package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rakort/orders-api/internal/apperr"
)

// Statements run one at a time: pgx's default query mode rejects
// multi-command strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL CHECK (amount > 0)
	)`,
}

// PgxExecutor is an interface that matches both *pgxpool.Pool and pgx.Tx
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// DB wraps the connection pool with the transaction and timeout
// plumbing shared by the entity repositories.
type DB struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewDB(pool *pgxpool.Pool, queryTimeout time.Duration) *DB {
	return &DB{pool: pool, queryTimeout: queryTimeout}
}

// EnsureSchema creates the users and orders tables if they do not exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	ctx, cancel := d.opCtx(ctx)
	defer cancel()
	for _, stmt := range schema {
		if _, err := d.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// RunAtomic executes fn within a transaction. Repository methods called
// inside fn pick the transaction up from the context, so a failure
// anywhere in fn rolls back every statement it issued.
func (d *DB) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := d.opCtx(ctx)
	defer cancel()

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	// No-op if the transaction was committed
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.FromPostgres(err)
	}

	return nil
}

func (d *DB) executor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return d.pool
}

// opCtx bounds a single store round-trip so a stalled database surfaces
// as an error instead of a hung request.
func (d *DB) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}
