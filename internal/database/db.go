package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so the same query methods
// run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries holds all SQL statements as methods.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const (
	connectRetries = 5
	connectDelay   = 2 * time.Second
	pingTimeout    = 5 * time.Second
)

// Connect opens a pgx pool and verifies it with a bounded retry loop, so a
// server started alongside the database does not lose the race.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return pool, nil
		}

		select {
		case <-time.After(connectDelay):
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("connect canceled: %w", ctx.Err())
		}
	}

	pool.Close()
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectRetries, lastErr)
}

// IsConnectivityError reports whether err looks like a lost or unreachable
// connection rather than a statement-level failure. Services use it to decide
// whether a single retry is worth attempting.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}
