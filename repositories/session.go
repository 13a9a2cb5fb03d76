package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the slice of *pgxpool.Pool used by the plain read/write repositories.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Session is one exclusive connection checked out of the pool. Release must be
// called exactly once, after which the session is unusable.
type Session interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Release()
}

type SessionPool interface {
	AcquireSession(ctx context.Context) (Session, error)
}

type PgxSessionPool struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

func NewSessionPool(pool *pgxpool.Pool, acquireTimeout time.Duration) *PgxSessionPool {
	return &PgxSessionPool{pool: pool, acquireTimeout: acquireTimeout}
}

// AcquireSession blocks until a connection is free, ctx is done or the acquire
// timeout elapses. The timeout only bounds the wait, not the session.
func (p *PgxSessionPool) AcquireSession(ctx context.Context) (Session, error) {
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
