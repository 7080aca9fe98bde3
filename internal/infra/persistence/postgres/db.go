package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"example.com/storefront/pkg/retry"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	RetryAttempts   int
}

// Open creates the shared pool and checks that the server answers.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// DB wraps the pool with a per-query deadline and retries for statements
// that failed before reaching the server.
type DB struct {
	db      *sqlx.DB
	timeout time.Duration
	retry   retry.Config
}

func NewDB(db *sqlx.DB, timeout time.Duration, attempts int) *DB {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if attempts < 1 {
		attempts = 3
	}
	return &DB{
		db:      db,
		timeout: timeout,
		retry: retry.Config{
			MaxAttempts: attempts,
			Backoff:     retry.ExponentialBackoff(50 * time.Millisecond),
			ShouldRetry: IsTransient,
		},
	}
}

func (d *DB) Select(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return retry.Do(ctx, d.retry, func() error {
		resetSlice(dest)
		return d.db.SelectContext(ctx, dest, query, args...)
	})
}

func (d *DB) Get(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return retry.Do(ctx, d.retry, func() error {
		return d.db.GetContext(ctx, dest, query, args...)
	})
}

// InTx runs fn inside a transaction under a single deadline. Transactions are
// never retried.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (retErr error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.db.PingContext(ctx)
}

// IsTransient reports connection-level failures that are safe to retry.
// Statement errors reported by the server never are.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) || pgconn.SafeToRetry(err)
}

func resetSlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	if e := v.Elem(); e.Kind() == reflect.Slice {
		e.Set(reflect.Zero(e.Type()))
	}
}
