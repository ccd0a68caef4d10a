package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ibeer/internal/core/tx"
	"ibeer/pkg/logger"
)

var tracer = otel.Tracer("ibeer/tx")

// Compile-time check that TxManager implements the tx interfaces.
var (
	_ tx.Manager         = (*TxManager)(nil)
	_ tx.ReadOnlyManager = (*TxManager)(nil)
)

// TxOptions configures transaction behavior.
type TxOptions struct {
	// IsolationLevel: pgx.Serializable, pgx.RepeatableRead, pgx.ReadCommitted
	IsolationLevel pgx.TxIsoLevel

	// AccessMode: pgx.ReadWrite, pgx.ReadOnly
	AccessMode pgx.TxAccessMode

	// StatementTimeout protects against long-running queries (default 30s)
	StatementTimeout time.Duration

	// UseSavepoint creates savepoint for nested transactions
	UseSavepoint bool
}

// DefaultTxOptions returns production-safe defaults.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		AccessMode:       pgx.ReadWrite,
		StatementTimeout: 30 * time.Second,
		UseSavepoint:     false,
	}
}

// ReadOnlyTxOptions returns options for snapshot reads spanning several statements.
func ReadOnlyTxOptions() TxOptions {
	opts := DefaultTxOptions()
	opts.IsolationLevel = pgx.RepeatableRead
	opts.AccessMode = pgx.ReadOnly
	return opts
}

// TxManager manages database transactions with support for:
// - Nested transactions (with optional savepoints)
// - Statement timeout protection
// - Distributed tracing integration
type TxManager struct {
	db txStarter
}

// txStarter is what TxManager needs from the pool.
type txStarter interface {
	Querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

var _ txStarter = (*pgxpool.Pool)(nil)

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{db: pool.Pool}
}

// txKey is the context key for active transaction.
type txKey struct{}

// Tx wraps pgx.Tx with metadata.
type Tx struct {
	pgx.Tx
	opts TxOptions
}

// RunInTransaction executes fn within a transaction.
// If a transaction already exists in ctx, it will be reused (nested transaction).
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, DefaultTxOptions(), fn)
}

// ReadOnly executes fn in a read-only repeatable-read transaction.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, ReadOnlyTxOptions(), fn)
}

// RunInTransactionWithOptions executes fn with custom transaction options.
func (m *TxManager) RunInTransactionWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsolationLevel)),
			attribute.String("tx.access_mode", string(opts.AccessMode)),
		))
	defer span.End()

	if existing := GetTx(ctx); existing != nil {
		return m.handleNestedTransaction(ctx, existing, opts, fn)
	}

	return m.startNewTransaction(ctx, opts, fn)
}

// startNewTransaction begins a new database transaction.
func (m *TxManager) startNewTransaction(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	pgTx, err := m.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   opts.IsolationLevel,
		AccessMode: opts.AccessMode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if opts.StatementTimeout > 0 {
		_, err = pgTx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds()))
		if err != nil {
			_ = pgTx.Rollback(ctx)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	txCtx := context.WithValue(ctx, txKey{}, &Tx{Tx: pgTx, opts: opts})
	txCtx, hooks := tx.WithCommitHooks(txCtx)

	defer func() {
		if p := recover(); p != nil {
			if rbErr := pgTx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Component(ctx, "tx").Errorw("rollback after panic failed", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		// Background context so the rollback completes even if ctx was cancelled.
		if rbErr := pgTx.Rollback(context.Background()); rbErr != nil {
			logger.Component(ctx, "tx").Errorw("rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	hooks.Run(context.WithoutCancel(ctx))
	return nil
}

// handleNestedTransaction manages nested transaction (reuses or creates savepoint).
func (m *TxManager) handleNestedTransaction(ctx context.Context, existing *Tx, opts TxOptions, fn func(ctx context.Context) error) error {
	if opts.AccessMode == pgx.ReadWrite && existing.opts.AccessMode == pgx.ReadOnly {
		return fmt.Errorf("read-write transaction requested inside a read-only one")
	}

	if !opts.UseSavepoint {
		return fn(ctx)
	}

	savepointName := fmt.Sprintf("sp_%d", time.Now().UnixNano())
	if _, err := existing.Exec(ctx, "SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := existing.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
			logger.Component(ctx, "tx").Errorw("rollback to savepoint failed", "savepoint", savepointName, "error", rbErr)
		}
		return err
	}

	if _, err := existing.Exec(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}

	return nil
}

// GetTx returns the current transaction from context, or nil if none.
func GetTx(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok {
		return t
	}
	return nil
}

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction in ctx, or the pool outside a transaction.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := GetTx(ctx); t != nil {
		return t.Tx
	}
	return m.db
}
