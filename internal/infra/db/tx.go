package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/resilience/circuitbreaker"
)

// Querier is the subset of *sql.DB and *sql.Tx used by the persistence adapters.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type txKey struct{}

// Conn returns the transaction carried by ctx, or db when there is none.
func Conn(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TxManager runs units of work against the shared pool.
// It implements repository.Transactor.
type TxManager struct {
	db      *sql.DB
	breaker *circuitbreaker.CircuitBreaker
}

// TxOption configures a TxManager.
type TxOption func(*TxManager)

// WithCircuitBreaker makes units of work fail fast while the breaker is open.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) TxOption {
	return func(m *TxManager) { m.breaker = cb }
}

// NewTxManager creates a TxManager over db.
func NewTxManager(db *sql.DB, opts ...TxOption) *TxManager {
	m := &TxManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithinTx runs fn inside a read-write transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, "read_write", &sql.TxOptions{}, fn)
}

// WithinReadOnlyTx runs fn inside a read-only transaction.
func (m *TxManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, "read_only", &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TxManager) run(ctx context.Context, mode string, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Nested units of work join the outer transaction.
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	start := time.Now()
	var err error
	if m.breaker != nil {
		err = m.breaker.Run(func() error { return m.execute(ctx, opts, fn) })
	} else {
		err = m.execute(ctx, opts, fn)
	}
	metrics.RecordUnitOfWork(mode, time.Since(start), err)
	return err
}

func (m *TxManager) execute(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.Warn("transaction rollback failed",
					slog.Any("error", rbErr),
					slog.Any("cause", err))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// IsInfrastructureFailure reports whether err should count against the database
// circuit breaker. Client mistakes and cancelled requests do not.
func IsInfrastructureFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case entity.IsValidation(err),
		errors.Is(err, entity.ErrUnknownArticle),
		errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

// NewDBCircuitBreaker returns a breaker configured for units of work.
func NewDBCircuitBreaker() *circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.DBConfig()
	cfg.IsSuccessful = func(err error) bool { return !IsInfrastructureFailure(err) }
	return circuitbreaker.New(cfg)
}
