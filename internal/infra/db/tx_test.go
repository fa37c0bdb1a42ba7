package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/resilience/circuitbreaker"
)

func TestTxManager_WithinTx_Commit(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tags").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = NewTxManager(sqlDB).WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := Conn(ctx, sqlDB).ExecContext(ctx, "INSERT INTO tags VALUES (1)")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx_RollbackOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = NewTxManager(sqlDB).WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinReadOnlyTx(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT article_id").WillReturnRows(sqlmock.NewRows([]string{"article_id"}).AddRow("a1"))
	mock.ExpectCommit()

	var got string
	err = NewTxManager(sqlDB).WithinReadOnlyTx(context.Background(), func(ctx context.Context) error {
		return Conn(ctx, sqlDB).QueryRowContext(ctx, "SELECT article_id FROM articles").Scan(&got)
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_NestedJoinsOuterTx(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTxManager(sqlDB)
	err = m.WithinTx(context.Background(), func(outer context.Context) error {
		return m.WithinReadOnlyTx(outer, func(inner context.Context) error {
			assert.Same(t, Conn(outer, sqlDB), Conn(inner, sqlDB))
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_PanicRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = NewTxManager(sqlDB).WithinTx(context.Background(), func(ctx context.Context) error {
			panic("kaboom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_BeginError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err = NewTxManager(sqlDB).WithinTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin tx")
	assert.False(t, called)
}

func TestTxManager_CommitError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err = NewTxManager(sqlDB).WithinTx(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorContains(t, err, "commit tx")
}

func TestTxManager_OpenBreakerFailsFast(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	cfg := circuitbreaker.DBConfig()
	cfg.MinRequests = 1
	cb := circuitbreaker.New(cfg)
	m := NewTxManager(sqlDB, WithCircuitBreaker(cb))

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
	_ = m.WithinTx(context.Background(), func(ctx context.Context) error { return nil })
	require.True(t, cb.IsOpen())

	err = m.WithinTx(context.Background(), func(ctx context.Context) error {
		t.Fatal("unit of work must not run while the breaker is open")
		return nil
	})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsInfrastructureFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "validation", err: &entity.ValidationError{Field: "tags", Message: "bad"}, want: false},
		{name: "unknown article", err: fmt.Errorf("InsertBatch: %w", entity.ErrUnknownArticle), want: false},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "driver error", err: errors.New("connection reset by peer"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInfrastructureFailure(tt.err))
		})
	}
}

func TestNewDBCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	cb := NewDBCircuitBreaker()
	for range 10 {
		_ = cb.Run(func() error { return entity.ErrUnknownArticle })
	}
	assert.False(t, cb.IsOpen())
}
