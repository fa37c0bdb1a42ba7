// Package repository declares the storage ports used by the use cases.
package repository

import "context"

// Transactor scopes a unit of work. fn receives a context carrying the
// transaction; repositories called with that context join it. The transaction
// commits when fn returns nil and rolls back otherwise, and the connection is
// always released.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}
