package repository

import "context"

// Transactor runs fn inside a single store transaction. The context passed to
// fn carries the transaction; repositories called with it join the same
// transaction. Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
