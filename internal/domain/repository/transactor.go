package repository

import "context"

// Transactor runs a function inside one atomic unit of work. Every
// repository call made with the context passed to fn participates in the
// same transaction; if fn returns an error nothing it did is persisted.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
