package repository

import (
	"context"
	"errors"
)

// ErrOptimisticLock is returned when a compare-and-set write finds that the row
// changed since it was read.
var ErrOptimisticLock = errors.New("record was modified by another request")

// Transactor runs fn in a single database transaction. Repositories called with the
// context passed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
