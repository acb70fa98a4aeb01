package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations. A business
// mutation and its audit record run under one Do call so they commit or
// roll back together.
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
