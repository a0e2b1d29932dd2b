package ports

import "context"

// Transactor runs fn inside a single transactional boundary: every write
// issued through the context either commits together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
