package ports

import "context"

// AttemptStore keeps per-IP counters of successful registrations within the
// current window. Implementations own the window semantics (TTL, day bucket).
type AttemptStore interface {
	Count(ctx context.Context, ip string) (int, error)
	Increment(ctx context.Context, ip string) error
}
