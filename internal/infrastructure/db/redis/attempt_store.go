package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptTTL = 24 * time.Hour

// RegistrationAttemptStore keeps per-IP counters of successful registrations
// in Redis. Key format: regattempt:<ip>:<yyyy-mm-dd>, expiring after a day
// so the window rolls over naturally.
type RegistrationAttemptStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRegistrationAttemptStore(client *redis.Client) *RegistrationAttemptStore {
	return &RegistrationAttemptStore{client: client, now: time.Now}
}

// Count reports how many registrations succeeded from this IP today.
func (s *RegistrationAttemptStore) Count(ctx context.Context, ip string) (int, error) {
	n, err := s.client.Get(ctx, s.key(ip)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("attempt count: %w", err)
	}
	return n, nil
}

// Increment bumps today's counter, setting the expiry on first use.
func (s *RegistrationAttemptStore) Increment(ctx context.Context, ip string) error {
	key := s.key(ip)
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, attemptTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("attempt increment: %w", err)
	}
	return nil
}

func (s *RegistrationAttemptStore) key(ip string) string {
	return fmt.Sprintf("regattempt:%s:%s", ip, s.now().UTC().Format("2006-01-02"))
}
