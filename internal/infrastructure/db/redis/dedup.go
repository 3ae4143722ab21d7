package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker remembers which payment callbacks have been applied.
// Key format: dedup:payment:<out_trade_no>:<result_code>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// A non-positive ttl falls back to dedupTTL.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = dedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether this callback has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, outTradeNo, resultCode string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(outTradeNo, resultCode)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this callback has been applied (expires after the TTL).
func (d *DedupChecker) Mark(ctx context.Context, outTradeNo, resultCode string) error {
	return d.client.Set(ctx, d.key(outTradeNo, resultCode), "1", d.ttl).Err()
}

func (d *DedupChecker) key(outTradeNo, resultCode string) string {
	return fmt.Sprintf("dedup:payment:%s:%s", outTradeNo, resultCode)
}
