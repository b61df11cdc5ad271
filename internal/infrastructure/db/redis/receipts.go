package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultReceiptTTL = 24 * time.Hour

// ReceiptCache remembers voters whose ballot has already been recorded so
// repeat submissions can be answered without touching MongoDB.
// Key format: ballot:receipt:<voter_id>, value: candidate id.
//
// The cache is advisory. A miss always falls through to the conditional
// write in the voter store, which stays the sole arbiter of exactly-once.
type ReceiptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReceiptCache wraps client. A non-positive ttl falls back to 24h.
func NewReceiptCache(client *redis.Client, ttl time.Duration) *ReceiptCache {
	if ttl <= 0 {
		ttl = defaultReceiptTTL
	}
	return &ReceiptCache{client: client, ttl: ttl}
}

// Lookup reports whether a receipt exists for voterID.
func (c *ReceiptCache) Lookup(ctx context.Context, voterID string) (bool, error) {
	n, err := c.client.Exists(ctx, receiptKey(voterID)).Result()
	if err != nil {
		return false, fmt.Errorf("receipt lookup: %w", err)
	}
	return n > 0, nil
}

// Mark stores the receipt. SETNX keeps the first candidate if two writers race.
func (c *ReceiptCache) Mark(ctx context.Context, voterID, candidateID string) error {
	if err := c.client.SetNX(ctx, receiptKey(voterID), candidateID, c.ttl).Err(); err != nil {
		return fmt.Errorf("receipt mark: %w", err)
	}
	return nil
}

// Forget drops the receipt, used when the voter record is removed.
func (c *ReceiptCache) Forget(ctx context.Context, voterID string) error {
	if err := c.client.Del(ctx, receiptKey(voterID)).Err(); err != nil {
		return fmt.Errorf("receipt forget: %w", err)
	}
	return nil
}

func receiptKey(voterID string) string {
	return fmt.Sprintf("ballot:receipt:%s", voterID)
}
