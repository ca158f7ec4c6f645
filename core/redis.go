package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// RecordCache is a best-effort read-through cache of a user's record list.
// Cache failures never fail a request; the store stays authoritative. A nil
// *RecordCache disables caching entirely.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecordCache(client *redis.Client, ttl time.Duration) *RecordCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RecordCache{client: client, ttl: ttl}
}

func recordCacheKey(userID string) string {
	return "records:" + userID
}

// Get returns the cached record list for a user; ok is false on a miss or
// any cache failure.
func (c *RecordCache) Get(ctx context.Context, userID string) ([]Record, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, recordCacheKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	return records, true
}

// Put stores a user's record list with the configured TTL.
func (c *RecordCache) Put(ctx context.Context, userID string, records []Record) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	c.client.Set(ctx, recordCacheKey(userID), raw, c.ttl)
}

// Invalidate drops the cached list after any mutation of the owner's records.
func (c *RecordCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, recordCacheKey(userID))
}
