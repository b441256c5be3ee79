package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"legaldraft-analyzer/internal/kanoon"
)

// PrecedentCache stores successful case-law search responses in Redis, keyed
// by the canonical form of the query.
type PrecedentCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewPrecedentCache(client *redisv9.Client, ttl time.Duration) *PrecedentCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &PrecedentCache{client: client, ttl: ttl}
}

func (c *PrecedentCache) Get(ctx context.Context, q kanoon.Query) (*kanoon.Response, bool, error) {
	raw, err := c.client.Get(ctx, SearchKey(q)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get search failed: %w", err)
	}

	var resp kanoon.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached search failed: %w", err)
	}
	return &resp, true, nil
}

func (c *PrecedentCache) Set(ctx context.Context, q kanoon.Query, resp *kanoon.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal search cache failed: %w", err)
	}
	if err := c.client.Set(ctx, SearchKey(q), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set search failed: %w", err)
	}
	return nil
}

// SearchKey hashes the unsigned canonical query so keys stay short and never
// carry credentials.
func SearchKey(q kanoon.Query) string {
	sum := sha256.Sum256([]byte(kanoon.CanonicalString(q.Params(""))))
	return "kanoon:search:" + hex.EncodeToString(sum[:])
}
