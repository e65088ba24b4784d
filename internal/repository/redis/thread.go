package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
)

const keyPrefix = "review_thread:"

// ThreadCache implements repository.ThreadCache on Redis.
type ThreadCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewThreadCache creates a cache whose entries expire after ttl.
func NewThreadCache(client redis.UniversalClient, ttl time.Duration) *ThreadCache {
	return &ThreadCache{client: client, ttl: ttl}
}

func threadKey(reviewID string) string {
	return keyPrefix + reviewID
}

// Get returns the cached thread for reviewID.
func (c *ThreadCache) Get(ctx context.Context, reviewID string) ([]domain.Comment, bool, error) {
	data, err := c.client.Get(ctx, threadKey(reviewID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get thread: %w", err)
	}

	var comments []domain.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, false, fmt.Errorf("unmarshal thread: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, true, nil
}

// Set stores the full thread for reviewID.
func (c *ThreadCache) Set(ctx context.Context, reviewID string, comments []domain.Comment) error {
	if comments == nil {
		comments = []domain.Comment{}
	}
	data, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("marshal thread: %w", err)
	}

	if err := c.client.Set(ctx, threadKey(reviewID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set thread: %w", err)
	}
	return nil
}

// Invalidate drops the cached thread for reviewID.
func (c *ThreadCache) Invalidate(ctx context.Context, reviewID string) error {
	if err := c.client.Del(ctx, threadKey(reviewID)).Err(); err != nil {
		return fmt.Errorf("redis del thread: %w", err)
	}
	return nil
}
