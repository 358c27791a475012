// Package rediscache stores rendered list pages in Redis.
//
// Every (workspace, resource) pair has a generation counter. Page entries are
// keyed by the generation observed before the page was read from the
// database, so bumping the counter orphans every older page at once.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "consolenav"

// PageKey identifies one cached list page.
type PageKey struct {
	WorkspaceID int64
	Resource    string
	Page        int
	Limit       int
}

func (k PageKey) generationKey() string {
	return fmt.Sprintf("%s:ws:%d:%s:gen", keyPrefix, k.WorkspaceID, k.Resource)
}

func (k PageKey) pageKey(gen int64) string {
	return fmt.Sprintf("%s:ws:%d:%s:g%d:p%d:l%d", keyPrefix, k.WorkspaceID, k.Resource, gen, k.Page, k.Limit)
}

// PageCache is a TTL-bounded page store.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Open connects to addr and pings it.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func New(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get loads the page into dst. It returns the generation the lookup used, to
// be passed back to Set on a miss.
func (c *PageCache) Get(ctx context.Context, key PageKey, dst any) (int64, bool, error) {
	gen, err := c.generation(ctx, key)
	if err != nil {
		return 0, false, err
	}
	raw, err := c.client.Get(ctx, key.pageKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, fmt.Errorf("redis get page: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a corrupt entry is a miss
		log.Warn().Err(err).Str("key", key.pageKey(gen)).Msg("dropping undecodable cached page")
		_ = c.client.Del(ctx, key.pageKey(gen)).Err()
		return gen, false, nil
	}
	return gen, true, nil
}

// Set stores v under the generation returned by Get.
func (c *PageCache) Set(ctx context.Context, key PageKey, gen int64, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	if err := c.client.Set(ctx, key.pageKey(gen), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set page: %w", err)
	}
	return nil
}

// Invalidate bumps the generation for a workspace's resource.
func (c *PageCache) Invalidate(ctx context.Context, workspaceID int64, resource string) error {
	key := PageKey{WorkspaceID: workspaceID, Resource: resource}
	if err := c.client.Incr(ctx, key.generationKey()).Err(); err != nil {
		return fmt.Errorf("redis bump generation: %w", err)
	}
	return nil
}

func (c *PageCache) generation(ctx context.Context, key PageKey) (int64, error) {
	gen, err := c.client.Get(ctx, key.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}
