package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	keyPrefix = "listing:"
	genSuffix = ":gen"

	// generationTTL outlives any in-flight fill by a wide margin.
	generationTTL = 24 * time.Hour
)

// NewRedisClient connects to addr and verifies the server answers.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logger.Log.Infof("redis connected at %s", addr)
	return client, nil
}

// ListingCache stores listings as JSON under listing:<id> with a TTL. Every
// Invalidate bumps listing:<id>:gen, and a fill only lands when that
// generation still matches the one seen by the Get that missed.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func genKey(id uuid.UUID) string {
	return keyPrefix + id.String() + genSuffix
}

// Get returns the cached listing and the current generation. A miss yields a
// nil listing.
func (c *ListingCache) Get(ctx context.Context, id uuid.UUID) (*models.Listing, int64, error) {
	vals, err := c.client.MGet(ctx, key(id), genKey(id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis mget: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var listing models.Listing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil, 0, fmt.Errorf("decode cached listing: %w", err)
	}
	return &listing, gen, nil
}

// Set caches listing unless it was invalidated after generation was read.
func (c *ListingCache) Set(ctx context.Context, listing *models.Listing, generation int64) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}

	gk := genKey(listing.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			logger.Log.Debugf("listing %s invalidated during fill, not cached", listing.ID)
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(listing.ID), raw, c.ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *ListingCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(id))
		pipe.Expire(ctx, genKey(id), generationTTL)
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cache generation %q: %w", s, err)
	}
	return gen, nil
}
