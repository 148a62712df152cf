package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ResultCache keeps recently read or written analyses. Analyses are
// immutable, so entries never need invalidation before they expire.
type ResultCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	Set(ctx context.Context, analysis *models.Analysis) error
}

// ErrCacheMiss is returned by ResultCache.Get when the entry is absent.
var ErrCacheMiss = errors.New("cache miss")

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) ResultCache {
	return &redisCache{
		client: client,
		prefix: "analysis:",
		ttl:    ttl,
	}
}

func (c *redisCache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

func (c *redisCache) Get(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get cached analysis %s: %w", id, err)
	}

	var analysis models.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("decode cached analysis %s: %w", id, err)
	}
	return &analysis, nil
}

func (c *redisCache) Set(ctx context.Context, analysis *models.Analysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis %s: %w", analysis.ID, err)
	}
	if err := c.client.Set(ctx, c.key(analysis.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache analysis %s: %w", analysis.ID, err)
	}
	return nil
}

type noopCache struct{}

// NewNoopCache is used when no Redis address is configured.
func NewNoopCache() ResultCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, uuid.UUID) (*models.Analysis, error) {
	return nil, ErrCacheMiss
}

func (noopCache) Set(context.Context, *models.Analysis) error {
	return nil
}
