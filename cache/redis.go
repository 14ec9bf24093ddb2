package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/bracket-board/models"
)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores graphs as JSON under bracket:graph:{tournamentID}.
func NewRedisCache(client *redis.Client, ttl time.Duration) GraphCache {
	return &redisCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return client, nil
}

func (c *redisCache) Get(ctx context.Context, tournamentID int) (*models.BracketGraph, bool, error) {
	data, err := c.client.Get(ctx, graphKey(tournamentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get tournament %d: %w", ErrCacheUnavailable, tournamentID, err)
	}

	var graph models.BracketGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, false, fmt.Errorf("decode cached graph for tournament %d: %w", tournamentID, err)
	}
	return &graph, true, nil
}

func (c *redisCache) Set(ctx context.Context, tournamentID int, graph *models.BracketGraph) error {
	data, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("encode graph for tournament %d: %w", tournamentID, err)
	}
	if err := c.client.Set(ctx, graphKey(tournamentID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set tournament %d: %w", ErrCacheUnavailable, tournamentID, err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, tournamentID int) error {
	if err := c.client.Del(ctx, graphKey(tournamentID)).Err(); err != nil {
		return fmt.Errorf("%w: invalidate tournament %d: %w", ErrCacheUnavailable, tournamentID, err)
	}
	return nil
}
