package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key TTLs. Channel metadata costs YouTube API quota, so it lives
// a full day; search suggestions and trending lists are cheap to rebuild
// and stay short-lived.
const (
	ChannelCacheTTL  = 24 * time.Hour
	SearchCacheTTL   = 5 * time.Minute
	TrendingCacheTTL = 15 * time.Minute
)

// CacheService provides a Redis cache-aside layer for channel metadata,
// search suggestions and trending lists.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetChannel retrieves cached channel metadata. Returns nil if not
// cached or cache is disabled.
func (c *CacheService) GetChannel(ctx context.Context, channelID string) ([]byte, error) {
	return c.get(ctx, channelKey(channelID))
}

// SetChannel stores channel metadata in cache.
func (c *CacheService) SetChannel(ctx context.Context, channelID string, data any) error {
	return c.set(ctx, channelKey(channelID), data, ChannelCacheTTL)
}

// InvalidateChannel removes a channel from cache (called after a new
// analysis refreshes its metadata).
func (c *CacheService) InvalidateChannel(ctx context.Context, channelID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, channelKey(channelID)).Err()
}

// GetSearch retrieves cached search suggestions for a query.
func (c *CacheService) GetSearch(ctx context.Context, query string) ([]byte, error) {
	return c.get(ctx, searchKey(query))
}

// SetSearch stores search suggestions for a query.
func (c *CacheService) SetSearch(ctx context.Context, query string, data any) error {
	return c.set(ctx, searchKey(query), data, SearchCacheTTL)
}

// GetTrending retrieves a cached trending list for a field/region pair.
func (c *CacheService) GetTrending(ctx context.Context, field, region string) ([]byte, error) {
	return c.get(ctx, trendingKey(field, region))
}

// SetTrending stores a trending list for a field/region pair.
func (c *CacheService) SetTrending(ctx context.Context, field, region string, data any) error {
	return c.set(ctx, trendingKey(field, region), data, TrendingCacheTTL)
}

// InvalidateTrending drops every cached trending list. Called after a
// bulk refresh; SCAN keeps it safe on shared Redis instances.
func (c *CacheService) InvalidateTrending(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, "trending:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *CacheService) get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (c *CacheService) set(ctx context.Context, key string, data any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func channelKey(channelID string) string {
	return fmt.Sprintf("channel:%s", channelID)
}

func searchKey(query string) string {
	return fmt.Sprintf("search:%s", strings.ToLower(strings.TrimSpace(query)))
}

func trendingKey(field, region string) string {
	return fmt.Sprintf("trending:%s:%s", strings.ToLower(field), strings.ToLower(region))
}
