package store

import (
	"context"
	"strconv"
	"time"

	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/redis/go-redis/v9"
)

// RedisLinkCache decorates a shortlink.Repository with Redis caching
// for the hot redirect lookup. Cache misses and cache errors fall
// through to the underlying store.
type RedisLinkCache struct {
	store  shortlink.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLinkCache creates the caching decorator.
func NewRedisLinkCache(store shortlink.Repository, client *redis.Client, ttl time.Duration) *RedisLinkCache {
	return &RedisLinkCache{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

// Save writes through to the store and refreshes the cache entry.
func (r *RedisLinkCache) Save(ctx context.Context, link *shortlink.Link) error {
	if err := r.store.Save(ctx, link); err != nil {
		return err
	}

	r.cacheLink(ctx, link)

	return nil
}

// GetByCode checks the cache before the store.
func (r *RedisLinkCache) GetByCode(ctx context.Context, shortCode string) (*shortlink.Link, error) {
	if link, err := r.getFromCache(ctx, shortCode); err == nil {
		return link, nil
	}

	link, err := r.store.GetByCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

// GetByBioPage is not cached; it only serves dashboard queries.
func (r *RedisLinkCache) GetByBioPage(ctx context.Context, bioPageID string) ([]*shortlink.Link, error) {
	return r.store.GetByBioPage(ctx, bioPageID)
}

func (r *RedisLinkCache) getFromCache(ctx context.Context, shortCode string) (*shortlink.Link, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+shortCode).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortlink.ErrNotFound
	}

	link := &shortlink.Link{
		ID:          result["id"],
		ShortCode:   result["short_code"],
		OriginalURL: result["original_url"],
		OwnerID:     result["owner_id"],
		BioPageID:   result["bio_page_id"],
		Visibility:  shortlink.Visibility(result["visibility"]),
	}

	link.IsActive = result["is_active"] == "1"

	if v, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		link.CreatedAt = v
	}

	if raw, ok := result["expires_at"]; ok && raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			link.ExpiresAt = &v
		}
	}

	return link, nil
}

func (r *RedisLinkCache) cacheLink(ctx context.Context, link *shortlink.Link) {
	key := r.prefix + link.ShortCode

	active := "0"
	if link.IsActive {
		active = "1"
	}

	expiresAt := ""
	if link.ExpiresAt != nil {
		expiresAt = strconv.FormatInt(*link.ExpiresAt, 10)
	}

	pipe := r.client.Pipeline()

	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           link.ID,
		"short_code":   link.ShortCode,
		"original_url": link.OriginalURL,
		"owner_id":     link.OwnerID,
		"bio_page_id":  link.BioPageID,
		"is_active":    active,
		"expires_at":   expiresAt,
		"visibility":   string(link.Visibility),
		"created_at":   strconv.FormatInt(link.CreatedAt, 10),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortlink.Repository = (*RedisLinkCache)(nil)
