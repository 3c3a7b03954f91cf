package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned by a Cache when no entry is stored for the key
var ErrCacheMiss = errors.New("user cache miss")

// Cache stores directory lookups by id and by username
type Cache interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Set(ctx context.Context, u *User) error
	Invalidate(ctx context.Context, u *User) error
}

// RedisCache provides Redis-based caching for users.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a user cache on top of a redis client
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) keyByID(id int64) string { return fmt.Sprintf("profiles:user:id:%d", id) }
func (c *RedisCache) keyByUsername(username string) string {
	return fmt.Sprintf("profiles:user:username:%s", username)
}

// Set stores user by id and username keys.
func (c *RedisCache) Set(ctx context.Context, u *User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.keyByID(u.ID), b, c.ttl)
	if u.Username != "" {
		pipe.Set(ctx, c.keyByUsername(u.Username), b, c.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// GetByID returns cached user by id.
func (c *RedisCache) GetByID(ctx context.Context, id int64) (*User, error) {
	return c.get(ctx, c.keyByID(id))
}

// GetByUsername returns cached user by username.
func (c *RedisCache) GetByUsername(ctx context.Context, username string) (*User, error) {
	return c.get(ctx, c.keyByUsername(username))
}

func (c *RedisCache) get(ctx context.Context, key string) (*User, error) {
	v, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var u User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Invalidate removes cached entries for the user.
func (c *RedisCache) Invalidate(ctx context.Context, u *User) error {
	keys := []string{c.keyByID(u.ID)}
	if u.Username != "" {
		keys = append(keys, c.keyByUsername(u.Username))
	}
	return c.client.Del(ctx, keys...).Err()
}

// CachedStore decorates a Store with a read-through Cache. Cache failures are
// logged and never fail the request.
type CachedStore struct {
	Store
	cache  Cache
	logger zerolog.Logger
}

// NewCachedStore wraps store with cache
func NewCachedStore(store Store, cache Cache, logger zerolog.Logger) *CachedStore {
	return &CachedStore{Store: store, cache: cache, logger: logger}
}

// GetByID serves from cache, falling back to the wrapped store
func (s *CachedStore) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.cache.GetByID(ctx, id)
	if err == nil {
		return u, nil
	}
	s.logMiss(err, "id")

	u, err = s.Store.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	s.fill(ctx, u)
	return u, nil
}

// GetByUsername serves from cache, falling back to the wrapped store
func (s *CachedStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.cache.GetByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	s.logMiss(err, "username")

	u, err = s.Store.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return u, err
	}
	s.fill(ctx, u)
	return u, nil
}

// Update writes through and drops the cached entries
func (s *CachedStore) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	u, err := s.Store.Update(ctx, id, req)
	if err != nil || u == nil {
		return u, err
	}
	s.invalidate(ctx, u)
	return u, nil
}

// SetBanned writes through and drops the cached entries
func (s *CachedStore) SetBanned(ctx context.Context, id int64, banned bool) (*User, error) {
	u, err := s.Store.SetBanned(ctx, id, banned)
	if err != nil || u == nil {
		return u, err
	}
	s.invalidate(ctx, u)
	return u, nil
}

// SetIconTime writes through and drops the cached entries
func (s *CachedStore) SetIconTime(ctx context.Context, id int64, at *time.Time) (*User, error) {
	u, err := s.Store.SetIconTime(ctx, id, at)
	if err != nil || u == nil {
		return u, err
	}
	s.invalidate(ctx, u)
	return u, nil
}

// Delete removes the user and its cached entries
func (s *CachedStore) Delete(ctx context.Context, id int64) error {
	existing, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	if existing != nil {
		s.invalidate(ctx, existing)
	}
	return nil
}

func (s *CachedStore) fill(ctx context.Context, u *User) {
	if err := s.cache.Set(ctx, u); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("Failed to cache user")
	}
}

func (s *CachedStore) invalidate(ctx context.Context, u *User) {
	if err := s.cache.Invalidate(ctx, u); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("Failed to invalidate cached user")
	}
}

func (s *CachedStore) logMiss(err error, by string) {
	if errors.Is(err, ErrCacheMiss) {
		return
	}
	s.logger.Warn().Err(err).Str("by", by).Msg("User cache read failed")
}
