package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long a digest stays in Redis when no TTL is configured.
const DefaultTTL = 24 * time.Hour

const pingTimeout = 2 * time.Second

// Redis is a DigestCache backed by Redis. When the server cannot be reached at
// construction time every operation becomes a no-op miss.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	warned atomic.Bool
}

// NewRedis connects to addr and pings it. An unreachable server yields a
// bypassing cache, not an error.
func NewRedis(ctx context.Context, addr string, ttl time.Duration, logger zerolog.Logger) (r *Redis) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	r = &Redis{ttl: ttl, logger: logger}

	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, bypassing digest cache")
		_ = client.Close()
		return r
	}

	r.client = client
	return r
}

// Available reports whether the cache is talking to a live server.
func (r *Redis) Available() (ok bool) {
	ok = r != nil && r.client != nil
	return ok
}

// Get implements DigestCache.
func (r *Redis) Get(ctx context.Context, key string) (digest string, found bool, err error) {
	if !r.Available() {
		return digest, found, err
	}

	digest, err = r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = nil
			return digest, found, err
		}
		r.warnOnce(err)
		err = errors.Wrapf(err, "failed to read digest %s", key)
		return digest, found, err
	}

	found = digest != ""
	return digest, found, err
}

// Set implements DigestCache.
func (r *Redis) Set(ctx context.Context, key, digest string) (err error) {
	if !r.Available() {
		return err
	}

	err = r.client.Set(ctx, key, digest, r.ttl).Err()
	if err != nil {
		r.warnOnce(err)
		err = errors.Wrapf(err, "failed to store digest %s", key)
		return err
	}

	return err
}

// Close releases the connection pool.
func (r *Redis) Close() (err error) {
	if !r.Available() {
		return err
	}
	err = r.client.Close()
	return err
}

func (r *Redis) warnOnce(err error) {
	if r.warned.CompareAndSwap(false, true) {
		r.logger.Warn().Err(err).Msg("redis digest cache error")
	}
}
