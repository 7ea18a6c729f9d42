package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript is the server-side atomic form of [Bucket.Allow]: the
// first hit on a key opens the window by arming a TTL, every hit counts,
// and key expiry is the window reset. Running it as one script makes the
// check-and-increment indivisible across all processes sharing the store;
// a naive read-then-write would reintroduce the lost-update race the
// in-process mutex protects against.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if count > tonumber(ARGV[1]) then
  return 0
end
return 1
`

var fixedWindowLua = redis.NewScript(fixedWindowScript)

// RedisBackend evaluates the fixed-window algorithm in Redis. Shared state
// lives entirely outside the process; window expiry is handled by the
// key TTL.
type RedisBackend struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a backend over the given client. Keys are stored
// under prefix (default "rl") to keep the namespace separate from other
// users of the instance.
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisBackend{
		redis:  client,
		prefix: prefix,
	}
}

func (r *RedisBackend) Check(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	allowed, err := fixedWindowLua.Run(
		ctx,
		r.redis,
		[]string{r.prefix + ":" + key},
		limit,
		window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return allowed == 1, nil
}
