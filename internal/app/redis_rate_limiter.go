package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// allowTransferScript counts the sender's transfers in the current window and
// decides inside Redis, so concurrent requests cannot race past the limit.
// It returns {allowed, count, retry_after_ms}.
var allowTransferScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if count <= tonumber(ARGV[1]) then
  return {1, count, 0}
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[2])
end
return {0, count, ttl}
`)

// RedisTransferRateLimiter bounds how many transfers one sender key may
// submit per window, shared across all server instances through Redis.
type RedisTransferRateLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisTransferRateLimiter(client redis.UniversalClient, prefix string) *RedisTransferRateLimiter {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "pixhub:rate_limit"
	}
	return &RedisTransferRateLimiter{client: client, prefix: prefix}
}

// AllowTransfer consumes one slot for the sender key. A nil client or a
// non-positive limit disables limiting instead of failing the transfer.
func (r *RedisTransferRateLimiter) AllowTransfer(ctx context.Context, senderKey string, limit int, window time.Duration) (RateLimitResult, error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return RateLimitResult{Allowed: true}, nil
	}
	senderKey = strings.TrimSpace(senderKey)
	if senderKey == "" {
		return RateLimitResult{Allowed: true}, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := fmt.Sprintf("%s:transfer_create:%s", r.prefix, senderKey)
	values, err := allowTransferScript.Run(ctx, r.client, []string{key}, limit, windowMs).Int64Slice()
	if err != nil {
		return RateLimitResult{}, err
	}
	if len(values) != 3 {
		return RateLimitResult{}, fmt.Errorf("redis limiter returned %d values, want 3", len(values))
	}

	result := RateLimitResult{
		Allowed: values[0] == 1,
		Count:   int(values[1]),
	}
	if !result.Allowed {
		retryMs := values[2]
		if retryMs < 1000 {
			retryMs = 1000
		}
		result.RetryAfter = time.Duration((retryMs+999)/1000) * time.Second
	}
	return result, nil
}
