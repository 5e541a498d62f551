package identity

import (
	"context"
	"net/url"

	"github.com/redis/go-redis/v9"
)

// RedisResolver resolves credentials against token mappings stored in Redis
// under key "token:<credential>". The login flow that writes those mappings
// is external to this service.
type RedisResolver struct {
	client *redis.Client
	prefix string
}

// NewRedisResolver creates a Redis-backed resolver. Prefix may be empty.
func NewRedisResolver(client *redis.Client, prefix string) *RedisResolver {
	if prefix == "" {
		prefix = "token:"
	}
	return &RedisResolver{client: client, prefix: prefix}
}

func (r *RedisResolver) Resolve(ctx context.Context, credential string) (string, error) {
	// cookies arrive URL-encoded
	if dec, err := url.QueryUnescape(credential); err == nil {
		credential = dec
	}
	name, err := r.client.Get(ctx, r.prefix+credential).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return name, nil
}
