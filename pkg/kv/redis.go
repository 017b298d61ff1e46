package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores one string value per user under "<prefix>:user:<id>".
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(url string, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{
		client: client,
		prefix: prefix,
	}, nil
}

func (r *Redis) Key(parts ...string) string {
	if r.prefix == "" {
		return strings.Join(parts, ":")
	}
	return r.prefix + ":" + strings.Join(parts, ":")
}

func (r *Redis) Get(ctx context.Context, id string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.Key("user", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put writes without expiry; records are never evicted.
func (r *Redis) Put(ctx context.Context, id string, data []byte) error {
	return r.client.Set(ctx, r.Key("user", id), data, 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
