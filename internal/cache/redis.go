// Package cache keeps import previews in Redis so a preview survives a
// restart and can be committed through any server instance.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/martyvasquez/lineupai-sub000/internal/core"
)

const previewKeyPrefix = "lineup:preview:"

// NewRedisClient connects to redisURL and pings it with a 5s timeout.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RedisPreviewStore implements core.PreviewStore. Each preview is one JSON
// value whose Redis TTL matches the preview lifetime.
type RedisPreviewStore struct {
	client *redis.Client
}

var _ core.PreviewStore = (*RedisPreviewStore)(nil)

// NewRedisPreviewStore returns a preview store on client.
func NewRedisPreviewStore(client *redis.Client) *RedisPreviewStore {
	return &RedisPreviewStore{client: client}
}

// HealthCheck pings Redis to verify the connection.
func (s *RedisPreviewStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func previewKey(id string) string {
	return previewKeyPrefix + id
}

func (s *RedisPreviewStore) Save(ctx context.Context, p *core.ImportPreview, ttl time.Duration) error {
	data, err := encodePreview(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, previewKey(p.ID), data, ttl).Err()
}

func (s *RedisPreviewStore) Get(ctx context.Context, id string) (*core.ImportPreview, error) {
	data, err := s.client.Get(ctx, previewKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrPreviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preview: %w", err)
	}
	return decodePreview(data)
}

// Take uses GETDEL, so it needs Redis 6.2 or later.
func (s *RedisPreviewStore) Take(ctx context.Context, id string) (*core.ImportPreview, error) {
	data, err := s.client.GetDel(ctx, previewKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrPreviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take preview: %w", err)
	}
	return decodePreview(data)
}

func (s *RedisPreviewStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, previewKey(id)).Err()
}

func encodePreview(p *core.ImportPreview) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return data, nil
}

func decodePreview(data []byte) (*core.ImportPreview, error) {
	var p core.ImportPreview
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return &p, nil
}
