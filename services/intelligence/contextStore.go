package ai

import (
	"context"
	"encoding/json"
	"time"

	"slotify/models"

	"github.com/go-redis/redis/v8"
)

const assistantContextPrefix = "assistant:ctx:"

// RedisContextStore keeps per-user conversation state between assistant
// turns: the intent awaiting a slot choice and the slots offered.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, userID string) (*models.AssistantContext, error) {
	key := assistantContextPrefix + userID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.AssistantContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var assistantCtx models.AssistantContext
	if err := json.Unmarshal([]byte(data), &assistantCtx); err != nil {
		return nil, err
	}
	return &assistantCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, userID string, assistantCtx *models.AssistantContext) error {
	key := assistantContextPrefix + userID
	b, err := json.Marshal(assistantCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	key := assistantContextPrefix + userID
	return s.client.Del(ctx, key).Err()
}
