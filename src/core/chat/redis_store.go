package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisMemoryTTL = 7 * 24 * time.Hour

// RedisMemory keeps conversation history in Redis with a sliding TTL.
// Selected when REDIS_URL is set; suits multi-instance deployments where
// the sqlite transcript store cannot be shared.
type RedisMemory struct {
	client *redis.Client
}

// NewRedisMemory connects and pings the Redis named by the URL.
func NewRedisMemory(url string) (*RedisMemory, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisMemory{client: client}, nil
}

func memoryKey(sessionID string) string {
	return "ruby:memory:" + sessionID
}

func (m *RedisMemory) SaveMemory(sessionID string, dialogue []Message) error {
	data, err := json.Marshal(dialogue)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Set(ctx, memoryKey(sessionID), data, redisMemoryTTL).Err()
}

func (m *RedisMemory) QueryMemory(sessionID string, query string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := m.client.Get(ctx, memoryKey(sessionID)).Bytes()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var dialogue []Message
	if err := json.Unmarshal(data, &dialogue); err != nil {
		return "", err
	}

	lower := strings.ToLower(query)
	var b strings.Builder
	for _, msg := range dialogue {
		if msg.Role == "system" {
			continue
		}
		if query == "" || strings.Contains(strings.ToLower(msg.Content), lower) {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
	}
	if b.Len() == 0 {
		return "", nil
	}
	return "Earlier in this conversation:\n" + b.String(), nil
}

func (m *RedisMemory) ClearMemory(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Del(ctx, memoryKey(sessionID)).Err()
}

// Close releases the Redis connection.
func (m *RedisMemory) Close() error {
	return m.client.Close()
}
