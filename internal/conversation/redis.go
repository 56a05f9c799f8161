package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisHistory.
type RedisConfig struct {
	Key         string        // list key holding the session's messages
	MaxMessages int64         // 0 keeps everything
	TTL         time.Duration // expiry refreshed on every append; 0 disables
}

// RedisHistory stores messages as JSON entries of a Redis list so the
// conversation survives restarts.
type RedisHistory struct {
	client *redis.Client
	config RedisConfig
}

// NewRedisHistory wraps an existing client.
func NewRedisHistory(client *redis.Client, config RedisConfig) *RedisHistory {
	if config.Key == "" {
		config.Key = "voicevedic:conversation"
	}
	return &RedisHistory{client: client, config: config}
}

// Append pushes msg onto the list.
func (h *RedisHistory) Append(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pipe := h.client.TxPipeline()
	pipe.RPush(ctx, h.config.Key, data)
	if h.config.MaxMessages > 0 {
		pipe.LTrim(ctx, h.config.Key, -h.config.MaxMessages, -1)
	}
	if h.config.TTL > 0 {
		pipe.Expire(ctx, h.config.Key, h.config.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Messages reads the whole list, oldest first.
func (h *RedisHistory) Messages(ctx context.Context) ([]Message, error) {
	raw, err := h.client.LRange(ctx, h.config.Key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, entry := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Clear deletes the list.
func (h *RedisHistory) Clear(ctx context.Context) error {
	if err := h.client.Del(ctx, h.config.Key).Err(); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}
