package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisRepository stores each session cart as a JSON array under cart:<session>.
// Every save refreshes the TTL so active carts do not expire.
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisRepository creates a Redis-backed cart repository.
func NewRedisRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Repository {
	return &redisRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "cart-redis").Logger(),
	}
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) (*Store, error) {
	data, err := r.client.Get(ctx, cacheKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewStore(), nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to decode cart")
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return NewStore(lines...), nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, store *Store) error {
	lines := store.Lines()
	if len(lines) == 0 {
		return r.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(sessionID), data, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save cart")
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cacheKey(sessionID)).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete cart")
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
