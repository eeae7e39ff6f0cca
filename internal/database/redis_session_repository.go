package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.SessionRepository = (*redisSessionRepository)(nil)

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionRepository creates a redis-backed SessionRepository.
// Resume points expire after ttl of inactivity; every Set refreshes it.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) interfaces.SessionRepository {
	return &redisSessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisSessionRepo"),
	}
}

func sessionKey(sessionID string) string {
	return "play_session:" + sessionID
}

// Get returns the reader's resume point, or models.ErrNotFound when the
// session has no active playthrough.
func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*models.ResumePoint, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get resume point", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get resume point: %w", err)
	}

	var rp models.ResumePoint
	if err := json.Unmarshal(data, &rp); err != nil {
		r.logger.Error("Failed to decode resume point", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to decode resume point: %w", err)
	}
	return &rp, nil
}

// Set stores the reader's resume point and refreshes its TTL.
func (r *redisSessionRepository) Set(ctx context.Context, sessionID string, rp models.ResumePoint) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return fmt.Errorf("failed to encode resume point: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to set resume point",
			zap.String("sessionID", sessionID),
			zap.Int64("storyID", rp.StoryID),
			zap.Error(err))
		return fmt.Errorf("failed to set resume point: %w", err)
	}

	r.logger.Debug("Resume point saved",
		zap.String("sessionID", sessionID),
		zap.Int64("storyID", rp.StoryID),
		zap.Int64("pageID", rp.PageID))
	return nil
}

// Clear drops the resume point. Clearing an absent session is a no-op.
func (r *redisSessionRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		r.logger.Error("Failed to clear resume point", zap.String("sessionID", sessionID), zap.Error(err))
		return fmt.Errorf("failed to clear resume point: %w", err)
	}
	return nil
}
