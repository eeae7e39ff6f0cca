package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlaythroughRepository = (*pgPlaythroughRepository)(nil)

type pgPlaythroughRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlaythroughRepository creates a new postgres-backed
// PlaythroughRepository.
func NewPgPlaythroughRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.PlaythroughRepository {
	return &pgPlaythroughRepository{
		pool:   pool,
		logger: logger.Named("PgPlaythroughRepo"),
	}
}

const (
	createPlaythroughQuery = `
INSERT INTO playthroughs (user_id, story_id, ending_page_id, ending_label, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	countPlaythroughsByStoryQuery = `SELECT COUNT(*) FROM playthroughs WHERE story_id = $1`

	endingBreakdownQuery = `
SELECT ending_label, COUNT(*) AS count
FROM playthroughs
WHERE story_id = $1
GROUP BY ending_label
ORDER BY count DESC, ending_label`

	totalPlaythroughsQuery = `SELECT COUNT(*) FROM playthroughs`

	pruneUnpublishedQuery = `
DELETE FROM playthroughs p
USING stories s
WHERE p.story_id = s.id AND s.status <> 'published'`
)

// Create appends one immutable playthrough record.
func (r *pgPlaythroughRepository) Create(ctx context.Context, pt *models.Playthrough) error {
	logFields := []zap.Field{
		zap.Int64("storyID", pt.StoryID),
		zap.Int64("endingPageID", pt.EndingPageID),
		zap.String("endingLabel", pt.EndingLabel),
	}
	r.logger.Debug("Recording playthrough", logFields...)

	pt.CreatedAt = time.Now().UTC()
	err := r.pool.QueryRow(ctx, createPlaythroughQuery,
		pt.UserID,
		pt.StoryID,
		pt.EndingPageID,
		pt.EndingLabel,
		pt.CreatedAt,
	).Scan(&pt.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolationCode {
			r.logger.Warn("Story not found for playthrough", logFields...)
			return models.ErrNotFound
		}
		r.logger.Error("Failed to record playthrough", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to record playthrough: %w", err)
	}

	r.logger.Info("Playthrough recorded", append(logFields, zap.Int64("playthroughID", pt.ID))...)
	return nil
}

// CountByStory returns the number of playthroughs recorded for a story.
func (r *pgPlaythroughRepository) CountByStory(ctx context.Context, storyID int64) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, countPlaythroughsByStoryQuery, storyID).Scan(&count); err != nil {
		r.logger.Error("Failed to count playthroughs", zap.Int64("storyID", storyID), zap.Error(err))
		return 0, fmt.Errorf("failed to count playthroughs for story %d: %w", storyID, err)
	}
	return count, nil
}

// EndingBreakdown returns per-label playthrough counts for a story.
func (r *pgPlaythroughRepository) EndingBreakdown(ctx context.Context, storyID int64) ([]models.EndingCount, error) {
	var breakdown []models.EndingCount
	if err := pgxscan.Select(ctx, r.pool, &breakdown, endingBreakdownQuery, storyID); err != nil {
		r.logger.Error("Failed to load ending breakdown", zap.Int64("storyID", storyID), zap.Error(err))
		return nil, fmt.Errorf("failed to load ending breakdown for story %d: %w", storyID, err)
	}
	if breakdown == nil {
		breakdown = []models.EndingCount{}
	}
	return breakdown, nil
}

// TotalCount returns the number of playthroughs across all stories.
func (r *pgPlaythroughRepository) TotalCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, totalPlaythroughsQuery).Scan(&count); err != nil {
		r.logger.Error("Failed to count all playthroughs", zap.Error(err))
		return 0, fmt.Errorf("failed to count playthroughs: %w", err)
	}
	return count, nil
}

// PruneUnpublished drops playthroughs for stories that are not
// currently published. Records for deleted stories are already gone via
// the schema cascade.
func (r *pgPlaythroughRepository) PruneUnpublished(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, pruneUnpublishedQuery)
	if err != nil {
		r.logger.Error("Failed to prune playthroughs", zap.Error(err))
		return 0, fmt.Errorf("failed to prune playthroughs: %w", err)
	}

	removed := tag.RowsAffected()
	r.logger.Info("Pruned playthroughs of unpublished stories", zap.Int64("removed", removed))
	return removed, nil
}
