package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgStoryRepository creates a new postgres-backed StoryRepository.
func NewPgStoryRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		pool:   pool,
		logger: logger.Named("PgStoryRepo"),
	}
}

const storyFields = `id, title, description, status, start_page_id, author_id, created_at, updated_at`

const (
	createStoryQuery = `
INSERT INTO stories (title, description, status, author_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING id`

	getStoryByIDQuery = `SELECT ` + storyFields + ` FROM stories WHERE id = $1`

	listStoriesQuery         = `SELECT ` + storyFields + ` FROM stories ORDER BY id`
	listStoriesByStatusQuery = `SELECT ` + storyFields + ` FROM stories WHERE status = $1 ORDER BY id`

	updateStoryQuery = `
UPDATE stories SET
    title = $2,
    description = $3,
    status = $4,
    updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	deleteStoryQuery = `DELETE FROM stories WHERE id = $1`
)

// Create inserts a new story and fills in its generated id.
func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	logFields := []zap.Field{
		zap.String("title", story.Title),
		zap.String("status", string(story.Status)),
	}
	r.logger.Debug("Creating new story", logFields...)

	err := r.pool.QueryRow(ctx, createStoryQuery,
		story.Title,
		story.Description,
		story.Status,
		story.AuthorID,
		story.CreatedAt,
	).Scan(&story.ID)
	if err != nil {
		r.logger.Error("Failed to create story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create story: %w", err)
	}

	r.logger.Info("Story created successfully", append(logFields, zap.Int64("storyID", story.ID))...)
	return nil
}

// GetByID retrieves a story by its id.
func (r *pgStoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	logFields := []zap.Field{zap.Int64("storyID", id)}
	r.logger.Debug("Getting story by ID", logFields...)

	var story models.Story
	err := pgxscan.Get(ctx, r.pool, &story, getStoryByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Story not found by ID", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get story %d: %w", id, err)
	}

	return &story, nil
}

// List returns stories in creation order, optionally filtered by status.
func (r *pgStoryRepository) List(ctx context.Context, status *models.StoryStatus) ([]models.Story, error) {
	var (
		stories []models.Story
		err     error
	)
	if status != nil {
		err = pgxscan.Select(ctx, r.pool, &stories, listStoriesByStatusQuery, *status)
	} else {
		err = pgxscan.Select(ctx, r.pool, &stories, listStoriesQuery)
	}
	if err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	r.logger.Debug("Stories listed", zap.Int("count", len(stories)))
	return stories, nil
}

// Update writes the author-editable fields (title, description, status).
// The start page pointer is owned by the page repository and changes
// only inside its transactions.
func (r *pgStoryRepository) Update(ctx context.Context, story *models.Story) error {
	logFields := []zap.Field{zap.Int64("storyID", story.ID)}
	r.logger.Debug("Updating story", logFields...)

	var updatedAt time.Time
	err := r.pool.QueryRow(ctx, updateStoryQuery,
		story.ID,
		story.Title,
		story.Description,
		story.Status,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Story not found for update", logFields...)
			return models.ErrNotFound
		}
		r.logger.Error("Failed to update story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update story %d: %w", story.ID, err)
	}

	story.UpdatedAt = updatedAt
	r.logger.Info("Story updated successfully", logFields...)
	return nil
}

// Delete removes the story; its pages and their choices go with it via
// the schema cascade. Choices of other stories that target the deleted
// pages are left dangling on purpose.
func (r *pgStoryRepository) Delete(ctx context.Context, id int64) error {
	logFields := []zap.Field{zap.Int64("storyID", id)}
	r.logger.Debug("Deleting story", logFields...)

	tag, err := r.pool.Exec(ctx, deleteStoryQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to delete story %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for deletion", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Story deleted successfully", logFields...)
	return nil
}
