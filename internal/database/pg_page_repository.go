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
var _ interfaces.PageRepository = (*pgPageRepository)(nil)

type pgPageRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPageRepository creates a new postgres-backed PageRepository.
func NewPgPageRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.PageRepository {
	return &pgPageRepository{
		pool:   pool,
		logger: logger.Named("PgPageRepo"),
	}
}

const pageFields = `id, story_id, text, is_ending, ending_label, created_at`

const (
	lockStoryForPageWriteQuery = `SELECT start_page_id FROM stories WHERE id = $1 FOR UPDATE`

	insertPageQuery = `
INSERT INTO pages (story_id, text, is_ending, ending_label, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	assignStartPageQuery = `UPDATE stories SET start_page_id = $2, updated_at = NOW() WHERE id = $1`

	previousPageQuery = `
SELECT id, is_ending FROM pages
WHERE story_id = $1 AND id <> $2
ORDER BY id DESC
LIMIT 1`

	// The NOT EXISTS guard keeps the auto-link at most one choice per
	// predecessor even when two add-page calls race on the same story.
	autoLinkChoiceQuery = `
INSERT INTO choices (page_id, text, next_page_id)
SELECT $1, $2, $3
WHERE NOT EXISTS (SELECT 1 FROM choices WHERE page_id = $1)`

	getPageByIDQuery    = `SELECT ` + pageFields + ` FROM pages WHERE id = $1`
	listPagesQuery      = `SELECT ` + pageFields + ` FROM pages WHERE story_id = $1 ORDER BY id`
	pageStoryQuery      = `SELECT story_id FROM pages WHERE id = $1`
	lowestSiblingQuery  = `SELECT MIN(id) FROM pages WHERE story_id = $1 AND id <> $2`
	deletePageQuery     = `DELETE FROM pages WHERE id = $1`
	choicesByPageQuery  = `SELECT id, page_id, text, next_page_id, created_at FROM choices WHERE page_id = $1 ORDER BY id`
	choicesByPagesQuery = `SELECT id, page_id, text, next_page_id, created_at FROM choices WHERE page_id = ANY($1) ORDER BY id`
)

// Add inserts the page and performs the whole add-page protocol in one
// transaction: start-page assignment for the story's first page and the
// "Continue" auto-link onto the most recent non-ending predecessor that
// still has no outgoing choices. The story row is locked first so
// concurrent add-page calls for the same story serialize.
func (r *pgPageRepository) Add(ctx context.Context, page *models.Page) (*interfaces.AddPageResult, error) {
	logFields := []zap.Field{zap.Int64("storyID", page.StoryID), zap.Bool("isEnding", page.IsEnding)}
	r.logger.Debug("Adding page", logFields...)

	page.CreatedAt = time.Now().UTC()
	result := &interfaces.AddPageResult{}

	err := withTransaction(ctx, r.pool, r.logger, func(ctx context.Context, tx interfaces.DBTX) error {
		var startPageID *int64
		if err := tx.QueryRow(ctx, lockStoryForPageWriteQuery, page.StoryID).Scan(&startPageID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to lock story %d: %w", page.StoryID, err)
		}

		err := tx.QueryRow(ctx, insertPageQuery,
			page.StoryID,
			page.Text,
			page.IsEnding,
			page.EndingLabel,
			page.CreatedAt,
		).Scan(&page.ID)
		if err != nil {
			return fmt.Errorf("failed to insert page: %w", err)
		}

		if startPageID == nil {
			if _, err := tx.Exec(ctx, assignStartPageQuery, page.StoryID, page.ID); err != nil {
				return fmt.Errorf("failed to assign start page: %w", err)
			}
			result.StartAssigned = true
		}

		var (
			prevID       int64
			prevIsEnding bool
		)
		err = tx.QueryRow(ctx, previousPageQuery, page.StoryID, page.ID).Scan(&prevID, &prevIsEnding)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // first page, nothing to link from
		}
		if err != nil {
			return fmt.Errorf("failed to look up previous page: %w", err)
		}
		if prevIsEnding {
			return nil
		}

		tag, err := tx.Exec(ctx, autoLinkChoiceQuery, prevID, models.AutoLinkLabel, page.ID)
		if err != nil {
			return fmt.Errorf("failed to auto-link page %d: %w", prevID, err)
		}
		if tag.RowsAffected() > 0 {
			result.AutoLinkedFrom = &prevID
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			r.logger.Error("Failed to add page", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	logFields = append(logFields,
		zap.Int64("pageID", page.ID),
		zap.Bool("startAssigned", result.StartAssigned),
	)
	if result.AutoLinkedFrom != nil {
		logFields = append(logFields, zap.Int64("autoLinkedFrom", *result.AutoLinkedFrom))
	}
	r.logger.Info("Page added", logFields...)
	return result, nil
}

// GetByID retrieves a page with its choices in insertion order.
func (r *pgPageRepository) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	var page models.Page
	err := pgxscan.Get(ctx, r.pool, &page, getPageByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Page not found", zap.Int64("pageID", id))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get page", zap.Int64("pageID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get page %d: %w", id, err)
	}

	if err := pgxscan.Select(ctx, r.pool, &page.Choices, choicesByPageQuery, id); err != nil {
		r.logger.Error("Failed to load page choices", zap.Int64("pageID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load choices for page %d: %w", id, err)
	}
	if page.Choices == nil {
		page.Choices = []models.Choice{}
	}
	return &page, nil
}

// ListByStory returns the story's pages in creation order with their
// choices populated.
func (r *pgPageRepository) ListByStory(ctx context.Context, storyID int64) ([]models.Page, error) {
	var pages []models.Page
	if err := pgxscan.Select(ctx, r.pool, &pages, listPagesQuery, storyID); err != nil {
		r.logger.Error("Failed to list pages", zap.Int64("storyID", storyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list pages for story %d: %w", storyID, err)
	}
	if len(pages) == 0 {
		return []models.Page{}, nil
	}

	ids := make([]int64, len(pages))
	index := make(map[int64]*models.Page, len(pages))
	for i := range pages {
		pages[i].Choices = []models.Choice{}
		ids[i] = pages[i].ID
		index[pages[i].ID] = &pages[i]
	}

	var choices []models.Choice
	if err := pgxscan.Select(ctx, r.pool, &choices, choicesByPagesQuery, ids); err != nil {
		r.logger.Error("Failed to list choices", zap.Int64("storyID", storyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list choices for story %d: %w", storyID, err)
	}
	for _, choice := range choices {
		if page, ok := index[choice.PageID]; ok {
			page.Choices = append(page.Choices, choice)
		}
	}

	return pages, nil
}

// Delete removes a page. When the page is its story's start page, the
// pointer is repointed to the lowest remaining page id (NULL when the
// story has no pages left) inside the same transaction, so the story is
// never observed pointing at a missing page.
func (r *pgPageRepository) Delete(ctx context.Context, id int64) error {
	logFields := []zap.Field{zap.Int64("pageID", id)}
	r.logger.Debug("Deleting page", logFields...)

	err := withTransaction(ctx, r.pool, r.logger, func(ctx context.Context, tx interfaces.DBTX) error {
		var storyID int64
		if err := tx.QueryRow(ctx, pageStoryQuery, id).Scan(&storyID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to resolve page %d: %w", id, err)
		}

		var startPageID *int64
		if err := tx.QueryRow(ctx, lockStoryForPageWriteQuery, storyID).Scan(&startPageID); err != nil {
			return fmt.Errorf("failed to lock story %d: %w", storyID, err)
		}

		if startPageID != nil && *startPageID == id {
			var nextStart *int64
			if err := tx.QueryRow(ctx, lowestSiblingQuery, storyID, id).Scan(&nextStart); err != nil {
				return fmt.Errorf("failed to find replacement start page: %w", err)
			}
			if _, err := tx.Exec(ctx, assignStartPageQuery, storyID, nextStart); err != nil {
				return fmt.Errorf("failed to repoint start page: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, deletePageQuery, id); err != nil {
			return fmt.Errorf("failed to delete page %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Page not found for deletion", logFields...)
		} else {
			r.logger.Error("Failed to delete page", append(logFields, zap.Error(err))...)
		}
		return err
	}

	r.logger.Info("Page deleted", logFields...)
	return nil
}
