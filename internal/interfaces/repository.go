package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fable-server/internal/models"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so a
// repository method can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoryRepository owns persisted stories. Delete cascades to the
// story's pages and their choices (schema-level), but never to choices
// elsewhere that target the deleted pages.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	// List returns stories filtered by status; a nil filter returns all.
	List(ctx context.Context, status *models.StoryStatus) ([]models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id int64) error
}

// AddPageResult reports the side effects of an atomic page insertion.
type AddPageResult struct {
	// StartAssigned is true when the new page became the story's start page.
	StartAssigned bool
	// AutoLinkedFrom holds the id of the previous page that received a
	// "Continue" choice pointing at the new page, if any.
	AutoLinkedFrom *int64
}

// PageRepository owns persisted pages and their choice sets.
type PageRepository interface {
	// Add inserts the page and, in the same transaction, assigns the
	// story's start page if unset and auto-links the most recent
	// non-ending zero-choice predecessor with a "Continue" choice.
	Add(ctx context.Context, page *models.Page) (*AddPageResult, error)
	// GetByID returns the page with its choices populated.
	GetByID(ctx context.Context, id int64) (*models.Page, error)
	// ListByStory returns the story's pages in creation order, choices
	// populated.
	ListByStory(ctx context.Context, storyID int64) ([]models.Page, error)
	// Delete removes the page and, in the same transaction, repoints the
	// owning story's start page to the lowest remaining page id (or
	// NULL) when the start page is the one being deleted.
	Delete(ctx context.Context, id int64) error
}

// ChoiceRepository owns persisted choices.
type ChoiceRepository interface {
	Create(ctx context.Context, choice *models.Choice) error
	Delete(ctx context.Context, id int64) error
}

// PlaythroughRepository owns the immutable play-history log.
type PlaythroughRepository interface {
	Create(ctx context.Context, pt *models.Playthrough) error
	CountByStory(ctx context.Context, storyID int64) (int64, error)
	EndingBreakdown(ctx context.Context, storyID int64) ([]models.EndingCount, error)
	TotalCount(ctx context.Context) (int64, error)
	// PruneUnpublished drops playthroughs whose story is no longer in
	// the published status. Returns the number of rows removed.
	PruneUnpublished(ctx context.Context) (int64, error)
}

// SessionRepository stores per-reader resume points.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*models.ResumePoint, error)
	Set(ctx context.Context, sessionID string, rp models.ResumePoint) error
	Clear(ctx context.Context, sessionID string) error
}
