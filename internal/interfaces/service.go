package interfaces

import (
	"context"

	"fable-server/internal/models"
)

// CreateStoryInput carries the author-supplied fields of a new story.
type CreateStoryInput struct {
	Title       string
	Description string
	AuthorID    *string
}

// UpdateStoryInput is a patch: nil fields are left untouched.
type UpdateStoryInput struct {
	Title       *string
	Description *string
	Status      *string
}

// AddPageInput carries the author-supplied fields of a new page.
type AddPageInput struct {
	Text        string
	IsEnding    bool
	EndingLabel *string
}

// AddChoiceInput carries the author-supplied fields of a new choice.
type AddChoiceInput struct {
	Text       string
	NextPageID int64
}

// AuthoringService implements the incremental story construction
// protocol: story CRUD, page appends with the auto-link heuristic, and
// explicit choice wiring.
type AuthoringService interface {
	CreateStory(ctx context.Context, in CreateStoryInput) (*models.Story, error)
	UpdateStory(ctx context.Context, id int64, in UpdateStoryInput) (*models.Story, error)
	DeleteStory(ctx context.Context, id int64) error
	AddPage(ctx context.Context, storyID int64, in AddPageInput) (*models.Page, *AddPageResult, error)
	AddChoice(ctx context.Context, pageID int64, in AddChoiceInput) (*models.Choice, error)
	DeletePage(ctx context.Context, id int64) error
	DeleteChoice(ctx context.Context, id int64) error
}

// CatalogService serves the read side of the content API.
type CatalogService interface {
	// ListPublished returns only stories visible to readers.
	ListPublished(ctx context.Context) ([]models.Story, error)
	// ListAll returns stories of every status, optionally filtered.
	// Exposed on the internal surface only.
	ListAll(ctx context.Context, status *models.StoryStatus) ([]models.Story, error)
	GetStory(ctx context.Context, id int64) (*models.Story, error)
	GetStartPage(ctx context.Context, storyID int64) (*models.Page, error)
	GetPage(ctx context.Context, id int64) (*models.Page, error)
	// ListStoryPages returns the story's pages with their 1-based
	// sequence projection.
	ListStoryPages(ctx context.Context, storyID int64) ([]models.SequencedPage, error)
}

// PlayService drives the reader's session state machine.
type PlayService interface {
	// Start begins a playthrough at the story's start page. Suspended
	// stories refuse with models.ErrStorySuspended and leave the
	// session untouched.
	Start(ctx context.Context, sessionID string, storyID int64, userID *string) (*models.PlayState, error)
	// Resume re-enters the graph at an arbitrary page (deep link). No
	// suspension check: only Start gatekeeps.
	Resume(ctx context.Context, sessionID string, pageID int64, userID *string) (*models.PlayState, error)
	// Choose follows a choice from the session's current page. A target
	// that does not resolve is a no-op returning the current state.
	Choose(ctx context.Context, sessionID string, nextPageID int64, userID *string) (*models.PlayState, error)
	// Session reports where the reader currently stands, or
	// models.ErrNoActiveSession.
	Session(ctx context.Context, sessionID string) (*models.PlayState, error)
}

// StatsService aggregates the playthrough log.
type StatsService interface {
	StoryStats(ctx context.Context, storyID int64) (*models.StoryStats, error)
	Overview(ctx context.Context) (*models.StatsOverview, error)
	// PrunePlaythroughs removes records of stories that left the
	// published status. Returns the number of rows removed.
	PrunePlaythroughs(ctx context.Context) (int64, error)
}
