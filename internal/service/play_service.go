package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlayService = (*playService)(nil)

type playService struct {
	stories      interfaces.StoryRepository
	pages        interfaces.PageRepository
	playthroughs interfaces.PlaythroughRepository
	sessions     interfaces.SessionRepository
	logger       *zap.Logger
}

// NewPlayService creates the session state machine service.
func NewPlayService(
	stories interfaces.StoryRepository,
	pages interfaces.PageRepository,
	playthroughs interfaces.PlaythroughRepository,
	sessions interfaces.SessionRepository,
	logger *zap.Logger,
) interfaces.PlayService {
	return &playService{
		stories:      stories,
		pages:        pages,
		playthroughs: playthroughs,
		sessions:     sessions,
		logger:       logger.Named("PlayService"),
	}
}

// Start begins a playthrough at the story's start page. A suspended
// story refuses without touching the session; a story without a start
// page is not found. Suspension is checked here and nowhere else: a
// reader already inside the graph keeps playing.
func (s *playService) Start(ctx context.Context, sessionID string, storyID int64, userID *string) (*models.PlayState, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.Status == models.StatusSuspended {
		s.logger.Info("Refused start of suspended story",
			zap.Int64("storyID", storyID),
			zap.String("sessionID", sessionID))
		return nil, models.ErrStorySuspended
	}
	if story.StartPageID == nil {
		return nil, models.ErrNotFound
	}

	page, err := s.pages.GetByID(ctx, *story.StartPageID)
	if err != nil {
		return nil, err
	}

	return s.arrive(ctx, sessionID, story, page, userID)
}

// Resume re-enters the graph at an arbitrary page. The owning story's
// status is not checked.
func (s *playService) Resume(ctx context.Context, sessionID string, pageID int64, userID *string) (*models.PlayState, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	story, err := s.stories.GetByID(ctx, page.StoryID)
	if err != nil {
		return nil, err
	}

	return s.arrive(ctx, sessionID, story, page, userID)
}

// Choose follows a choice from the session's current page. A target
// that does not resolve (deleted, never existed) is a silent no-op:
// the reader stays put and nothing is recorded.
func (s *playService) Choose(ctx context.Context, sessionID string, nextPageID int64, userID *string) (*models.PlayState, error) {
	rp, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoActiveSession
		}
		return nil, err
	}

	next, err := s.pages.GetByID(ctx, nextPageID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("Choice target did not resolve, staying put",
				zap.String("sessionID", sessionID),
				zap.Int64("nextPageID", nextPageID))
			return s.stateAt(ctx, rp)
		}
		return nil, err
	}

	// Cross-story choices move the session into the target's story.
	story, err := s.stories.GetByID(ctx, next.StoryID)
	if err != nil {
		return nil, err
	}

	return s.arrive(ctx, sessionID, story, next, userID)
}

// Session reports where the reader currently stands. A resume point
// whose page has since been deleted is cleared and reported as no
// active session.
func (s *playService) Session(ctx context.Context, sessionID string) (*models.PlayState, error) {
	rp, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoActiveSession
		}
		return nil, err
	}

	state, err := s.stateAt(ctx, rp)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if clearErr := s.sessions.Clear(ctx, sessionID); clearErr != nil {
				s.logger.Warn("Failed to clear stale session",
					zap.String("sessionID", sessionID), zap.Error(clearErr))
			}
			return nil, models.ErrNoActiveSession
		}
		return nil, err
	}
	return state, nil
}

// arrive lands the reader on a page. Reaching an ending page records
// exactly one playthrough and closes the session; any other page just
// advances the resume point.
func (s *playService) arrive(ctx context.Context, sessionID string, story *models.Story, page *models.Page, userID *string) (*models.PlayState, error) {
	if page.IsEnding {
		label := models.UnknownEndingLabel
		if page.EndingLabel != nil && *page.EndingLabel != "" {
			label = *page.EndingLabel
		}
		pt := &models.Playthrough{
			UserID:       userID,
			StoryID:      page.StoryID,
			EndingPageID: page.ID,
			EndingLabel:  label,
		}
		if err := s.playthroughs.Create(ctx, pt); err != nil {
			return nil, err
		}
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			return nil, err
		}

		s.logger.Info("Playthrough ended",
			zap.String("sessionID", sessionID),
			zap.Int64("storyID", page.StoryID),
			zap.String("endingLabel", label))
		return &models.PlayState{Story: story, Page: page, Ended: true, Playthrough: pt}, nil
	}

	rp := models.ResumePoint{StoryID: page.StoryID, PageID: page.ID}
	if err := s.sessions.Set(ctx, sessionID, rp); err != nil {
		return nil, err
	}

	return &models.PlayState{Story: story, Page: page}, nil
}

// stateAt rebuilds the play state from a stored resume point.
func (s *playService) stateAt(ctx context.Context, rp *models.ResumePoint) (*models.PlayState, error) {
	page, err := s.pages.GetByID(ctx, rp.PageID)
	if err != nil {
		return nil, err
	}
	story, err := s.stories.GetByID(ctx, rp.StoryID)
	if err != nil {
		return nil, err
	}
	return &models.PlayState{Story: story, Page: page}, nil
}
