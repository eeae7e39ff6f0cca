package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.CatalogService = (*catalogService)(nil)

type catalogService struct {
	stories interfaces.StoryRepository
	pages   interfaces.PageRepository
	logger  *zap.Logger
}

// NewCatalogService creates the read-side content service.
func NewCatalogService(
	stories interfaces.StoryRepository,
	pages interfaces.PageRepository,
	logger *zap.Logger,
) interfaces.CatalogService {
	return &catalogService{
		stories: stories,
		pages:   pages,
		logger:  logger.Named("CatalogService"),
	}
}

func (s *catalogService) ListPublished(ctx context.Context) ([]models.Story, error) {
	status := models.StatusPublished
	return s.stories.List(ctx, &status)
}

func (s *catalogService) ListAll(ctx context.Context, status *models.StoryStatus) ([]models.Story, error) {
	return s.stories.List(ctx, status)
}

func (s *catalogService) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	return s.stories.GetByID(ctx, id)
}

// GetStartPage resolves a story's entry point. A story without pages
// has no start page and reports not found.
func (s *catalogService) GetStartPage(ctx context.Context, storyID int64) (*models.Page, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.StartPageID == nil {
		s.logger.Debug("Story has no start page", zap.Int64("storyID", storyID))
		return nil, models.ErrNotFound
	}
	return s.pages.GetByID(ctx, *story.StartPageID)
}

func (s *catalogService) GetPage(ctx context.Context, id int64) (*models.Page, error) {
	return s.pages.GetByID(ctx, id)
}

// ListStoryPages projects the story's pages onto 1-based sequence
// numbers in creation order. A choice whose target is outside the
// story (another story's page, or a dangling reference) renders the
// "?" sequence.
func (s *catalogService) ListStoryPages(ctx context.Context, storyID int64) ([]models.SequencedPage, error) {
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return nil, err
	}

	pages, err := s.pages.ListByStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	sequenceOf := make(map[int64]int, len(pages))
	for i, page := range pages {
		sequenceOf[page.ID] = i + 1
	}

	out := make([]models.SequencedPage, 0, len(pages))
	for i, page := range pages {
		sp := models.SequencedPage{
			ID:          page.ID,
			Sequence:    i + 1,
			Text:        page.Text,
			IsEnding:    page.IsEnding,
			EndingLabel: page.EndingLabel,
			Choices:     make([]models.SequencedChoice, 0, len(page.Choices)),
		}
		for _, choice := range page.Choices {
			nextSeq := models.UnknownSequence
			if seq, ok := sequenceOf[choice.NextPageID]; ok {
				nextSeq = strconv.Itoa(seq)
			}
			sp.Choices = append(sp.Choices, models.SequencedChoice{
				ID:               choice.ID,
				Text:             choice.Text,
				NextPageID:       choice.NextPageID,
				NextPageSequence: nextSeq,
			})
		}
		out = append(out, sp)
	}

	return out, nil
}
