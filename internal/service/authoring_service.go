package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.AuthoringService = (*authoringService)(nil)

type authoringService struct {
	stories interfaces.StoryRepository
	pages   interfaces.PageRepository
	choices interfaces.ChoiceRepository
	logger  *zap.Logger
}

// NewAuthoringService creates the story construction service.
func NewAuthoringService(
	stories interfaces.StoryRepository,
	pages interfaces.PageRepository,
	choices interfaces.ChoiceRepository,
	logger *zap.Logger,
) interfaces.AuthoringService {
	return &authoringService{
		stories: stories,
		pages:   pages,
		choices: choices,
		logger:  logger.Named("AuthoringService"),
	}
}

// CreateStory registers a new story in draft status with no pages.
func (s *authoringService) CreateStory(ctx context.Context, in interfaces.CreateStoryInput) (*models.Story, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if len(title) > models.MaxTitleLen {
		return nil, fmt.Errorf("%w: title exceeds %d characters", models.ErrValidation, models.MaxTitleLen)
	}
	if len(in.Description) > models.MaxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", models.ErrValidation, models.MaxDescriptionLen)
	}

	story := &models.Story{
		Title:       title,
		Description: in.Description,
		Status:      models.StatusDraft,
		AuthorID:    in.AuthorID,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info("Story created", zap.Int64("storyID", story.ID), zap.String("title", story.Title))
	return story, nil
}

// UpdateStory applies a partial update to title, description or status.
func (s *authoringService) UpdateStory(ctx context.Context, id int64, in interfaces.UpdateStoryInput) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", models.ErrValidation)
		}
		if len(title) > models.MaxTitleLen {
			return nil, fmt.Errorf("%w: title exceeds %d characters", models.ErrValidation, models.MaxTitleLen)
		}
		story.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > models.MaxDescriptionLen {
			return nil, fmt.Errorf("%w: description exceeds %d characters", models.ErrValidation, models.MaxDescriptionLen)
		}
		story.Description = *in.Description
	}
	if in.Status != nil {
		status := models.StoryStatus(*in.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, *in.Status)
		}
		story.Status = status
	}

	if err := s.stories.Update(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info("Story updated", zap.Int64("storyID", story.ID), zap.String("status", string(story.Status)))
	return story, nil
}

// DeleteStory removes the story with its pages and choices. Playthrough
// records of the story go with it.
func (s *authoringService) DeleteStory(ctx context.Context, id int64) error {
	return s.stories.Delete(ctx, id)
}

// AddPage appends a page to a story. The store handles start-page
// assignment and the "Continue" auto-link atomically; the returned
// result reports what happened.
func (s *authoringService) AddPage(ctx context.Context, storyID int64, in interfaces.AddPageInput) (*models.Page, *interfaces.AddPageResult, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, nil, fmt.Errorf("%w: page text is required", models.ErrValidation)
	}
	if len(text) > models.MaxPageTextLen {
		return nil, nil, fmt.Errorf("%w: page text exceeds %d characters", models.ErrValidation, models.MaxPageTextLen)
	}

	// An ending label only makes sense on an ending page.
	var endingLabel *string
	if in.IsEnding && in.EndingLabel != nil {
		label := strings.TrimSpace(*in.EndingLabel)
		if len(label) > models.MaxEndingLabelLen {
			return nil, nil, fmt.Errorf("%w: ending label exceeds %d characters", models.ErrValidation, models.MaxEndingLabelLen)
		}
		if label != "" {
			endingLabel = &label
		}
	}

	page := &models.Page{
		StoryID:     storyID,
		Text:        text,
		IsEnding:    in.IsEnding,
		EndingLabel: endingLabel,
		Choices:     []models.Choice{},
	}
	result, err := s.pages.Add(ctx, page)
	if err != nil {
		return nil, nil, err
	}

	return page, result, nil
}

// AddChoice wires an explicit choice from a page. The target may live
// in another story or not exist at all; only the source page is
// checked.
func (s *authoringService) AddChoice(ctx context.Context, pageID int64, in interfaces.AddChoiceInput) (*models.Choice, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: choice text is required", models.ErrValidation)
	}
	if len(text) > models.MaxChoiceTextLen {
		return nil, fmt.Errorf("%w: choice text exceeds %d characters", models.ErrValidation, models.MaxChoiceTextLen)
	}
	if in.NextPageID <= 0 {
		return nil, fmt.Errorf("%w: next_page_id is required", models.ErrValidation)
	}

	choice := &models.Choice{
		PageID:     pageID,
		Text:       text,
		NextPageID: in.NextPageID,
	}
	if err := s.choices.Create(ctx, choice); err != nil {
		return nil, err
	}

	return choice, nil
}

// DeletePage removes a page; start-page repointing happens inside the
// store transaction. Inbound choices elsewhere are left dangling.
func (s *authoringService) DeletePage(ctx context.Context, id int64) error {
	return s.pages.Delete(ctx, id)
}

// DeleteChoice removes a single choice.
func (s *authoringService) DeleteChoice(ctx context.Context, id int64) error {
	return s.choices.Delete(ctx, id)
}
