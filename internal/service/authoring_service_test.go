package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/interfaces/mocks"
	"fable-server/internal/models"
)

func newAuthoringFixture() (*mocks.StoryRepository, *mocks.PageRepository, *mocks.ChoiceRepository, interfaces.AuthoringService) {
	stories := new(mocks.StoryRepository)
	pages := new(mocks.PageRepository)
	choices := new(mocks.ChoiceRepository)
	svc := NewAuthoringService(stories, pages, choices, zap.NewNop())
	return stories, pages, choices, svc
}

func TestCreateStory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates draft story", func(t *testing.T) {
		stories, _, _, svc := newAuthoringFixture()
		stories.On("Create", ctx, mock.AnythingOfType("*models.Story")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Story).ID = 42
		}).Return(nil)

		story, err := svc.CreateStory(ctx, interfaces.CreateStoryInput{
			Title:       "  The Forest  ",
			Description: "A walk in the woods",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(42), story.ID)
		assert.Equal(t, "The Forest", story.Title)
		assert.Equal(t, models.StatusDraft, story.Status)
		assert.Nil(t, story.StartPageID)
		stories.AssertExpectations(t)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		stories, _, _, svc := newAuthoringFixture()

		_, err := svc.CreateStory(ctx, interfaces.CreateStoryInput{Title: "   "})

		assert.ErrorIs(t, err, models.ErrValidation)
		stories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects over-long title", func(t *testing.T) {
		_, _, _, svc := newAuthoringFixture()

		_, err := svc.CreateStory(ctx, interfaces.CreateStoryInput{
			Title: strings.Repeat("x", models.MaxTitleLen+1),
		})

		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("rejects over-long description", func(t *testing.T) {
		_, _, _, svc := newAuthoringFixture()

		_, err := svc.CreateStory(ctx, interfaces.CreateStoryInput{
			Title:       "ok",
			Description: strings.Repeat("x", models.MaxDescriptionLen+1),
		})

		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestUpdateStory(t *testing.T) {
	ctx := context.Background()

	existing := func() *models.Story {
		return &models.Story{ID: 1, Title: "Old", Description: "old", Status: models.StatusDraft}
	}
	strPtr := func(s string) *string { return &s }

	t.Run("patches only provided fields", func(t *testing.T) {
		stories, _, _, svc := newAuthoringFixture()
		stories.On("GetByID", ctx, int64(1)).Return(existing(), nil)
		stories.On("Update", ctx, mock.AnythingOfType("*models.Story")).Return(nil)

		story, err := svc.UpdateStory(ctx, 1, interfaces.UpdateStoryInput{
			Status: strPtr("published"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Old", story.Title)
		assert.Equal(t, models.StatusPublished, story.Status)
		stories.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		stories, _, _, svc := newAuthoringFixture()
		stories.On("GetByID", ctx, int64(1)).Return(existing(), nil)

		_, err := svc.UpdateStory(ctx, 1, interfaces.UpdateStoryInput{Status: strPtr("archived")})

		assert.ErrorIs(t, err, models.ErrValidation)
		stories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects clearing title", func(t *testing.T) {
		stories, _, _, svc := newAuthoringFixture()
		stories.On("GetByID", ctx, int64(1)).Return(existing(), nil)

		_, err := svc.UpdateStory(ctx, 1, interfaces.UpdateStoryInput{Title: strPtr("  ")})

		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("propagates not found", func(t *testing.T) {
		stories, _, _, svc := newAuthoringFixture()
		stories.On("GetByID", ctx, int64(9)).Return(nil, models.ErrNotFound)

		_, err := svc.UpdateStory(ctx, 9, interfaces.UpdateStoryInput{})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAddPage(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	t.Run("delegates to the atomic store op", func(t *testing.T) {
		_, pages, _, svc := newAuthoringFixture()
		pages.On("Add", ctx, mock.AnythingOfType("*models.Page")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Page).ID = 7
		}).Return(&interfaces.AddPageResult{StartAssigned: true}, nil)

		page, result, err := svc.AddPage(ctx, 1, interfaces.AddPageInput{Text: "You wake up."})

		require.NoError(t, err)
		assert.Equal(t, int64(7), page.ID)
		assert.True(t, result.StartAssigned)
		assert.Empty(t, page.Choices)
		pages.AssertExpectations(t)
	})

	t.Run("drops ending label on non-ending page", func(t *testing.T) {
		_, pages, _, svc := newAuthoringFixture()
		pages.On("Add", ctx, mock.MatchedBy(func(p *models.Page) bool {
			return !p.IsEnding && p.EndingLabel == nil
		})).Return(&interfaces.AddPageResult{}, nil)

		_, _, err := svc.AddPage(ctx, 1, interfaces.AddPageInput{
			Text:        "Onward.",
			EndingLabel: strPtr("Victory"),
		})

		require.NoError(t, err)
		pages.AssertExpectations(t)
	})

	t.Run("keeps label on ending page", func(t *testing.T) {
		_, pages, _, svc := newAuthoringFixture()
		pages.On("Add", ctx, mock.MatchedBy(func(p *models.Page) bool {
			return p.IsEnding && p.EndingLabel != nil && *p.EndingLabel == "Victory"
		})).Return(&interfaces.AddPageResult{}, nil)

		_, _, err := svc.AddPage(ctx, 1, interfaces.AddPageInput{
			Text:        "You made it.",
			IsEnding:    true,
			EndingLabel: strPtr(" Victory "),
		})

		require.NoError(t, err)
		pages.AssertExpectations(t)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, pages, _, svc := newAuthoringFixture()

		_, _, err := svc.AddPage(ctx, 1, interfaces.AddPageInput{Text: "  "})

		assert.ErrorIs(t, err, models.ErrValidation)
		pages.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("propagates missing story", func(t *testing.T) {
		_, pages, _, svc := newAuthoringFixture()
		pages.On("Add", ctx, mock.Anything).Return(nil, models.ErrNotFound)

		_, _, err := svc.AddPage(ctx, 404, interfaces.AddPageInput{Text: "text"})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAddChoice(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the choice", func(t *testing.T) {
		_, _, choices, svc := newAuthoringFixture()
		choices.On("Create", ctx, mock.AnythingOfType("*models.Choice")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Choice).ID = 3
		}).Return(nil)

		choice, err := svc.AddChoice(ctx, 1, interfaces.AddChoiceInput{Text: "Go left", NextPageID: 5})

		require.NoError(t, err)
		assert.Equal(t, int64(3), choice.ID)
		assert.Equal(t, int64(5), choice.NextPageID)
		choices.AssertExpectations(t)
	})

	t.Run("rejects missing target id", func(t *testing.T) {
		_, _, choices, svc := newAuthoringFixture()

		_, err := svc.AddChoice(ctx, 1, interfaces.AddChoiceInput{Text: "Go left"})

		assert.ErrorIs(t, err, models.ErrValidation)
		choices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, _, _, svc := newAuthoringFixture()

		_, err := svc.AddChoice(ctx, 1, interfaces.AddChoiceInput{Text: " ", NextPageID: 5})

		assert.ErrorIs(t, err, models.ErrValidation)
	})
}
