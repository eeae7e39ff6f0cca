package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/interfaces/mocks"
	"fable-server/internal/models"
)

func newCatalogFixture() (*mocks.StoryRepository, *mocks.PageRepository, interfaces.CatalogService) {
	stories := new(mocks.StoryRepository)
	pages := new(mocks.PageRepository)
	svc := NewCatalogService(stories, pages, zap.NewNop())
	return stories, pages, svc
}

func TestGetStartPage(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the start page", func(t *testing.T) {
		stories, pages, svc := newCatalogFixture()
		startID := int64(10)
		stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, StartPageID: &startID}, nil)
		pages.On("GetByID", ctx, startID).Return(&models.Page{ID: startID, StoryID: 1}, nil)

		page, err := svc.GetStartPage(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, startID, page.ID)
	})

	t.Run("story without pages has no start", func(t *testing.T) {
		stories, pages, svc := newCatalogFixture()
		stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)

		_, err := svc.GetStartPage(ctx, 1)

		assert.ErrorIs(t, err, models.ErrNotFound)
		pages.AssertNotCalled(t, "GetByID", ctx, int64(0))
	})
}

func TestListStoryPages(t *testing.T) {
	ctx := context.Background()

	t.Run("projects sequences and marks foreign targets", func(t *testing.T) {
		stories, pages, svc := newCatalogFixture()
		stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)
		pages.On("ListByStory", ctx, int64(1)).Return([]models.Page{
			{ID: 10, StoryID: 1, Text: "first", Choices: []models.Choice{
				{ID: 1, PageID: 10, Text: "Continue", NextPageID: 12},
				{ID: 2, PageID: 10, Text: "Shortcut", NextPageID: 99},
			}},
			{ID: 12, StoryID: 1, Text: "second", Choices: []models.Choice{}},
			{ID: 15, StoryID: 1, Text: "third", IsEnding: true, Choices: []models.Choice{
				{ID: 3, PageID: 15, Text: "Replay", NextPageID: 10},
			}},
		}, nil)

		out, err := svc.ListStoryPages(ctx, 1)

		require.NoError(t, err)
		require.Len(t, out, 3)

		assert.Equal(t, 1, out[0].Sequence)
		assert.Equal(t, 2, out[1].Sequence)
		assert.Equal(t, 3, out[2].Sequence)

		// In-story target renders its sequence, foreign one the sentinel.
		assert.Equal(t, "2", out[0].Choices[0].NextPageSequence)
		assert.Equal(t, models.UnknownSequence, out[0].Choices[1].NextPageSequence)
		assert.Equal(t, "1", out[2].Choices[0].NextPageSequence)
	})

	t.Run("story with no pages lists empty", func(t *testing.T) {
		stories, pages, svc := newCatalogFixture()
		stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)
		pages.On("ListByStory", ctx, int64(1)).Return([]models.Page{}, nil)

		out, err := svc.ListStoryPages(ctx, 1)

		require.NoError(t, err)
		assert.Empty(t, out)
		assert.NotNil(t, out)
	})

	t.Run("missing story reported before listing", func(t *testing.T) {
		stories, pages, svc := newCatalogFixture()
		stories.On("GetByID", ctx, int64(9)).Return(nil, models.ErrNotFound)

		_, err := svc.ListStoryPages(ctx, 9)

		assert.ErrorIs(t, err, models.ErrNotFound)
		pages.AssertNotCalled(t, "ListByStory", ctx, int64(9))
	})
}

func TestListPublished(t *testing.T) {
	ctx := context.Background()
	stories, _, svc := newCatalogFixture()

	published := models.StatusPublished
	stories.On("List", ctx, &published).Return([]models.Story{{ID: 1, Status: published}}, nil)

	out, err := svc.ListPublished(ctx)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, published, out[0].Status)
	stories.AssertExpectations(t)
}
