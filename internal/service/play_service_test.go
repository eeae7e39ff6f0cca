package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/interfaces/mocks"
	"fable-server/internal/models"
)

type playFixture struct {
	stories      *mocks.StoryRepository
	pages        *mocks.PageRepository
	playthroughs *mocks.PlaythroughRepository
	sessions     *mocks.SessionRepository
	svc          interfaces.PlayService
}

func newPlayFixture() *playFixture {
	f := &playFixture{
		stories:      new(mocks.StoryRepository),
		pages:        new(mocks.PageRepository),
		playthroughs: new(mocks.PlaythroughRepository),
		sessions:     new(mocks.SessionRepository),
	}
	f.svc = NewPlayService(f.stories, f.pages, f.playthroughs, f.sessions, zap.NewNop())
	return f
}

const sessionID = "sess-1"

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("lands on the start page and saves the resume point", func(t *testing.T) {
		f := newPlayFixture()
		startID := int64(10)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, Status: models.StatusPublished, StartPageID: &startID}, nil)
		f.pages.On("GetByID", ctx, startID).Return(&models.Page{ID: startID, StoryID: 1}, nil)
		f.sessions.On("Set", ctx, sessionID, models.ResumePoint{StoryID: 1, PageID: startID}).Return(nil)

		state, err := f.svc.Start(ctx, sessionID, 1, nil)

		require.NoError(t, err)
		assert.False(t, state.Ended)
		assert.Equal(t, startID, state.Page.ID)
		f.sessions.AssertExpectations(t)
	})

	t.Run("suspended story refuses and leaves the session alone", func(t *testing.T) {
		f := newPlayFixture()
		startID := int64(10)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, Status: models.StatusSuspended, StartPageID: &startID}, nil)

		_, err := f.svc.Start(ctx, sessionID, 1, nil)

		assert.ErrorIs(t, err, models.ErrStorySuspended)
		f.sessions.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		f.sessions.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})

	t.Run("story without a start page is not found", func(t *testing.T) {
		f := newPlayFixture()
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, Status: models.StatusPublished}, nil)

		_, err := f.svc.Start(ctx, sessionID, 1, nil)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("start page that is an ending finishes immediately", func(t *testing.T) {
		f := newPlayFixture()
		startID := int64(10)
		label := "Short and sweet"
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, Status: models.StatusPublished, StartPageID: &startID}, nil)
		f.pages.On("GetByID", ctx, startID).Return(&models.Page{ID: startID, StoryID: 1, IsEnding: true, EndingLabel: &label}, nil)
		f.playthroughs.On("Create", ctx, mock.AnythingOfType("*models.Playthrough")).Return(nil)
		f.sessions.On("Clear", ctx, sessionID).Return(nil)

		state, err := f.svc.Start(ctx, sessionID, 1, nil)

		require.NoError(t, err)
		assert.True(t, state.Ended)
		assert.Equal(t, label, state.Playthrough.EndingLabel)
		f.playthroughs.AssertNumberOfCalls(t, "Create", 1)
	})
}

func TestChoose(t *testing.T) {
	ctx := context.Background()

	t.Run("advances the resume point", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(12)).Return(&models.Page{ID: 12, StoryID: 1}, nil)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, Status: models.StatusPublished}, nil)
		f.sessions.On("Set", ctx, sessionID, models.ResumePoint{StoryID: 1, PageID: 12}).Return(nil)

		state, err := f.svc.Choose(ctx, sessionID, 12, nil)

		require.NoError(t, err)
		assert.False(t, state.Ended)
		assert.Equal(t, int64(12), state.Page.ID)
		f.sessions.AssertExpectations(t)
	})

	t.Run("no active session", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(nil, models.ErrNotFound)

		_, err := f.svc.Choose(ctx, sessionID, 12, nil)

		assert.ErrorIs(t, err, models.ErrNoActiveSession)
	})

	t.Run("unresolved target is a no-op", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(99)).Return(nil, models.ErrNotFound)
		// Rebuilding the unchanged state.
		f.pages.On("GetByID", ctx, int64(10)).Return(&models.Page{ID: 10, StoryID: 1}, nil)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)

		state, err := f.svc.Choose(ctx, sessionID, 99, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(10), state.Page.ID)
		assert.False(t, state.Ended)
		f.playthroughs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.sessions.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		f.sessions.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})

	t.Run("reaching an ending records exactly one playthrough and closes the session", func(t *testing.T) {
		f := newPlayFixture()
		userID := "reader-7"
		label := "The Dragon Wins"
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(15)).Return(&models.Page{ID: 15, StoryID: 1, IsEnding: true, EndingLabel: &label}, nil)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)
		f.playthroughs.On("Create", ctx, mock.MatchedBy(func(pt *models.Playthrough) bool {
			return pt.StoryID == 1 && pt.EndingPageID == 15 && pt.EndingLabel == label && pt.UserID != nil && *pt.UserID == userID
		})).Return(nil)
		f.sessions.On("Clear", ctx, sessionID).Return(nil)

		state, err := f.svc.Choose(ctx, sessionID, 15, &userID)

		require.NoError(t, err)
		assert.True(t, state.Ended)
		assert.NotNil(t, state.Playthrough)
		f.playthroughs.AssertNumberOfCalls(t, "Create", 1)
		f.sessions.AssertNumberOfCalls(t, "Clear", 1)
	})

	t.Run("unlabeled ending falls back to Unknown Ending", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(15)).Return(&models.Page{ID: 15, StoryID: 1, IsEnding: true}, nil)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)
		f.playthroughs.On("Create", ctx, mock.MatchedBy(func(pt *models.Playthrough) bool {
			return pt.EndingLabel == models.UnknownEndingLabel && pt.UserID == nil
		})).Return(nil)
		f.sessions.On("Clear", ctx, sessionID).Return(nil)

		state, err := f.svc.Choose(ctx, sessionID, 15, nil)

		require.NoError(t, err)
		assert.Equal(t, models.UnknownEndingLabel, state.Playthrough.EndingLabel)
	})

	t.Run("cross-story choice moves the session into the target story", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(30)).Return(&models.Page{ID: 30, StoryID: 2}, nil)
		f.stories.On("GetByID", ctx, int64(2)).Return(&models.Story{ID: 2, Status: models.StatusSuspended}, nil)
		f.sessions.On("Set", ctx, sessionID, models.ResumePoint{StoryID: 2, PageID: 30}).Return(nil)

		state, err := f.svc.Choose(ctx, sessionID, 30, nil)

		// Suspension only gates Start, not moves inside the graph.
		require.NoError(t, err)
		assert.Equal(t, int64(2), state.Story.ID)
		f.sessions.AssertExpectations(t)
	})
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	t.Run("re-enters at an arbitrary page without a suspension check", func(t *testing.T) {
		f := newPlayFixture()
		f.pages.On("GetByID", ctx, int64(12)).Return(&models.Page{ID: 12, StoryID: 1}, nil)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1, Status: models.StatusSuspended}, nil)
		f.sessions.On("Set", ctx, sessionID, models.ResumePoint{StoryID: 1, PageID: 12}).Return(nil)

		state, err := f.svc.Resume(ctx, sessionID, 12, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(12), state.Page.ID)
	})

	t.Run("missing page propagates not found", func(t *testing.T) {
		f := newPlayFixture()
		f.pages.On("GetByID", ctx, int64(99)).Return(nil, models.ErrNotFound)

		_, err := f.svc.Resume(ctx, sessionID, 99, nil)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the current state", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(10)).Return(&models.Page{ID: 10, StoryID: 1}, nil)
		f.stories.On("GetByID", ctx, int64(1)).Return(&models.Story{ID: 1}, nil)

		state, err := f.svc.Session(ctx, sessionID)

		require.NoError(t, err)
		assert.Equal(t, int64(10), state.Page.ID)
	})

	t.Run("absent resume point", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(nil, models.ErrNotFound)

		_, err := f.svc.Session(ctx, sessionID)

		assert.ErrorIs(t, err, models.ErrNoActiveSession)
	})

	t.Run("stale resume point is cleared", func(t *testing.T) {
		f := newPlayFixture()
		f.sessions.On("Get", ctx, sessionID).Return(&models.ResumePoint{StoryID: 1, PageID: 10}, nil)
		f.pages.On("GetByID", ctx, int64(10)).Return(nil, models.ErrNotFound)
		f.sessions.On("Clear", ctx, sessionID).Return(nil)

		_, err := f.svc.Session(ctx, sessionID)

		assert.ErrorIs(t, err, models.ErrNoActiveSession)
		f.sessions.AssertNumberOfCalls(t, "Clear", 1)
	})
}
