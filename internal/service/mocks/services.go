package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Mock AuthoringService
type AuthoringService struct {
	mock.Mock
}

func (m *AuthoringService) CreateStory(ctx context.Context, in interfaces.CreateStoryInput) (*models.Story, error) {
	args := m.Called(ctx, in)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *AuthoringService) UpdateStory(ctx context.Context, id int64, in interfaces.UpdateStoryInput) (*models.Story, error) {
	args := m.Called(ctx, id, in)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *AuthoringService) DeleteStory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *AuthoringService) AddPage(ctx context.Context, storyID int64, in interfaces.AddPageInput) (*models.Page, *interfaces.AddPageResult, error) {
	args := m.Called(ctx, storyID, in)
	page, _ := args.Get(0).(*models.Page)
	result, _ := args.Get(1).(*interfaces.AddPageResult)
	return page, result, args.Error(2)
}
func (m *AuthoringService) AddChoice(ctx context.Context, pageID int64, in interfaces.AddChoiceInput) (*models.Choice, error) {
	args := m.Called(ctx, pageID, in)
	choice, _ := args.Get(0).(*models.Choice)
	return choice, args.Error(1)
}
func (m *AuthoringService) DeletePage(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *AuthoringService) DeleteChoice(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock CatalogService
type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListPublished(ctx context.Context) ([]models.Story, error) {
	args := m.Called(ctx)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}
func (m *CatalogService) ListAll(ctx context.Context, status *models.StoryStatus) ([]models.Story, error) {
	args := m.Called(ctx, status)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}
func (m *CatalogService) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *CatalogService) GetStartPage(ctx context.Context, storyID int64) (*models.Page, error) {
	args := m.Called(ctx, storyID)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}
func (m *CatalogService) GetPage(ctx context.Context, id int64) (*models.Page, error) {
	args := m.Called(ctx, id)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}
func (m *CatalogService) ListStoryPages(ctx context.Context, storyID int64) ([]models.SequencedPage, error) {
	args := m.Called(ctx, storyID)
	pages, _ := args.Get(0).([]models.SequencedPage)
	return pages, args.Error(1)
}

// Mock PlayService
type PlayService struct {
	mock.Mock
}

func (m *PlayService) Start(ctx context.Context, sessionID string, storyID int64, userID *string) (*models.PlayState, error) {
	args := m.Called(ctx, sessionID, storyID, userID)
	state, _ := args.Get(0).(*models.PlayState)
	return state, args.Error(1)
}
func (m *PlayService) Resume(ctx context.Context, sessionID string, pageID int64, userID *string) (*models.PlayState, error) {
	args := m.Called(ctx, sessionID, pageID, userID)
	state, _ := args.Get(0).(*models.PlayState)
	return state, args.Error(1)
}
func (m *PlayService) Choose(ctx context.Context, sessionID string, nextPageID int64, userID *string) (*models.PlayState, error) {
	args := m.Called(ctx, sessionID, nextPageID, userID)
	state, _ := args.Get(0).(*models.PlayState)
	return state, args.Error(1)
}
func (m *PlayService) Session(ctx context.Context, sessionID string) (*models.PlayState, error) {
	args := m.Called(ctx, sessionID)
	state, _ := args.Get(0).(*models.PlayState)
	return state, args.Error(1)
}

// Mock StatsService
type StatsService struct {
	mock.Mock
}

func (m *StatsService) StoryStats(ctx context.Context, storyID int64) (*models.StoryStats, error) {
	args := m.Called(ctx, storyID)
	stats, _ := args.Get(0).(*models.StoryStats)
	return stats, args.Error(1)
}
func (m *StatsService) Overview(ctx context.Context) (*models.StatsOverview, error) {
	args := m.Called(ctx)
	overview, _ := args.Get(0).(*models.StatsOverview)
	return overview, args.Error(1)
}
func (m *StatsService) PrunePlaythroughs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
