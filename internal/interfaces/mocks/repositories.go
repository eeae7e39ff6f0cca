package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Mock StoryRepository
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}
func (m *StoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *StoryRepository) List(ctx context.Context, status *models.StoryStatus) ([]models.Story, error) {
	args := m.Called(ctx, status)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}
func (m *StoryRepository) Update(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}
func (m *StoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock PageRepository
type PageRepository struct {
	mock.Mock
}

func (m *PageRepository) Add(ctx context.Context, page *models.Page) (*interfaces.AddPageResult, error) {
	args := m.Called(ctx, page)
	result, _ := args.Get(0).(*interfaces.AddPageResult)
	return result, args.Error(1)
}
func (m *PageRepository) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	args := m.Called(ctx, id)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}
func (m *PageRepository) ListByStory(ctx context.Context, storyID int64) ([]models.Page, error) {
	args := m.Called(ctx, storyID)
	pages, _ := args.Get(0).([]models.Page)
	return pages, args.Error(1)
}
func (m *PageRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock ChoiceRepository
type ChoiceRepository struct {
	mock.Mock
}

func (m *ChoiceRepository) Create(ctx context.Context, choice *models.Choice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}
func (m *ChoiceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock PlaythroughRepository
type PlaythroughRepository struct {
	mock.Mock
}

func (m *PlaythroughRepository) Create(ctx context.Context, pt *models.Playthrough) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}
func (m *PlaythroughRepository) CountByStory(ctx context.Context, storyID int64) (int64, error) {
	args := m.Called(ctx, storyID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *PlaythroughRepository) EndingBreakdown(ctx context.Context, storyID int64) ([]models.EndingCount, error) {
	args := m.Called(ctx, storyID)
	breakdown, _ := args.Get(0).([]models.EndingCount)
	return breakdown, args.Error(1)
}
func (m *PlaythroughRepository) TotalCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *PlaythroughRepository) PruneUnpublished(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock SessionRepository
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Get(ctx context.Context, sessionID string) (*models.ResumePoint, error) {
	args := m.Called(ctx, sessionID)
	rp, _ := args.Get(0).(*models.ResumePoint)
	return rp, args.Error(1)
}
func (m *SessionRepository) Set(ctx context.Context, sessionID string, rp models.ResumePoint) error {
	args := m.Called(ctx, sessionID, rp)
	return args.Error(0)
}
func (m *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
