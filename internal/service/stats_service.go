package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.StatsService = (*statsService)(nil)

type statsService struct {
	stories      interfaces.StoryRepository
	playthroughs interfaces.PlaythroughRepository
	logger       *zap.Logger
}

// NewStatsService creates the playthrough aggregation service.
func NewStatsService(
	stories interfaces.StoryRepository,
	playthroughs interfaces.PlaythroughRepository,
	logger *zap.Logger,
) interfaces.StatsService {
	return &statsService{
		stories:      stories,
		playthroughs: playthroughs,
		logger:       logger.Named("StatsService"),
	}
}

// StoryStats reports a story's total plays and per-ending breakdown.
// The breakdown is omitted while the story has no plays.
func (s *statsService) StoryStats(ctx context.Context, storyID int64) (*models.StoryStats, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return s.statsFor(ctx, story)
}

// Overview reports stats for every published story plus the grand
// total across all stories regardless of status.
func (s *statsService) Overview(ctx context.Context) (*models.StatsOverview, error) {
	published := models.StatusPublished
	stories, err := s.stories.List(ctx, &published)
	if err != nil {
		return nil, err
	}

	overview := &models.StatsOverview{Stories: make([]models.StoryStats, 0, len(stories))}
	for i := range stories {
		stats, err := s.statsFor(ctx, &stories[i])
		if err != nil {
			return nil, err
		}
		overview.Stories = append(overview.Stories, *stats)
	}

	total, err := s.playthroughs.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	overview.TotalPlays = total

	return overview, nil
}

// PrunePlaythroughs sweeps out records of stories that are no longer
// published.
func (s *statsService) PrunePlaythroughs(ctx context.Context) (int64, error) {
	removed, err := s.playthroughs.PruneUnpublished(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Playthrough records pruned", zap.Int64("removed", removed))
	}
	return removed, nil
}

func (s *statsService) statsFor(ctx context.Context, story *models.Story) (*models.StoryStats, error) {
	total, err := s.playthroughs.CountByStory(ctx, story.ID)
	if err != nil {
		return nil, err
	}

	stats := &models.StoryStats{
		StoryID:    story.ID,
		Title:      story.Title,
		TotalPlays: total,
	}
	if total == 0 {
		return stats, nil
	}

	breakdown, err := s.playthroughs.EndingBreakdown(ctx, story.ID)
	if err != nil {
		return nil, err
	}
	stats.Endings = make([]models.EndingStat, 0, len(breakdown))
	for _, row := range breakdown {
		stats.Endings = append(stats.Endings, models.EndingStat{
			Label:      row.Label,
			Count:      row.Count,
			Percentage: percentage(row.Count, total),
		})
	}

	return stats, nil
}

// percentage rounds count/total to one decimal place.
func percentage(count, total int64) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}
