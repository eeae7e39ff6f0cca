package models

// EndingStat is one ending's share of a story's playthroughs.
// Percentage is rounded to one decimal place.
type EndingStat struct {
	Label      string  `json:"ending_label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StoryStats aggregates the play history of one story. Endings is
// omitted entirely while the story has no playthroughs.
type StoryStats struct {
	StoryID    int64        `json:"story_id"`
	Title      string       `json:"title"`
	TotalPlays int64        `json:"total_plays"`
	Endings    []EndingStat `json:"endings,omitempty"`
}

// StatsOverview is the catalog-wide report: per-published-story stats
// plus the grand total across all stories regardless of status.
type StatsOverview struct {
	TotalPlays int64        `json:"total_plays"`
	Stories    []StoryStats `json:"stories"`
}
