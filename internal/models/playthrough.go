package models

import "time"

// UnknownEndingLabel is recorded when an ending page carries no label.
const UnknownEndingLabel = "Unknown Ending"

// Playthrough records one reader reaching one ending. EndingPageID and
// EndingLabel are snapshots taken at completion time, not live
// references; they survive later edits or deletion of the page.
type Playthrough struct {
	ID           int64     `json:"id"`
	UserID       *string   `json:"user_id,omitempty"`
	StoryID      int64     `json:"story_id"`
	EndingPageID int64     `json:"ending_page_id"`
	EndingLabel  string    `json:"ending_label"`
	CreatedAt    time.Time `json:"created_at"`
}

// EndingCount is one row of the per-ending breakdown for a story.
type EndingCount struct {
	Label string `json:"ending_label" db:"ending_label"`
	Count int64  `json:"count" db:"count"`
}

// ResumePoint is the session-scoped pointer to the reader's current
// page. Cleared when the reader hits an ending.
type ResumePoint struct {
	StoryID int64 `json:"current_story"`
	PageID  int64 `json:"current_page"`
}
