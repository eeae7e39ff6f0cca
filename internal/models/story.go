package models

import "time"

// StoryStatus describes the publication state of a story.
type StoryStatus string

const (
	StatusDraft     StoryStatus = "draft"
	StatusPublished StoryStatus = "published"
	StatusSuspended StoryStatus = "suspended"
)

// IsValid reports whether s is one of the known statuses.
func (s StoryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusSuspended:
		return true
	}
	return false
}

// Field length limits enforced at the service layer. The database schema
// carries the same limits.
const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 512
	MaxPageTextLen    = 4096
	MaxChoiceTextLen  = 255
	MaxEndingLabelLen = 255
)

// Story is a container for pages. StartPageID stays nil until the first
// page is authored and always references a page of this story afterwards
// (the page repository repoints it transactionally on deletes).
type Story struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      StoryStatus `json:"status"`
	StartPageID *int64      `json:"start_page_id"`
	AuthorID    *string     `json:"author_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Page is one narrative unit. A page with IsEnding set terminates a
// playthrough on arrival; it may still carry outgoing choices, which the
// play flow simply never follows.
type Page struct {
	ID          int64     `json:"id"`
	StoryID     int64     `json:"story_id"`
	Text        string    `json:"text"`
	IsEnding    bool      `json:"is_ending"`
	EndingLabel *string   `json:"ending_label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Choices     []Choice  `json:"choices"`
}

// Choice is a labeled directed edge between pages. NextPageID is a
// non-owning reference: it may point into another story and may dangle
// after the target page is deleted. Everything that follows the edge
// resolves it with an explicit lookup.
type Choice struct {
	ID         int64     `json:"id"`
	PageID     int64     `json:"page_id"`
	Text       string    `json:"text"`
	NextPageID int64     `json:"next_page_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// AutoLinkLabel is the fixed text of choices created by the authoring
// auto-link heuristic.
const AutoLinkLabel = "Continue"
