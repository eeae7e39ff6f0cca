package models

// UnknownSequence is rendered for a choice whose target page is not
// part of the listed story (cross-story link or dangling reference).
const UnknownSequence = "?"

// SequencedChoice is the authoring view of a choice: the raw target id
// plus the target's position within the story, when it has one.
type SequencedChoice struct {
	ID               int64  `json:"id"`
	Text             string `json:"text"`
	NextPageID       int64  `json:"next_page_id"`
	NextPageSequence string `json:"next_page_sequence"`
}

// SequencedPage is the authoring view of a page with its 1-based
// position in creation order. Sequence numbers are a read-time
// projection; they shift when earlier pages are deleted.
type SequencedPage struct {
	ID          int64             `json:"id"`
	Sequence    int               `json:"sequence"`
	Text        string            `json:"text"`
	IsEnding    bool              `json:"is_ending"`
	EndingLabel *string           `json:"ending_label,omitempty"`
	Choices     []SequencedChoice `json:"choices"`
}
