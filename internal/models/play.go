package models

// PlayState is what the play flow hands back after every move: the
// story being played, the page the reader stands on, and whether the
// playthrough just ended. Playthrough is set only on the ending move.
type PlayState struct {
	Story       *Story       `json:"story"`
	Page        *Page        `json:"page"`
	Ended       bool         `json:"ended"`
	Playthrough *Playthrough `json:"playthrough,omitempty"`
}
