package models

import "time"

// ReadingState describes where a book is in its lifecycle. The state is
// derived from which timestamps are set, never stored.
type ReadingState string

const (
	StateUnread   ReadingState = "unread"
	StateReading  ReadingState = "reading"
	StateFinished ReadingState = "finished"
)

// Book represents one tracked book in a user's library
type Book struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	BookUid    string `gorm:"type:uuid;uniqueIndex;not null" json:"bookUid"`
	OwnerID    string `gorm:"size:120;index;not null" json:"-"`
	Title      string `gorm:"not null" json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	TotalPages int    `json:"totalPages"`
	PagesRead  int    `json:"pagesRead"`
	CoverURL   string `json:"coverUrl,omitempty"`

	// Lifecycle timestamps. AddedAt is set at creation, the other two when
	// the user starts/finishes the book. When both are present FinishedAt
	// is never earlier than StartedAt; the store enforces this.
	AddedAt    time.Time  `json:"addedAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// State derives the lifecycle state from timestamp presence. A record with
// FinishedAt but no StartedAt violates the data-model invariant and is
// reported as still reading rather than finished.
func (b Book) State() ReadingState {
	switch {
	case b.FinishedAt != nil && b.StartedAt != nil:
		return StateFinished
	case b.StartedAt != nil || b.FinishedAt != nil:
		return StateReading
	default:
		return StateUnread
	}
}

// ActivityEvent represents one reading-activity entry: a user read some
// pages of a book on a given day. Events are append-only.
type ActivityEvent struct {
	Day     time.Time
	OwnerID string
	BookUid string
	Pages   int
}

// Summary holds the derived dashboard statistics. It is computed per
// request and never stored.
type Summary struct {
	TotalBooks       int `json:"totalBooks"`
	FinishedBooks    int `json:"finishedBooks"`
	TotalPagesRead   int `json:"totalPagesRead"`
	CurrentlyReading int `json:"currentlyReading"`
	ReadingStreak    int `json:"readingStreak"`
}
