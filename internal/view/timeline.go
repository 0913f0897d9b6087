package view

import (
	"time"

	"booklog/internal/models"
)

// fallbackDate is shown when a milestone has no usable timestamp.
const fallbackDate = "Unknown"

// Milestone is one lifecycle entry on a book's timeline.
type Milestone struct {
	Label string
	At    *time.Time
	Icon  string
}

// DateText formats the milestone date as a short date, or returns the
// fallback literal when the timestamp is absent or zero.
func (m Milestone) DateText() string {
	if m.At == nil || m.At.IsZero() {
		return fallbackDate
	}
	return m.At.Format("Jan 2, 2006")
}

// Milestones builds the ordered timeline for a book: added always, then
// started and finished when present. The order is fixed; the data-model
// invariant keeps the timestamps non-decreasing, so no re-sorting happens
// here.
func Milestones(b models.Book) []Milestone {
	added := Milestone{Label: "Added to library", Icon: "book"}
	if !b.AddedAt.IsZero() {
		at := b.AddedAt
		added.At = &at
	}

	out := []Milestone{added}
	if b.StartedAt != nil {
		out = append(out, Milestone{Label: "Started reading", At: b.StartedAt, Icon: "clock"})
	}
	if b.FinishedAt != nil {
		out = append(out, Milestone{Label: "Finished reading", At: b.FinishedAt, Icon: "check"})
	}
	return out
}
