// Package stats derives dashboard statistics from book records and
// reading-activity history. Everything here is pure: no I/O, no clocks
// beyond the reference time passed in by the caller.
package stats

import (
	"time"

	"booklog/internal/models"
)

// Aggregate computes the dashboard summary over a collection of book
// records. The collection may be empty; the result is then all zeroes.
//
// Rules:
//   - TotalBooks is the size of the collection.
//   - FinishedBooks counts records finished within the calendar year of
//     now. A record whose FinishedAt precedes StartedAt, or whose
//     FinishedAt is set without StartedAt, is treated as not finished.
//   - TotalPagesRead sums PagesRead across all records, each value clamped
//     to [0, TotalPages].
//   - CurrentlyReading counts records with StartedAt set and no valid
//     finish.
//   - ReadingStreak is a passthrough: callers with an activity log compute
//     it via Streak, others supply whatever integer they track.
func Aggregate(books []models.Book, now time.Time, streak int) models.Summary {
	s := models.Summary{
		TotalBooks:    len(books),
		ReadingStreak: streak,
	}

	for _, b := range books {
		s.TotalPagesRead += clampPages(b)

		if isFinished(b) {
			if b.FinishedAt.Year() == now.Year() {
				s.FinishedBooks++
			}
			continue
		}
		if b.StartedAt != nil {
			s.CurrentlyReading++
		}
	}
	return s
}

// isFinished reports whether a record counts as finished. Records that
// violate the timestamp-ordering invariant do not.
func isFinished(b models.Book) bool {
	if b.FinishedAt == nil || b.StartedAt == nil {
		return false
	}
	return !b.FinishedAt.Before(*b.StartedAt)
}

func clampPages(b models.Book) int {
	pages := b.PagesRead
	if pages < 0 {
		return 0
	}
	if b.TotalPages > 0 && pages > b.TotalPages {
		return b.TotalPages
	}
	return pages
}
