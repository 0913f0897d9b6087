package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"booklog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyphFallback(t *testing.T) {
	assert.Equal(t, icons["book"], Glyph("book"))
	assert.Equal(t, defaultIcon, Glyph("no-such-icon"))
	assert.Equal(t, defaultIcon, Glyph(""))
}

func TestCardsFixedEnumeration(t *testing.T) {
	cards := Cards(models.Summary{TotalBooks: 10, FinishedBooks: 4, TotalPagesRead: 1200, CurrentlyReading: 2, ReadingStreak: 5})

	require.Len(t, cards, 3)
	assert.Equal(t, "Total Books", cards[0].Label)
	assert.Equal(t, "10", cards[0].Value)
	assert.Equal(t, "Read This Year", cards[1].Label)
	assert.Equal(t, "4", cards[1].Value)
	assert.Equal(t, "Reading Streak", cards[2].Label)
	assert.Equal(t, "5 days", cards[2].Value)
}

func TestCardsStreakAlwaysCarriesUnit(t *testing.T) {
	for _, streak := range []int{0, 1, 365} {
		cards := Cards(models.Summary{ReadingStreak: streak})
		assert.Contains(t, cards[2].Value, "days")
	}
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDashboard(&buf, models.Summary{TotalBooks: 10, FinishedBooks: 4, TotalPagesRead: 1200, CurrentlyReading: 2, ReadingStreak: 5})
	require.NoError(t, err)

	html := buf.String()
	assert.Equal(t, 3, strings.Count(html, "data-stat-icon="))
	assert.Contains(t, html, "Total Books")
	assert.Contains(t, html, "Read This Year")
	assert.Contains(t, html, "Reading Streak")
	assert.Contains(t, html, "5 days")
}

func TestRenderDashboardZeroSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, models.Summary{}))

	html := buf.String()
	assert.Equal(t, 3, strings.Count(html, "data-stat-icon="))
	assert.Contains(t, html, "0 days")
}

func TestMilestones(t *testing.T) {
	added := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	started := added.AddDate(0, 0, 2)
	finished := added.AddDate(0, 1, 0)

	testCases := []struct {
		name     string
		book     models.Book
		expected []string
	}{
		{
			name:     "added only",
			book:     models.Book{AddedAt: added},
			expected: []string{"Added to library"},
		},
		{
			name:     "added and started",
			book:     models.Book{AddedAt: added, StartedAt: &started},
			expected: []string{"Added to library", "Started reading"},
		},
		{
			name:     "full lifecycle",
			book:     models.Book{AddedAt: added, StartedAt: &started, FinishedAt: &finished},
			expected: []string{"Added to library", "Started reading", "Finished reading"},
		},
		{
			name:     "finished without started still renders in fixed order",
			book:     models.Book{AddedAt: added, FinishedAt: &finished},
			expected: []string{"Added to library", "Finished reading"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ms := Milestones(tc.book)
			require.Len(t, ms, len(tc.expected))
			for i, label := range tc.expected {
				assert.Equal(t, label, ms[i].Label)
			}
		})
	}
}

func TestMilestoneDateText(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 1, 2026", Milestone{Label: "Added to library", At: &at}.DateText())
	assert.Equal(t, "Unknown", Milestone{Label: "Added to library"}.DateText())

	zero := time.Time{}
	assert.Equal(t, "Unknown", Milestone{Label: "Added to library", At: &zero}.DateText())
}

func TestRenderTimeline(t *testing.T) {
	added := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	started := added.AddDate(0, 0, 2)

	var buf bytes.Buffer
	err := RenderTimeline(&buf, models.Book{Title: "Dune", AddedAt: added, StartedAt: &started})
	require.NoError(t, err)

	html := buf.String()
	assert.Equal(t, 2, strings.Count(html, "data-milestone="))
	addedIdx := strings.Index(html, "Added to library")
	startedIdx := strings.Index(html, "Started reading")
	require.NotEqual(t, -1, addedIdx)
	require.NotEqual(t, -1, startedIdx)
	assert.Less(t, addedIdx, startedIdx)
	assert.NotContains(t, html, "Finished reading")
}

func TestRenderTimelineMissingAddedAt(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTimeline(&buf, models.Book{Title: "Dune"})
	require.NoError(t, err)

	html := buf.String()
	assert.Equal(t, 1, strings.Count(html, "data-milestone="))
	assert.Contains(t, html, "Unknown")
}
