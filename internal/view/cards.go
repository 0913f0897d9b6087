package view

import (
	"fmt"
	"strconv"

	"booklog/internal/models"
)

// StatCard is one labeled, icon-bearing dashboard unit.
type StatCard struct {
	Label string
	Value string
	Icon  string
}

// Cards maps a summary onto the fixed set of dashboard cards. The set is
// a declared enumeration: adding a stat means adding an entry here.
func Cards(s models.Summary) []StatCard {
	return []StatCard{
		{Label: "Total Books", Value: strconv.Itoa(s.TotalBooks), Icon: "book"},
		{Label: "Read This Year", Value: strconv.Itoa(s.FinishedBooks), Icon: "check"},
		// The unit suffix is part of the value, zero and one included.
		{Label: "Reading Streak", Value: fmt.Sprintf("%d days", s.ReadingStreak), Icon: "flame"},
	}
}
