package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"booklog/internal/models"
	"booklog/internal/stats"
)

// activityWindow mirrors the web dashboard's streak lookback.
const activityWindow = 366 * 24 * time.Hour

// handleMessage routes a message to a command handler or an active
// conversation.
func (b *Bot) handleMessage(ctx context.Context, owner string, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.setState(message.From.ID, nil)

		switch message.Command() {
		case "start":
			b.handleStart(message)
		case "books":
			b.handleBooks(ctx, owner, message)
		case "log":
			b.handleLogStart(ctx, owner, message)
		case "streak":
			b.handleStreak(ctx, owner, message)
		case "stats":
			b.handleStats(ctx, owner, message)
		default:
			b.sendText(message.Chat.ID, "Unknown command. Try /start for the command list.")
		}
		return
	}

	if state := b.state(message.From.ID); state != nil {
		b.continueConversation(ctx, owner, state, message)
	}
}

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the book tracker! 📚

Available commands:
/books - Show the books you are currently reading
/log - Record pages read today
/streak - Show your reading streak
/stats - View your library statistics`

	b.sendText(message.Chat.ID, text)
}

// handleBooks lists the books currently being read
func (b *Bot) handleBooks(ctx context.Context, owner string, message *tgbotapi.Message) {
	reading, err := b.currentlyReading(ctx, owner)
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}
	if len(reading) == 0 {
		b.sendText(message.Chat.ID, "You are not reading anything right now.")
		return
	}

	var text strings.Builder
	text.WriteString("Currently reading:\n\n")
	for i, book := range reading {
		text.WriteString(fmt.Sprintf("%d. %s (%d/%d pages)\n", i+1, book.Title, book.PagesRead, book.TotalPages))
	}
	b.sendText(message.Chat.ID, text.String())
}

// handleLogStart initiates the progress-logging conversation
func (b *Bot) handleLogStart(ctx context.Context, owner string, message *tgbotapi.Message) {
	reading, err := b.currentlyReading(ctx, owner)
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}
	if len(reading) == 0 {
		b.sendText(message.Chat.ID, "You are not reading anything right now. Start a book in the web app first.")
		return
	}

	if len(reading) == 1 {
		b.setState(message.From.ID, &ConversationState{Command: "log", Step: 2, BookUid: reading[0].BookUid})
		b.sendText(message.Chat.ID, fmt.Sprintf("Logging for %q. How many pages are you on now?", reading[0].Title))
		return
	}

	b.setState(message.From.ID, &ConversationState{Command: "log", Step: 1})

	var text strings.Builder
	text.WriteString("Which book? Reply with a number:\n\n")
	for i, book := range reading {
		text.WriteString(fmt.Sprintf("%d. %s\n", i+1, book.Title))
	}
	b.sendText(message.Chat.ID, text.String())
}

// handleStreak shows the current reading streak
func (b *Bot) handleStreak(ctx context.Context, owner string, message *tgbotapi.Message) {
	now := time.Now().UTC()
	days, err := b.activity.ActiveDays(ctx, owner, now.Add(-activityWindow))
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	streak := stats.Streak(days, now)
	b.sendText(message.Chat.ID, fmt.Sprintf("🔥 Reading streak: %d days", streak))
}

// handleStats shows the library summary
func (b *Bot) handleStats(ctx context.Context, owner string, message *tgbotapi.Message) {
	books, err := b.store.ListBooks(ctx, owner)
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	now := time.Now().UTC()
	days, err := b.activity.ActiveDays(ctx, owner, now.Add(-activityWindow))
	if err != nil {
		days = nil
	}

	s := stats.Aggregate(books, now, stats.Streak(days, now))
	text := fmt.Sprintf(`📊 Your library:

Total books: %d
Read this year: %d
Currently reading: %d
Pages read: %d
Reading streak: %d days`,
		s.TotalBooks, s.FinishedBooks, s.CurrentlyReading, s.TotalPagesRead, s.ReadingStreak)
	b.sendText(message.Chat.ID, text)
}

// continueConversation advances the /log flow
func (b *Bot) continueConversation(ctx context.Context, owner string, state *ConversationState, message *tgbotapi.Message) {
	if state.Command != "log" {
		b.setState(message.From.ID, nil)
		return
	}

	switch state.Step {
	case 1:
		reading, err := b.currentlyReading(ctx, owner)
		if err != nil {
			b.setState(message.From.ID, nil)
			b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
			return
		}

		choice, err := strconv.Atoi(strings.TrimSpace(message.Text))
		if err != nil || choice < 1 || choice > len(reading) {
			b.sendText(message.Chat.ID, fmt.Sprintf("Please reply with a number between 1 and %d.", len(reading)))
			return
		}

		book := reading[choice-1]
		b.setState(message.From.ID, &ConversationState{Command: "log", Step: 2, BookUid: book.BookUid})
		b.sendText(message.Chat.ID, fmt.Sprintf("Logging for %q. How many pages are you on now?", book.Title))

	case 2:
		pages, err := strconv.Atoi(strings.TrimSpace(message.Text))
		if err != nil || pages < 0 {
			b.sendText(message.Chat.ID, "Please reply with the page number you are on.")
			return
		}

		b.logProgress(ctx, owner, state.BookUid, pages, message)
		b.setState(message.From.ID, nil)
	}
}

// logProgress persists the new page position and records the day's
// activity when the position moved forward.
func (b *Bot) logProgress(ctx context.Context, owner, bookUid string, pages int, message *tgbotapi.Message) {
	before, err := b.store.GetBook(ctx, owner, bookUid)
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	book, err := b.store.UpdateProgress(ctx, owner, bookUid, pages)
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	if delta := book.PagesRead - before.PagesRead; delta > 0 {
		event := models.ActivityEvent{
			Day:     time.Now().UTC(),
			OwnerID: owner,
			BookUid: bookUid,
			Pages:   delta,
		}
		if err := b.activity.RecordActivity(ctx, event); err != nil {
			b.logger.Warn("Failed to record reading activity")
		}
	}

	b.sendText(message.Chat.ID, fmt.Sprintf("Recorded: %q at page %d of %d. 📖", book.Title, book.PagesRead, book.TotalPages))
}

func (b *Bot) currentlyReading(ctx context.Context, owner string) ([]models.Book, error) {
	books, err := b.store.ListBooks(ctx, owner)
	if err != nil {
		return nil, err
	}

	var reading []models.Book
	for _, book := range books {
		if book.State() == models.StateReading {
			reading = append(reading, book)
		}
	}
	return reading, nil
}
