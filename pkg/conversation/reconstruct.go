// Package conversation rebuilds a chat transcript from stored turns.
// A turn is one (message, response) pair; the transcript interleaves them
// back into user and assistant messages. All functions are pure.
package conversation

import (
	"sort"
	"time"
)

// TitlePlaceholder is used for sessions without any turns.
const TitlePlaceholder = "New Conversation"

const titleMaxRunes = 50

// Turn is one stored exchange.
type Turn struct {
	ID        string
	Message   string
	Response  string
	Timestamp time.Time
}

// Message is one side of a turn after reconstruction.
type Message struct {
	ID        string
	Role      string // "user" or "assistant"
	Content   string
	Timestamp time.Time
}

// Reconstruct flattens turns into an interleaved message list, oldest
// first. Message IDs derive from the turn ID plus a role suffix, so
// reconstruction is stable across calls. Both halves of a turn share its
// timestamp.
func Reconstruct(turns []Turn) []Message {
	ordered := make([]Turn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	messages := make([]Message, 0, len(ordered)*2)
	for _, turn := range ordered {
		messages = append(messages,
			Message{
				ID:        turn.ID + ":user",
				Role:      "user",
				Content:   turn.Message,
				Timestamp: turn.Timestamp,
			},
			Message{
				ID:        turn.ID + ":assistant",
				Role:      "assistant",
				Content:   turn.Response,
				Timestamp: turn.Timestamp,
			},
		)
	}
	return messages
}

// Title derives the session title from the first user message, truncated
// to 50 characters with an ellipsis. Sessions without turns get the
// placeholder.
func Title(turns []Turn) string {
	if len(turns) == 0 {
		return TitlePlaceholder
	}

	first := turns[0]
	for _, turn := range turns[1:] {
		if turn.Timestamp.Before(first.Timestamp) {
			first = turn
		}
	}
	return TruncateTitle(first.Message)
}

// TruncateTitle shortens a candidate title to the display limit and
// always appends the ellipsis, matching the sidebar rendering. Truncation
// counts runes, not bytes, so multibyte text is not split.
func TruncateTitle(s string) string {
	if s == "" {
		return TitlePlaceholder
	}
	runes := []rune(s)
	if len(runes) > titleMaxRunes {
		runes = runes[:titleMaxRunes]
	}
	return string(runes) + "..."
}

// SessionSummary is the list entry shown in the conversation sidebar.
type SessionSummary struct {
	ID        string
	Title     string
	TurnCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SortSessions orders the sidebar: sessions with turns come before empty
// ones, newest created first within each group.
func SortSessions(sessions []SessionSummary) {
	sort.SliceStable(sessions, func(i, j int) bool {
		iHasTurns := sessions[i].TurnCount > 0
		jHasTurns := sessions[j].TurnCount > 0
		if iHasTurns != jHasTurns {
			return iHasTurns
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
}
