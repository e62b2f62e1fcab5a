package conversation

import (
	"strings"
	"testing"
	"time"
)

func TestReconstructInterleavesTurns(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	turns := []Turn{
		{ID: "t2", Message: "second question", Response: "second answer", Timestamp: base.Add(time.Minute)},
		{ID: "t1", Message: "first question", Response: "first answer", Timestamp: base},
	}

	messages := Reconstruct(turns)

	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}

	wantOrder := []struct {
		id   string
		role string
		text string
	}{
		{"t1:user", "user", "first question"},
		{"t1:assistant", "assistant", "first answer"},
		{"t2:user", "user", "second question"},
		{"t2:assistant", "assistant", "second answer"},
	}
	for i, want := range wantOrder {
		if messages[i].ID != want.id || messages[i].Role != want.role || messages[i].Content != want.text {
			t.Errorf("message %d = %+v, want %+v", i, messages[i], want)
		}
	}
}

func TestReconstructSharesTurnTimestamp(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	messages := Reconstruct([]Turn{{ID: "t1", Message: "q", Response: "a", Timestamp: ts}})

	if !messages[0].Timestamp.Equal(ts) || !messages[1].Timestamp.Equal(ts) {
		t.Errorf("both halves of a turn should carry the turn timestamp")
	}
}

func TestReconstructIsIdempotent(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	turns := []Turn{
		{ID: "a", Message: "hello", Response: "hi", Timestamp: base},
		{ID: "b", Message: "more", Response: "sure", Timestamp: base.Add(time.Second)},
	}

	first := Reconstruct(turns)
	second := Reconstruct(turns)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("message %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestReconstructEmpty(t *testing.T) {
	if got := Reconstruct(nil); len(got) != 0 {
		t.Errorf("expected no messages for no turns, got %d", len(got))
	}
}

func TestTitle(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	long := strings.Repeat("x", 60)

	tests := []struct {
		name  string
		turns []Turn
		want  string
	}{
		{
			name:  "empty session uses placeholder",
			turns: nil,
			want:  TitlePlaceholder,
		},
		{
			name: "short first message gets the ellipsis suffix",
			turns: []Turn{
				{ID: "t1", Message: "Hello", Timestamp: base},
			},
			want: "Hello...",
		},
		{
			name: "long first message truncated at fifty",
			turns: []Turn{
				{ID: "t1", Message: long, Timestamp: base},
			},
			want: strings.Repeat("x", 50) + "...",
		},
		{
			name: "exactly fifty characters kept whole",
			turns: []Turn{
				{ID: "t1", Message: strings.Repeat("y", 50), Timestamp: base},
			},
			want: strings.Repeat("y", 50) + "...",
		},
		{
			name: "earliest turn wins regardless of slice order",
			turns: []Turn{
				{ID: "t2", Message: "later", Timestamp: base.Add(time.Hour)},
				{ID: "t1", Message: "earlier", Timestamp: base},
			},
			want: "earlier...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.turns); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateTitleStable(t *testing.T) {
	long := strings.Repeat("z", 80)
	once := TruncateTitle(long)
	// Running the derivation again over the same source must not drift.
	twice := TruncateTitle(long)
	if once != twice {
		t.Errorf("truncation not stable: %q vs %q", once, twice)
	}
}

func TestTruncateTitleMultibyte(t *testing.T) {
	long := strings.Repeat("日", 55)
	got := TruncateTitle(long)
	want := strings.Repeat("日", 50) + "..."
	if got != want {
		t.Errorf("TruncateTitle() = %q, want %q", got, want)
	}
}

func TestSortSessions(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sessions := []SessionSummary{
		{ID: "empty-new", TurnCount: 0, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "full-old", TurnCount: 2, CreatedAt: base},
		{ID: "empty-old", TurnCount: 0, CreatedAt: base.Add(time.Hour)},
		{ID: "full-new", TurnCount: 5, CreatedAt: base.Add(2 * time.Hour)},
	}

	SortSessions(sessions)

	wantOrder := []string{"full-new", "full-old", "empty-new", "empty-old"}
	for i, want := range wantOrder {
		if sessions[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, sessions[i].ID, want)
		}
	}
}
