package prompt

import (
	"strings"
	"testing"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag"
)

func TestBuildContextStringCaps(t *testing.T) {
	retrieved := &rag.RetrievedContext{
		VectorResults: []rag.ContextItem{
			{Title: "One", Content: "first", Score: 0.9},
			{Title: "Two", Content: "second", Score: 0.8},
			{Title: "Three", Content: "third", Score: 0.7},
			{Title: "Four", Content: "fourth", Score: 0.6},
		},
		Memories: []rag.ContextItem{
			{Content: "memory one"},
			{Content: "memory two"},
			{Content: "memory three"},
		},
	}

	got := BuildContextString(retrieved)

	if !strings.Contains(got, "=== COMPANY INFORMATION ===") {
		t.Error("missing company information section")
	}
	if !strings.Contains(got, "=== PREVIOUS INTERACTIONS ===") {
		t.Error("missing previous interactions section")
	}
	if strings.Contains(got, "fourth") {
		t.Error("vector results should be capped at three")
	}
	if strings.Contains(got, "memory three") {
		t.Error("memories should be capped at two")
	}
	if !strings.Contains(got, "[One] (Relevance: 0.90)") {
		t.Errorf("unexpected vector entry formatting:\n%s", got)
	}
}

func TestBuildContextStringEmpty(t *testing.T) {
	if got := BuildContextString(&rag.RetrievedContext{}); got != "" {
		t.Errorf("expected empty context string, got %q", got)
	}
	if got := BuildContextString(nil); got != "" {
		t.Errorf("expected empty context string for nil, got %q", got)
	}
}

func TestBuildConversationContext(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
		{Role: "assistant", Content: "four"},
		{Role: "user", Content: "five"},
		{Role: "assistant", Content: "six"},
	}

	got := BuildConversationContext(history)

	if strings.Contains(got, "one") {
		t.Error("only the last five messages should be rendered")
	}
	if !strings.HasPrefix(got, "Assistant: two") {
		t.Errorf("unexpected first line:\n%s", got)
	}
	if !strings.Contains(got, "User: five") {
		t.Errorf("missing expected line:\n%s", got)
	}
}

func TestUserPromptFallbacks(t *testing.T) {
	got := UserPrompt("what do you offer", "", "")
	if !strings.Contains(got, "No specific context available") {
		t.Error("missing context fallback")
	}
	if !strings.Contains(got, "No previous conversation") {
		t.Error("missing conversation fallback")
	}
	if !strings.Contains(got, "what do you offer") {
		t.Error("query should appear in the prompt")
	}
}

func TestSystemPromptStyles(t *testing.T) {
	got := SystemPrompt("professional")
	if !strings.Contains(got, "Maintain a formal, business-appropriate tone.") {
		t.Error("style addition missing from system prompt")
	}
	if !strings.Contains(got, "Dextrends") {
		t.Error("base prompt missing from system prompt")
	}
}

func TestExtractSourcesCap(t *testing.T) {
	retrieved := &rag.RetrievedContext{
		VectorResults: []rag.ContextItem{
			{Type: "offering", Title: "A", Score: 0.9},
			{Type: "offering", Title: "B", Score: 0.8},
			{Type: "faq", Title: "C", Score: 0.7},
			{Type: "faq", Title: "D", Score: 0.6},
		},
		Memories: []rag.ContextItem{
			{Score: 0.5},
			{Score: 0.4},
		},
	}

	sources := ExtractSources(retrieved)

	if len(sources) != 5 {
		t.Fatalf("expected 5 sources, got %d", len(sources))
	}
	if sources[0].Source != "Knowledge Base" {
		t.Errorf("vector sources come first, got %+v", sources[0])
	}
	if sources[4].Source != "Conversation History" {
		t.Errorf("memory source expected last, got %+v", sources[4])
	}
}
