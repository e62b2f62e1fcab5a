package query

import (
	"strings"
	"testing"

	"ai-chatbot-be/pkg/rag"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name            string
		intent          rag.Intent
		queryType       rag.QueryType
		confidence      float64
		wantCollections []string
		wantLimit       int
		wantThreshold   float32
		wantStyle       string
		wantUseRAG      bool
		wantEscalate    bool
	}{
		{
			name:            "company info searches offerings only",
			intent:          rag.IntentCompanyInfo,
			queryType:       rag.QueryTypeOffering,
			confidence:      0.9,
			wantCollections: []string{"offerings"},
			wantLimit:       3,
			wantThreshold:   0.4,
			wantStyle:       "professional",
			wantUseRAG:      true,
		},
		{
			name:            "technical support widens the faq search",
			intent:          rag.IntentTechnicalSupport,
			queryType:       rag.QueryTypeFAQ,
			confidence:      0.5,
			wantCollections: []string{"faq"},
			wantLimit:       6,
			wantThreshold:   0.4,
			wantStyle:       "step_by_step",
			wantUseRAG:      true,
			wantEscalate:    true,
		},
		{
			name:            "security raises the score bar",
			intent:          rag.IntentSecurity,
			queryType:       rag.QueryTypeBoth,
			confidence:      0.9,
			wantCollections: []string{"both"},
			wantLimit:       4,
			wantThreshold:   0.8,
			wantStyle:       "authoritative",
			wantUseRAG:      true,
		},
		{
			name:       "greeting skips retrieval",
			intent:     rag.IntentGreeting,
			queryType:  rag.QueryTypeGeneral,
			confidence: 0.95,
			wantLimit:  5,
			wantStyle:  "friendly",
			wantUseRAG: false,
		},
		{
			name:            "unknown intent stays conservative",
			intent:          rag.IntentUnknown,
			queryType:       rag.QueryTypeGeneral,
			confidence:      0.3,
			wantCollections: []string{"both"},
			wantLimit:       3,
			wantThreshold:   0.6,
			wantStyle:       "helpful",
			wantUseRAG:      true,
			wantEscalate:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routing := Route(tt.intent, tt.queryType, tt.confidence)

			if routing.UseRAG != tt.wantUseRAG {
				t.Errorf("UseRAG = %v, want %v", routing.UseRAG, tt.wantUseRAG)
			}
			if routing.SearchLimit != tt.wantLimit {
				t.Errorf("SearchLimit = %d, want %d", routing.SearchLimit, tt.wantLimit)
			}
			if tt.wantUseRAG && routing.ScoreThreshold != tt.wantThreshold {
				t.Errorf("ScoreThreshold = %v, want %v", routing.ScoreThreshold, tt.wantThreshold)
			}
			if routing.ResponseStyle != tt.wantStyle {
				t.Errorf("ResponseStyle = %q, want %q", routing.ResponseStyle, tt.wantStyle)
			}
			if routing.EscalateToHuman != tt.wantEscalate {
				t.Errorf("EscalateToHuman = %v, want %v", routing.EscalateToHuman, tt.wantEscalate)
			}
			if len(routing.Collections) != len(tt.wantCollections) {
				t.Fatalf("Collections = %v, want %v", routing.Collections, tt.wantCollections)
			}
			for i, want := range tt.wantCollections {
				if routing.Collections[i] != want {
					t.Errorf("Collections[%d] = %q, want %q", i, routing.Collections[i], want)
				}
			}
		})
	}
}

func TestQueryTypeDrivesDefaultCollections(t *testing.T) {
	tests := []struct {
		queryType rag.QueryType
		want      string
	}{
		{rag.QueryTypeOffering, "offerings"},
		{rag.QueryTypeFAQ, "faq"},
		{rag.QueryTypeBoth, "both"},
		{rag.QueryTypeGeneral, "both"},
	}
	for _, tt := range tests {
		// An intent without routing overrides leaves the query-type default.
		routing := Route(rag.Intent("neutral"), tt.queryType, 0.9)
		if len(routing.Collections) != 1 || routing.Collections[0] != tt.want {
			t.Errorf("query type %s routed to %v, want [%s]", tt.queryType, routing.Collections, tt.want)
		}
	}
}

func TestEnhanceWithKeywords(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		intent rag.Intent
		want   string
	}{
		{
			name:   "adds up to two missing keywords",
			query:  "how much does it cost",
			intent: rag.IntentPricing,
			want:   "how much does it cost price fee",
		},
		{
			name:   "present keywords are not repeated",
			query:  "pricing and fee schedule cost",
			intent: rag.IntentPricing,
			want:   "pricing and fee schedule cost price rates",
		},
		{
			name:   "intent without keyword mapping leaves query alone",
			query:  "hello there",
			intent: rag.IntentGreeting,
			want:   "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnhanceWithKeywords(tt.query, tt.intent); got != tt.want {
				t.Errorf("EnhanceWithKeywords() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"intent":"pricing"}`, `{"intent":"pricing"}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseIntent(t *testing.T) {
	if got := ParseIntent("PRICING"); got != rag.IntentPricing {
		t.Errorf("ParseIntent should be case-insensitive, got %s", got)
	}
	if got := ParseIntent("made_up_intent"); got != rag.IntentUnknown {
		t.Errorf("unexpected intent for garbage input: %s", got)
	}
	if got := ParseIntent(strings.TrimSpace(" greeting ")); got != rag.IntentGreeting {
		t.Errorf("ParseIntent(greeting) = %s", got)
	}
}
