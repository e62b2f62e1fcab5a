package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag"
)

const rewriteSystemPrompt = `You are a query rewriting expert for a financial technology and blockchain company (Dextrends).
Your task is to rewrite user queries to be more specific, clear, and suitable for semantic search.

Guidelines:
1. Expand abbreviations and technical terms
2. Add relevant context from conversation history if provided
3. Make implicit questions explicit
4. Preserve the original intent
5. Focus on Dextrends services: digital payments, blockchain, DeFi, smart contracts, asset management, etc.
6. If the query is already clear and specific, return it as is

Return only the rewritten query, nothing else.`

const intentSystemPrompt = `You are an intent classification expert for Dextrends, a financial technology and blockchain company.

Classify user queries into one of these intents:
- company_info: Questions about company, history, mission, team
- service_inquiry: Questions about specific services or capabilities
- pricing: Questions about costs, fees, pricing models
- technical_support: Technical issues, troubleshooting, how-to questions
- integration: Questions about APIs, integrations, implementation
- security: Security-related questions, compliance, safety
- compliance: Regulatory, legal, compliance questions
- general_faq: General frequently asked questions
- greeting: Greetings, introductions
- goodbye: Farewells, ending conversation
- unknown: Cannot determine intent

Respond in JSON format: {"intent": "intent_name", "confidence": 0.95}
Confidence should be between 0.0 and 1.0.`

const queryTypeSystemPrompt = `You are a query classification expert for Dextrends, a financial technology and blockchain company.

Your task is to classify user queries to determine which knowledge collections to search:

**OFFERING**: Queries about company services, products, solutions, capabilities, features
**FAQ**: Common questions, general inquiries, how-to questions, support queries
**BOTH**: Complex queries that need both service info and FAQ knowledge
**GENERAL**: Greetings, conversations, or queries not requiring specific knowledge

Respond in JSON format: {"query_type": "offering|faq|both|general", "confidence": 0.95}
Confidence should be between 0.0 and 1.0.`

// Processor rewrites, classifies and routes user queries. Every stage
// falls back to a safe default when the model call fails, so a broken
// classifier never breaks the chat itself.
type Processor struct {
	provider llm.LLMProvider
}

func NewProcessor(provider llm.LLMProvider) *Processor {
	return &Processor{provider: provider}
}

// Rewrite reformulates the query for retrieval using recent history.
func (p *Processor) Rewrite(ctx context.Context, userQuery string, history []llm.Message) string {
	var contextStr string
	if len(history) > 0 {
		recent := history
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		parts := make([]string, 0, len(recent))
		for _, msg := range recent {
			parts = append(parts, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
		}
		contextStr = strings.Join(parts, "\n")
	}
	if contextStr == "" {
		contextStr = "No previous conversation context"
	}

	userPrompt := fmt.Sprintf("Original query: %s\n\nConversation context:\n%s\n\nRewrite this query for better semantic search:", userQuery, contextStr)

	completion, err := p.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: rewriteSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(0.3), llm.WithMaxTokens(150))
	if err != nil {
		return userQuery // Fallback to the original query
	}

	rewritten := strings.TrimSpace(completion.Content)
	if rewritten == "" {
		return userQuery
	}
	return rewritten
}

// ClassifyIntent returns the intent with a confidence score.
func (p *Processor) ClassifyIntent(ctx context.Context, query string) (rag.Intent, float64) {
	completion, err := p.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: intentSystemPrompt},
		{Role: "user", Content: "Classify this query: " + query},
	}, llm.WithTemperature(0.1), llm.WithMaxTokens(50))
	if err != nil {
		return rag.IntentUnknown, 0.3
	}

	var result struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(StripCodeFence(completion.Content)), &result); err != nil {
		return rag.IntentUnknown, 0.3
	}

	intent := ParseIntent(result.Intent)
	confidence := result.Confidence
	if intent == rag.IntentUnknown {
		confidence = 0.3
	}
	return intent, confidence
}

// ClassifyQueryType picks the collection routing class.
func (p *Processor) ClassifyQueryType(ctx context.Context, query string, intent rag.Intent) (rag.QueryType, float64) {
	userPrompt := fmt.Sprintf("Query: %s\nIntent: %s\n\nClassify the query type for collection routing:", query, intent)

	completion, err := p.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: queryTypeSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(0.1), llm.WithMaxTokens(100))
	if err != nil {
		return rag.QueryTypeGeneral, 0.3
	}

	text := StripCodeFence(completion.Content)

	var result struct {
		QueryType  string  `json:"query_type"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		// Fallback: scan the raw text for a known class
		return queryTypeFromText(text)
	}

	queryType, ok := parseQueryType(result.QueryType)
	if !ok {
		return rag.QueryTypeGeneral, 0.3
	}
	return queryType, result.Confidence
}

// Process runs the full stage: rewrite, classify, enhance, route.
func (p *Processor) Process(ctx context.Context, userQuery string, history []llm.Message) *rag.ProcessedQuery {
	rewritten := p.Rewrite(ctx, userQuery, history)
	intent, confidence := p.ClassifyIntent(ctx, rewritten)
	queryType, typeConfidence := p.ClassifyQueryType(ctx, rewritten, intent)
	enhanced := EnhanceWithKeywords(rewritten, intent)
	routing := Route(intent, queryType, confidence)

	return &rag.ProcessedQuery{
		OriginalQuery:    userQuery,
		RewrittenQuery:   rewritten,
		EnhancedQuery:    enhanced,
		Intent:           intent,
		IntentConfidence: confidence,
		QueryType:        queryType,
		TypeConfidence:   typeConfidence,
		Routing:          routing,
	}
}

// StripCodeFence removes a markdown ```json fence around a model response.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseIntent maps a raw string onto a known intent, defaulting to unknown.
func ParseIntent(s string) rag.Intent {
	switch rag.Intent(strings.TrimSpace(strings.ToLower(s))) {
	case rag.IntentCompanyInfo, rag.IntentServiceInquiry, rag.IntentPricing,
		rag.IntentTechnicalSupport, rag.IntentIntegration, rag.IntentSecurity,
		rag.IntentCompliance, rag.IntentGeneralFAQ, rag.IntentGreeting,
		rag.IntentGoodbye:
		return rag.Intent(strings.TrimSpace(strings.ToLower(s)))
	default:
		return rag.IntentUnknown
	}
}

func parseQueryType(s string) (rag.QueryType, bool) {
	switch rag.QueryType(strings.TrimSpace(strings.ToLower(s))) {
	case rag.QueryTypeOffering:
		return rag.QueryTypeOffering, true
	case rag.QueryTypeFAQ:
		return rag.QueryTypeFAQ, true
	case rag.QueryTypeBoth:
		return rag.QueryTypeBoth, true
	case rag.QueryTypeGeneral:
		return rag.QueryTypeGeneral, true
	default:
		return rag.QueryTypeGeneral, false
	}
}

func queryTypeFromText(text string) (rag.QueryType, float64) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "offering"):
		return rag.QueryTypeOffering, 0.7
	case strings.Contains(lower, "faq"):
		return rag.QueryTypeFAQ, 0.7
	case strings.Contains(lower, "both"):
		return rag.QueryTypeBoth, 0.7
	default:
		return rag.QueryTypeGeneral, 0.5
	}
}

var intentKeywords = map[rag.Intent][]string{
	rag.IntentCompanyInfo:      {"Dextrends", "company", "about", "mission", "history", "team"},
	rag.IntentServiceInquiry:   {"services", "solutions", "platform", "features", "capabilities"},
	rag.IntentPricing:          {"cost", "price", "fee", "pricing", "rates", "charges", "subscription"},
	rag.IntentTechnicalSupport: {"help", "support", "troubleshooting", "issue", "problem", "how to"},
	rag.IntentIntegration:      {"API", "integration", "connect", "implement", "setup", "developer"},
	rag.IntentSecurity:         {"security", "safe", "encryption", "protection", "secure", "safety"},
	rag.IntentCompliance:       {"compliance", "regulatory", "legal", "KYC", "AML", "regulation"},
}

// EnhanceWithKeywords appends up to two intent keywords missing from the
// query, improving retrieval recall.
func EnhanceWithKeywords(query string, intent rag.Intent) string {
	keywords, ok := intentKeywords[intent]
	if !ok {
		return query
	}

	lower := strings.ToLower(query)
	var missing []string
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			missing = append(missing, kw)
		}
	}

	if len(missing) == 0 {
		return query
	}
	if len(missing) > 2 {
		missing = missing[:2]
	}
	return query + " " + strings.Join(missing, " ")
}

// Route derives retrieval parameters from the classification outcome.
func Route(intent rag.Intent, queryType rag.QueryType, confidence float64) rag.Routing {
	routing := rag.Routing{
		UseRAG:         true,
		SearchLimit:    5,
		ScoreThreshold: 0.4,
		ResponseStyle:  "informative",
		IncludeSources: true,
		Intent:         intent,
		QueryType:      queryType,
		Confidence:     confidence,
	}

	switch queryType {
	case rag.QueryTypeOffering:
		routing.Collections = []string{"offerings"}
	case rag.QueryTypeFAQ:
		routing.Collections = []string{"faq"}
	default:
		routing.Collections = []string{"both"}
	}

	switch intent {
	case rag.IntentCompanyInfo:
		routing.Collections = []string{"offerings"}
		routing.SearchLimit = 3
		routing.ResponseStyle = "professional"
	case rag.IntentServiceInquiry:
		routing.Collections = []string{"offerings"}
		routing.SearchLimit = 5
		routing.ResponseStyle = "detailed"
	case rag.IntentPricing:
		routing.Collections = []string{"both"}
		routing.SearchLimit = 4
		routing.ResponseStyle = "precise"
	case rag.IntentTechnicalSupport:
		routing.Collections = []string{"faq"}
		routing.SearchLimit = 6
		routing.ResponseStyle = "step_by_step"
		routing.EscalateToHuman = confidence < 0.7
	case rag.IntentIntegration:
		routing.Collections = []string{"both"}
		routing.SearchLimit = 5
		routing.ResponseStyle = "technical"
		routing.ScoreThreshold = 0.7
	case rag.IntentSecurity, rag.IntentCompliance:
		routing.Collections = []string{"both"}
		routing.SearchLimit = 4
		routing.ResponseStyle = "authoritative"
		routing.ScoreThreshold = 0.8
	case rag.IntentGeneralFAQ:
		routing.Collections = []string{"faq"}
		routing.SearchLimit = 5
		routing.ResponseStyle = "conversational"
		routing.ScoreThreshold = 0.65
	case rag.IntentGreeting:
		routing.UseRAG = false
		routing.ResponseStyle = "friendly"
		routing.Collections = nil
	case rag.IntentGoodbye:
		routing.UseRAG = false
		routing.ResponseStyle = "polite"
		routing.Collections = nil
	case rag.IntentUnknown:
		routing.Collections = []string{"both"}
		routing.SearchLimit = 3
		routing.ResponseStyle = "helpful"
		routing.ScoreThreshold = 0.6
		routing.EscalateToHuman = confidence < 0.4
	}

	return routing
}
