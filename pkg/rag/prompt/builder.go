package prompt

import (
	"fmt"
	"strings"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag"
)

const basePrompt = `You are a helpful AI assistant for Dextrends, a leading technology company specializing in digital financial services and blockchain solutions.

Your role is to:
1. Provide accurate information about Dextrends services and capabilities
2. Answer questions professionally and helpfully
3. Use the provided context information when available
4. Be honest when you don't have specific information
5. Maintain a professional yet approachable tone

Company Focus Areas:
- Digital Payment Solutions
- Blockchain Asset Management
- Smart Contract Development
- DeFi Integration
- Identity Verification (KYC/AML)
- Asset Tokenization
- CBDC Solutions
- Cryptocurrency Trading`

var styleAdditions = map[string]string{
	"friendly":       "Keep your responses warm and conversational.",
	"professional":   "Maintain a formal, business-appropriate tone.",
	"technical":      "Provide detailed technical information and explanations.",
	"conversational": "Use a natural, easy-going conversational style.",
	"authoritative":  "Speak with confidence and expertise on the subject matter.",
	"helpful":        "Focus on being maximally helpful and solution-oriented.",
	"detailed":       "Provide comprehensive, thorough responses with examples.",
	"precise":        "Give exact, specific information without unnecessary elaboration.",
	"step_by_step":   "Break down complex topics into clear, actionable steps.",
	"polite":         "Close the conversation warmly and offer further help.",
}

// SystemPrompt builds the generation system prompt for a response style.
func SystemPrompt(responseStyle string) string {
	return fmt.Sprintf("%s\n\nResponse Style: %s", basePrompt, styleAdditions[responseStyle])
}

// BuildContextString flattens retrieved context into the prompt sections.
// Vector hits are capped at three, memories at two.
func BuildContextString(retrieved *rag.RetrievedContext) string {
	if retrieved == nil {
		return ""
	}

	var parts []string

	if len(retrieved.VectorResults) > 0 {
		parts = append(parts, "=== COMPANY INFORMATION ===")
		results := retrieved.VectorResults
		if len(results) > 3 {
			results = results[:3]
		}
		for _, result := range results {
			title := result.Title
			if title == "" {
				title = "Information"
			}
			parts = append(parts, fmt.Sprintf("[%s] (Relevance: %.2f)\n%s\n", title, result.Score, result.Content))
		}
	}

	if len(retrieved.Memories) > 0 {
		parts = append(parts, "=== PREVIOUS INTERACTIONS ===")
		memories := retrieved.Memories
		if len(memories) > 2 {
			memories = memories[:2]
		}
		for _, memory := range memories {
			parts = append(parts, fmt.Sprintf("Previous context: %s\n", memory.Content))
		}
	}

	return strings.Join(parts, "\n")
}

// BuildConversationContext renders the last five messages of the history.
func BuildConversationContext(history []llm.Message) string {
	if len(history) == 0 {
		return ""
	}

	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	parts := make([]string, 0, len(recent))
	for _, msg := range recent {
		parts = append(parts, fmt.Sprintf("%s: %s", capitalize(msg.Role), msg.Content))
	}
	return strings.Join(parts, "\n")
}

// UserPrompt assembles the final generation prompt.
func UserPrompt(query, contextString, conversationContext string) string {
	if contextString == "" {
		contextString = "No specific context available"
	}
	if conversationContext == "" {
		conversationContext = "No previous conversation"
	}

	return fmt.Sprintf(`User Query: %s

Context Information:
%s

Recent Conversation:
%s

Please provide a helpful and accurate response based on the available information about Dextrends services.`, query, contextString, conversationContext)
}

// ExtractSources builds the citation list, capped at five entries.
func ExtractSources(retrieved *rag.RetrievedContext) []rag.Source {
	if retrieved == nil {
		return nil
	}

	var sources []rag.Source
	for _, result := range retrieved.VectorResults {
		sources = append(sources, rag.Source{
			Type:           result.Type,
			Title:          result.Title,
			Category:       result.Category,
			Source:         "Knowledge Base",
			RelevanceScore: result.Score,
		})
	}
	for _, memory := range retrieved.Memories {
		sources = append(sources, rag.Source{
			Type:           "Previous Interaction",
			Source:         "Conversation History",
			RelevanceScore: memory.Score,
		})
	}

	if len(sources) > 5 {
		sources = sources[:5]
	}
	return sources
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
