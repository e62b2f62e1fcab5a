package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/memory/mem0"
	"ai-chatbot-be/pkg/rag"
	"ai-chatbot-be/pkg/rag/prompt"
	"ai-chatbot-be/pkg/rag/query"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// Pipeline is the full query path: process, retrieve, generate, memorize.
// Only the generation call is fatal; every other stage degrades to a
// weaker answer instead of an error.
type Pipeline struct {
	processor *query.Processor
	retriever *retrieval.Retriever
	generator llm.LLMProvider
	memories  *mem0.Client

	maxTokens   int
	temperature float64
}

func NewPipeline(processor *query.Processor, retriever *retrieval.Retriever, generator llm.LLMProvider, memories *mem0.Client, maxTokens int, temperature float64) *Pipeline {
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	if temperature <= 0 {
		temperature = 0.7
	}
	return &Pipeline{
		processor:   processor,
		retriever:   retriever,
		generator:   generator,
		memories:    memories,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Execute runs the pipeline for one user query.
func (p *Pipeline) Execute(ctx context.Context, userQuery, userID, sessionID string, history []llm.Message) (*rag.Result, error) {
	processed := p.processor.Process(ctx, userQuery, history)

	retrieved := p.retriever.Retrieve(ctx, processed.EnhancedQuery, userID, sessionID, processed.Routing)

	contextString := prompt.BuildContextString(retrieved)
	conversationContext := prompt.BuildConversationContext(history)

	completion, err := p.generator.Chat(ctx, []llm.Message{
		{Role: "system", Content: prompt.SystemPrompt(processed.Routing.ResponseStyle)},
		{Role: "user", Content: prompt.UserPrompt(userQuery, contextString, conversationContext)},
	}, llm.WithTemperature(p.temperature), llm.WithMaxTokens(p.maxTokens))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	response := strings.TrimSpace(completion.Content)

	p.storeInteraction(ctx, userQuery, response, userID, sessionID, processed)

	return &rag.Result{
		Response:        response,
		Sources:         prompt.ExtractSources(retrieved),
		VectorResults:   len(retrieved.VectorResults),
		MemoryResults:   len(retrieved.Memories),
		HistoryMessages: len(history),
		TokensUsed:      completion.TokensUsed,
		ModelUsed:       completion.Model,
		Processing:      processed,
	}, nil
}

// storeInteraction writes the exchange into long-term memory. Responses
// are truncated to keep memory entries small.
func (p *Pipeline) storeInteraction(ctx context.Context, userQuery, response, userID, sessionID string, processed *rag.ProcessedQuery) {
	if p.memories == nil {
		return
	}

	stored := response
	if len(stored) > 500 {
		stored = stored[:500] + "..."
	}

	_ = p.memories.Add(ctx, userID, sessionID, []mem0.Message{
		{Role: "user", Content: userQuery},
		{Role: "assistant", Content: stored},
	}, map[string]interface{}{
		"interaction_type": "qa",
		"session_id":       sessionID,
		"timestamp":        time.Now().Format(time.RFC3339),
		"query_intent":     string(processed.Intent),
	})
}
