package retrieval

import (
	"context"

	"ai-chatbot-be/pkg/embedding"
	"ai-chatbot-be/pkg/memory/mem0"
	"ai-chatbot-be/pkg/rag"
	"ai-chatbot-be/pkg/vector/qdrant"
)

// EmbeddingCache memoizes query vectors between requests.
type EmbeddingCache interface {
	Get(query string) ([]float32, bool)
	Set(query string, vector []float32)
}

// Collections maps the logical collection names to Qdrant collections.
type Collections struct {
	Offerings string
	FAQ       string
}

// Retriever fetches context from the vector store and long-term memory.
// Retrieval failures degrade to empty context, they never fail the chat.
type Retriever struct {
	embedder    embedding.EmbeddingProvider
	vectors     *qdrant.Client
	memories    *mem0.Client
	cache       EmbeddingCache
	collections Collections
}

func NewRetriever(embedder embedding.EmbeddingProvider, vectors *qdrant.Client, memories *mem0.Client, cache EmbeddingCache, collections Collections) *Retriever {
	return &Retriever{
		embedder:    embedder,
		vectors:     vectors,
		memories:    memories,
		cache:       cache,
		collections: collections,
	}
}

// Retrieve gathers vector hits and memories for one query.
func (r *Retriever) Retrieve(ctx context.Context, query, userID, sessionID string, routing rag.Routing) *rag.RetrievedContext {
	retrieved := &rag.RetrievedContext{}

	if routing.UseRAG {
		retrieved.VectorResults = r.vectorSearch(ctx, query, routing)
	}
	retrieved.Memories = r.memorySearch(ctx, query, userID, sessionID)

	return retrieved
}

func (r *Retriever) vectorSearch(ctx context.Context, query string, routing rag.Routing) []rag.ContextItem {
	if r.vectors == nil || r.embedder == nil {
		return nil
	}

	vector, err := r.embed(ctx, query)
	if err != nil {
		return nil
	}

	var items []rag.ContextItem
	for _, collection := range r.resolveCollections(routing.Collections) {
		hits, err := r.vectors.Search(ctx, collection, vector, routing.SearchLimit, routing.ScoreThreshold)
		if err != nil {
			continue
		}
		for _, hit := range hits {
			items = append(items, rag.ContextItem{
				Source:   "vector_search",
				Type:     payloadString(hit.Payload, "type"),
				Title:    payloadString(hit.Payload, "title"),
				Content:  payloadString(hit.Payload, "content"),
				Category: payloadString(hit.Payload, "category"),
				Score:    float64(hit.Score),
			})
		}
	}
	return items
}

func (r *Retriever) embed(ctx context.Context, query string) ([]float32, error) {
	if r.cache != nil {
		if vector, found := r.cache.Get(query); found {
			return vector, nil
		}
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(query, vector)
	}
	return vector, nil
}

// memorySearch queries session-scoped memories first, then user-wide ones,
// dedupes, and caps the merge at five entries.
func (r *Retriever) memorySearch(ctx context.Context, query, userID, sessionID string) []rag.ContextItem {
	if r.memories == nil {
		return nil
	}

	sessionMemories, err := r.memories.Search(ctx, query, userID, sessionID, 3)
	if err != nil {
		sessionMemories = nil
	}
	userMemories, err := r.memories.Search(ctx, query, userID, "", 5)
	if err != nil {
		userMemories = nil
	}

	seen := make(map[string]bool, len(sessionMemories))
	merged := make([]mem0.Memory, 0, len(sessionMemories)+len(userMemories))
	for _, m := range sessionMemories {
		seen[m.ID] = true
		merged = append(merged, m)
	}
	for _, m := range userMemories {
		if !seen[m.ID] {
			merged = append(merged, m)
		}
	}
	if len(merged) > 5 {
		merged = merged[:5]
	}

	items := make([]rag.ContextItem, 0, len(merged))
	for _, m := range merged {
		items = append(items, rag.ContextItem{
			Source:  "mem0_memory",
			Type:    "memory",
			Content: m.Memory,
			Score:   m.Score,
		})
	}
	return items
}

func (r *Retriever) resolveCollections(logical []string) []string {
	var resolved []string
	for _, name := range logical {
		switch name {
		case "both":
			resolved = append(resolved, r.collections.Offerings, r.collections.FAQ)
		case "offerings":
			resolved = append(resolved, r.collections.Offerings)
		case "faq":
			resolved = append(resolved, r.collections.FAQ)
		}
	}
	return resolved
}

func payloadString(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
