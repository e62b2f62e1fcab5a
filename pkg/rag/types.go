package rag

// Query intent categories.
type Intent string

const (
	IntentCompanyInfo      Intent = "company_info"
	IntentServiceInquiry   Intent = "service_inquiry"
	IntentPricing          Intent = "pricing"
	IntentTechnicalSupport Intent = "technical_support"
	IntentIntegration      Intent = "integration"
	IntentSecurity         Intent = "security"
	IntentCompliance       Intent = "compliance"
	IntentGeneralFAQ       Intent = "general_faq"
	IntentGreeting         Intent = "greeting"
	IntentGoodbye          Intent = "goodbye"
	IntentUnknown          Intent = "unknown"
)

// QueryType decides which knowledge collections to search.
type QueryType string

const (
	QueryTypeOffering QueryType = "offering"
	QueryTypeFAQ      QueryType = "faq"
	QueryTypeBoth     QueryType = "both"
	QueryTypeGeneral  QueryType = "general"
)

// Routing carries the retrieval parameters derived from classification.
type Routing struct {
	UseRAG          bool
	Collections     []string // "offerings", "faq" or "both"
	SearchLimit     int
	ScoreThreshold  float32
	ResponseStyle   string
	IncludeSources  bool
	EscalateToHuman bool
	Intent          Intent
	QueryType       QueryType
	Confidence      float64
}

// ProcessedQuery is the output of the query processing stage.
type ProcessedQuery struct {
	OriginalQuery    string
	RewrittenQuery   string
	EnhancedQuery    string
	Intent           Intent
	IntentConfidence float64
	QueryType        QueryType
	TypeConfidence   float64
	Routing          Routing
}

// ContextItem is one retrieved piece of context, from the vector store or
// from long-term memory.
type ContextItem struct {
	Source   string
	Type     string
	Title    string
	Content  string
	Category string
	Score    float64
}

// RetrievedContext groups everything fetched for one query.
type RetrievedContext struct {
	VectorResults []ContextItem
	Memories      []ContextItem
}

// Source is a citation entry returned alongside the response.
type Source struct {
	Type           string  `json:"type"`
	Title          string  `json:"title,omitempty"`
	Category       string  `json:"category,omitempty"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Result is the full pipeline output for one query.
type Result struct {
	Response        string
	Sources         []Source
	VectorResults   int
	MemoryResults   int
	HistoryMessages int
	TokensUsed      int
	ModelUsed       string
	Processing      *ProcessedQuery
}
