package domain

// ScoredDestination is a destination paired with its satisfaction score.
type ScoredDestination struct {
	Destination Destination
	Score       int
}

type Recommendation struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Reason            string `json:"reason,omitempty"`
	SatisfactionScore int    `json:"satisfaction_score"`
}

// Source records which path produced a set of recommendations.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
	SourceCatalog  Source = "catalog"
)

var Sources = []Source{SourceLLM, SourceFallback, SourceCatalog}

type RecommendationResult struct {
	Recommendations []Recommendation
	Source          Source
}
