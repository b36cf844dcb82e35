package handler

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
	"github.com/actuallystonmai/travel-recommender/internal/logging"
)

// SourceHeader names the path that produced a recommendation response.
const SourceHeader = "X-Recommendation-Source"

const maxBodyBytes = 1 << 20

type Recommender interface {
	Recommend(ctx context.Context, p domain.Preference) (*domain.RecommendationResult, error)
	RecommendFromCatalog(ctx context.Context, p domain.Preference) (*domain.RecommendationResult, error)
}

type StatsReader interface {
	Counts(ctx context.Context) (map[domain.Source]int64, error)
}

type Handler struct {
	service Recommender
	stats   StatsReader
}

func NewHandler(svc Recommender, stats StatsReader) *Handler {
	return &Handler{service: svc, stats: stats}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("[handler] encode response")
	}
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
