package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
	"github.com/actuallystonmai/travel-recommender/internal/logging"
	"github.com/actuallystonmai/travel-recommender/internal/validation"
)

// POST /api/recommendations
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, h.service.Recommend)
}

// POST /api/recommendations_api
func (h *Handler) PostCatalogRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, h.service.RecommendFromCatalog)
}

type recommendFunc func(ctx context.Context, p domain.Preference) (*domain.RecommendationResult, error)

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, fn recommendFunc) {
	pref, ok := decodePreference(w, r)
	if !ok {
		return
	}

	result, err := fn(r.Context(), pref)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPreference), errors.Is(err, domain.ErrInvalidBudget):
			writeError(w, http.StatusBadRequest, "invalid_preference", err.Error())
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
		default:
			logging.Error().Err(err).Msg("[handler] recommendation failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		}
		return
	}

	recs := result.Recommendations
	if recs == nil {
		recs = []domain.Recommendation{}
	}

	w.Header().Set(SourceHeader, string(result.Source))
	writeJSON(w, http.StatusOK, RecommendationResponse{Recommendations: recs})
}

// decodePreference reads and validates the request body. On failure it has
// already written the error response.
func decodePreference(w http.ResponseWriter, r *http.Request) (domain.Preference, bool) {
	var req RecommendationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object with climate, budget, duration and interests")
		return domain.Preference{}, false
	}

	if err := validation.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return domain.Preference{}, false
	}

	pref, err := domain.NewPreference(req.Climate, req.Duration, req.Budget, req.Interests)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_preference", err.Error())
		return domain.Preference{}, false
	}
	return pref, true
}
