package handler

import "github.com/actuallystonmai/travel-recommender/internal/domain"

// RecommendationRequest is the body of both recommendation endpoints.
type RecommendationRequest struct {
	Climate   string   `json:"climate" validate:"required,oneof=tropical cold moderate"`
	Budget    int      `json:"budget" validate:"min=500,max=5000"`
	Duration  int      `json:"duration" validate:"min=1,max=14"`
	Interests []string `json:"interests" validate:"required,dive,oneof=adventure culture relaxation food"`
}

type RecommendationResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

type StatsResponse struct {
	Sources map[domain.Source]int64 `json:"sources"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
