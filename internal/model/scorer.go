package model

import (
	"fmt"
	"math"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

const (
	MinScore = 0
	MaxScore = 100

	StrategyWeightedPoints = "weighted_points"
	StrategyFeatureRatio   = "feature_ratio"
)

// Scorer maps a destination and a preference to a satisfaction score in
// [MinScore, MaxScore].
type Scorer interface {
	Name() string
	Score(d domain.Destination, p domain.Preference) (int, error)
}

// Features are the normalized signals both scorers are built on.
type Features struct {
	ClimateMatch   float64 // 1 or 0
	InterestHits   int
	InterestRatio  float64 // hits / requested interests, 0 when none requested
	BudgetAffinity float64 // in [0,1]
}

func ExtractFeatures(d domain.Destination, p domain.Preference) (Features, error) {
	affinity, err := budgetAffinity(p.Budget(), d.Cost)
	if err != nil {
		return Features{}, err
	}

	var f Features
	if d.Climate != domain.ClimateUnknown && d.Climate == p.Climate() {
		f.ClimateMatch = 1
	}

	interests := p.Interests()
	for _, in := range interests {
		if d.HasTag(in) {
			f.InterestHits++
		}
	}
	if len(interests) > 0 {
		f.InterestRatio = float64(f.InterestHits) / float64(len(interests))
	}
	f.BudgetAffinity = affinity

	return f, nil
}

// budgetAffinity is max(0, 1 - |budget-cost|/budget).
func budgetAffinity(budget, cost int) (float64, error) {
	if budget <= 0 {
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidBudget, budget)
	}
	diff := math.Abs(float64(budget-cost)) / float64(budget)
	return math.Max(0, 1-diff), nil
}

// clampScore floors raw and clamps it into [MinScore, MaxScore].
func clampScore(raw float64) int {
	return max(MinScore, min(MaxScore, int(math.Floor(raw))))
}

// WeightedPoints awards fixed points per matching feature.
type WeightedPoints struct {
	ClimatePoints  float64
	InterestPoints float64 // per matching tag
	InterestCap    float64
	BudgetPoints   float64
	Intercept      float64
}

func NewWeightedPoints() *WeightedPoints {
	return &WeightedPoints{
		ClimatePoints:  40,
		InterestPoints: 20,
		InterestCap:    60,
		BudgetPoints:   25,
		Intercept:      5,
	}
}

func (s *WeightedPoints) Name() string { return StrategyWeightedPoints }

func (s *WeightedPoints) Score(d domain.Destination, p domain.Preference) (int, error) {
	f, err := ExtractFeatures(d, p)
	if err != nil {
		return 0, err
	}
	interest := math.Min(float64(f.InterestHits)*s.InterestPoints, s.InterestCap)
	raw := s.ClimatePoints*f.ClimateMatch + interest + s.BudgetPoints*f.BudgetAffinity + s.Intercept
	return clampScore(raw), nil
}

// FeatureRatio is a linear model over the normalized features.
type FeatureRatio struct {
	ClimateWeight  float64
	InterestWeight float64
	BudgetWeight   float64
	Intercept      float64
}

func NewFeatureRatio() *FeatureRatio {
	return &FeatureRatio{
		ClimateWeight:  40,
		InterestWeight: 35,
		BudgetWeight:   25,
		Intercept:      5,
	}
}

func (s *FeatureRatio) Name() string { return StrategyFeatureRatio }

func (s *FeatureRatio) Score(d domain.Destination, p domain.Preference) (int, error) {
	f, err := ExtractFeatures(d, p)
	if err != nil {
		return 0, err
	}
	raw := s.ClimateWeight*f.ClimateMatch +
		s.InterestWeight*f.InterestRatio +
		s.BudgetWeight*f.BudgetAffinity +
		s.Intercept
	return clampScore(raw), nil
}

// NewScorer returns the scorer registered under name.
func NewScorer(name string) (Scorer, error) {
	switch name {
	case StrategyWeightedPoints:
		return NewWeightedPoints(), nil
	case StrategyFeatureRatio:
		return NewFeatureRatio(), nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q", name)
	}
}
