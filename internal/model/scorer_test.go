package model

import (
	"errors"
	"testing"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

func mustPreference(t *testing.T, climate string, duration, budget int, interests ...string) domain.Preference {
	t.Helper()
	p, err := domain.NewPreference(climate, duration, budget, interests)
	if err != nil {
		t.Fatalf("NewPreference: %v", err)
	}
	return p
}

func TestScoreTropicalFoodScenario(t *testing.T) {
	pref := mustPreference(t, "tropical", 5, 2000, "food")

	d := DefaultEnricher().Enrich(domain.DestinationRow{
		Name:   "X",
		Reason: "Tropical paradise, great food scene",
	})
	d.Cost = 1800

	if d.Climate != domain.ClimateTropical {
		t.Fatalf("expected tropical, got %q", d.Climate)
	}
	if !d.HasTag(domain.InterestFood) {
		t.Fatalf("expected food tag, got %v", d.Tags)
	}
	if !PassesHardFilter(d, pref) {
		t.Fatal("expected destination to pass the hard filter")
	}

	// 40 + 20 + 25*0.9 + 5 = 87.5
	got, err := NewWeightedPoints().Score(d, pref)
	if err != nil {
		t.Fatalf("weighted points: %v", err)
	}
	if got != 87 {
		t.Errorf("weighted points: expected 87, got %d", got)
	}

	// 40 + 35 + 22.5 + 5 = 102.5, clamped
	got, err = NewFeatureRatio().Score(d, pref)
	if err != nil {
		t.Fatalf("feature ratio: %v", err)
	}
	if got != 100 {
		t.Errorf("feature ratio: expected 100, got %d", got)
	}
}

func TestBudgetFarAboveContributesNothing(t *testing.T) {
	pref := mustPreference(t, "cold", 5, 500, "adventure")
	d := domain.Destination{
		Name:    "Far",
		Climate: domain.ClimateCold,
		Tags:    []domain.Interest{domain.InterestAdventure},
		Cost:    5000,
	}

	f, err := ExtractFeatures(d, pref)
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	if f.BudgetAffinity != 0 {
		t.Errorf("expected zero budget affinity, got %f", f.BudgetAffinity)
	}

	wp, _ := NewWeightedPoints().Score(d, pref)
	if wp != 65 {
		t.Errorf("weighted points: expected 65, got %d", wp)
	}
	fr, _ := NewFeatureRatio().Score(d, pref)
	if fr != 80 {
		t.Errorf("feature ratio: expected 80, got %d", fr)
	}
}

func TestWeightedPointsInterestCap(t *testing.T) {
	pref := mustPreference(t, "moderate", 7, 3000, "adventure", "culture", "relaxation", "food")
	d := domain.Destination{
		Climate: domain.ClimateModerate,
		Tags:    domain.Interests,
		Cost:    3000,
	}

	// 40 + min(80, 60) + 25 + 5 = 130, clamped
	got, err := NewWeightedPoints().Score(d, pref)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != MaxScore {
		t.Errorf("expected %d, got %d", MaxScore, got)
	}
}

func TestFeatureRatioPartialInterests(t *testing.T) {
	pref := mustPreference(t, "moderate", 7, 3000, "adventure", "culture", "relaxation", "food")
	d := domain.Destination{
		Climate: domain.ClimateModerate,
		Tags:    []domain.Interest{domain.InterestCulture},
		Cost:    3000,
	}

	// 40 + 35*0.25 + 25 + 5 = 78.75
	got, _ := NewFeatureRatio().Score(d, pref)
	if got != 78 {
		t.Errorf("expected 78, got %d", got)
	}
}

func TestFeatureRatioNoInterests(t *testing.T) {
	pref := mustPreference(t, "cold", 7, 3000)
	d := domain.Destination{Climate: domain.ClimateCold, Cost: 3000}

	f, err := ExtractFeatures(d, pref)
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	if f.InterestRatio != 0 {
		t.Errorf("expected zero interest ratio, got %f", f.InterestRatio)
	}
}

func TestScoreRejectsZeroBudget(t *testing.T) {
	var pref domain.Preference
	d := domain.Destination{Climate: domain.ClimateCold, Cost: 3000}

	for _, s := range []Scorer{NewWeightedPoints(), NewFeatureRatio()} {
		if _, err := s.Score(d, pref); !errors.Is(err, domain.ErrInvalidBudget) {
			t.Errorf("%s: expected ErrInvalidBudget, got %v", s.Name(), err)
		}
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	scorers := []Scorer{NewWeightedPoints(), NewFeatureRatio()}
	costs := []int{0, 1, 500, 2500, 5000, 100000}

	for _, budget := range []int{500, 1200, 5000} {
		pref := mustPreference(t, "tropical", 4, budget, "food", "adventure")
		for _, cost := range costs {
			for _, tags := range [][]domain.Interest{nil, {domain.InterestFood}, domain.Interests} {
				d := domain.Destination{Climate: domain.ClimateTropical, Tags: tags, Cost: cost}
				for _, s := range scorers {
					got, err := s.Score(d, pref)
					if err != nil {
						t.Fatalf("%s: %v", s.Name(), err)
					}
					if got < MinScore || got > MaxScore {
						t.Errorf("%s: score %d out of range (budget=%d cost=%d)", s.Name(), got, budget, cost)
					}
				}
			}
		}
	}
}

func TestNewScorer(t *testing.T) {
	for _, name := range []string{StrategyWeightedPoints, StrategyFeatureRatio} {
		s, err := NewScorer(name)
		if err != nil {
			t.Fatalf("NewScorer(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("expected %q, got %q", name, s.Name())
		}
	}

	if _, err := NewScorer("random"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
