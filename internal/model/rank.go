package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

// MaxRecommendations caps every ranked result.
const MaxRecommendations = 3

// PassesHardFilter reports whether d matches the preferred climate and shares
// at least one interest with it. Destinations with unknown climate never pass.
func PassesHardFilter(d domain.Destination, p domain.Preference) bool {
	if d.Climate == domain.ClimateUnknown || d.Climate != p.Climate() {
		return false
	}
	for _, in := range p.Interests() {
		if d.HasTag(in) {
			return true
		}
	}
	return false
}

// FilterAndRank applies the hard filter, scores the survivors, sorts them by
// score descending (equal scores keep input order) and keeps the top
// MaxRecommendations. The input slice is left untouched.
func FilterAndRank(candidates []domain.Destination, p domain.Preference, scorer Scorer) ([]domain.ScoredDestination, error) {
	scored := make([]domain.ScoredDestination, 0, len(candidates))
	for _, d := range candidates {
		if !PassesHardFilter(d, p) {
			continue
		}
		score, err := scorer.Score(d, p)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", d.Name, err)
		}
		scored = append(scored, domain.ScoredDestination{
			Destination: d.Clone(),
			Score:       score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxRecommendations {
		scored = scored[:MaxRecommendations]
	}
	return scored, nil
}

// BuildReason explains in one line why d suits p.
func BuildReason(d domain.Destination, p domain.Preference) string {
	var pieces []string

	if d.Climate != domain.ClimateUnknown && d.Climate == p.Climate() {
		pieces = append(pieces, capitalize(string(p.Climate()))+" climate")
	}

	var overlap []string
	for _, tag := range d.Tags {
		if p.HasInterest(tag) {
			overlap = append(overlap, string(tag))
		}
	}
	if len(overlap) > 0 {
		pieces = append(pieces, strings.Join(overlap, " / ")+" activities")
	}

	switch {
	case p.Duration() > 9:
		pieces = append(pieces, fmt.Sprintf("ideal for an %d-day trip", p.Duration()))
	case p.Duration() < 3:
		pieces = append(pieces, "works even for a quick break")
	}

	if len(pieces) == 0 {
		return "Good overall fit"
	}
	return strings.Join(pieces, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
