package model

import (
	"strings"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

// DefaultCost is assigned to destinations missing from the cost table.
const DefaultCost = 3000

// DefaultCosts is the built-in name to trip-cost table.
var DefaultCosts = map[string]int{
	"Kyoto, Japan":            1800,
	"Queenstown, New Zealand": 2000,
	"Reykjavík, Iceland":      3500,
}

type climateSynonyms struct {
	climate domain.Climate
	words   []string
}

// Checked in order; the first climate with a matching word wins.
var climateTable = []climateSynonyms{
	{domain.ClimateTropical, []string{"tropical", "warm", "humid", "equatorial"}},
	{domain.ClimateCold, []string{"cold", "cool", "snow", "arctic"}},
	{domain.ClimateModerate, []string{"moderate", "mild", "temperate", "spring"}},
}

// Meta is the structured metadata inferred from a reason text.
type Meta struct {
	Climate domain.Climate
	Tags    []domain.Interest
}

// Enricher turns unstructured destination rows into scored-ready candidates.
// It holds no mutable state and is safe for concurrent use.
type Enricher struct {
	costs       map[string]int
	defaultCost int
}

func NewEnricher(costs map[string]int, defaultCost int) *Enricher {
	c := make(map[string]int, len(costs))
	for k, v := range costs {
		c[k] = v
	}
	return &Enricher{costs: c, defaultCost: defaultCost}
}

func DefaultEnricher() *Enricher {
	return NewEnricher(DefaultCosts, DefaultCost)
}

// Enrich builds a new Destination from row. The row is not modified.
func (e *Enricher) Enrich(row domain.DestinationRow) domain.Destination {
	meta := InferMeta(row.Reason)
	return domain.Destination{
		Name:        row.Name,
		Description: row.Description,
		Reason:      row.Reason,
		Climate:     meta.Climate,
		Tags:        meta.Tags,
		Cost:        e.Cost(row.Name),
	}
}

func (e *Enricher) EnrichAll(rows []domain.DestinationRow) []domain.Destination {
	out := make([]domain.Destination, 0, len(rows))
	for _, r := range rows {
		out = append(out, e.Enrich(r))
	}
	return out
}

// Cost looks up name exactly; unknown names get the default cost.
func (e *Enricher) Cost(name string) int {
	if c, ok := e.costs[name]; ok {
		return c
	}
	return e.defaultCost
}

func InferMeta(text string) Meta {
	return Meta{
		Climate: InferClimate(text),
		Tags:    InferTags(text),
	}
}

// InferClimate returns domain.ClimateUnknown when no synonym appears in text.
func InferClimate(text string) domain.Climate {
	t := strings.ToLower(text)
	for _, row := range climateTable {
		for _, w := range row.words {
			if strings.Contains(t, w) {
				return row.climate
			}
		}
	}
	return domain.ClimateUnknown
}

func InferTags(text string) []domain.Interest {
	t := strings.ToLower(text)
	tags := []domain.Interest{}
	for _, tag := range domain.Interests {
		if strings.Contains(t, string(tag)) {
			tags = append(tags, tag)
		}
	}
	return tags
}
