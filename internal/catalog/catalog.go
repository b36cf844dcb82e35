// Package catalog holds the static fallback dataset. A Catalog is built once
// at startup and never changes afterwards.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

type Catalog struct {
	destinations []domain.Destination
}

// New copies dests into a new Catalog.
func New(dests []domain.Destination) *Catalog {
	c := &Catalog{destinations: make([]domain.Destination, len(dests))}
	for i, d := range dests {
		c.destinations[i] = d.Clone()
	}
	return c
}

// Destinations returns a deep copy, so callers may sort or modify it freely.
func (c *Catalog) Destinations() []domain.Destination {
	out := make([]domain.Destination, len(c.destinations))
	for i, d := range c.destinations {
		out[i] = d.Clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.destinations)
}

type fileFormat struct {
	Recommendations []domain.DestinationRow `json:"recommendations"`
}

// LoadFile reads rows from a JSON file of the form
// {"recommendations": [{"name", "description", "reason"}]}.
// A missing file returns os.ErrNotExist wrapped.
func LoadFile(path string) ([]domain.DestinationRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}

	rows := make([]domain.DestinationRow, 0, len(f.Recommendations))
	for _, r := range f.Recommendations {
		if r.Name == "" {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// IsMissing reports whether err came from a catalog file that does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
