package seeds

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/travel-recommender/internal/catalog"
	"github.com/actuallystonmai/travel-recommender/internal/domain"
	"github.com/actuallystonmai/travel-recommender/internal/logging"
)

// Store is the part of the repository seeding needs.
type Store interface {
	Truncate(ctx context.Context) error
	InsertDestinations(ctx context.Context, rows []domain.DestinationRow) (int64, error)
}

// Setup replaces the destinations table with the rows of the JSON file at path.
func Setup(ctx context.Context, store Store, path string) error {
	rows, err := catalog.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}

	logging.Info().Msg("[seed] truncating existing destinations")
	if err := store.Truncate(ctx); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	logging.Info().Int("rows", len(rows)).Msg("[seed] inserting destinations")
	n, err := store.InsertDestinations(ctx, dedupe(rows))
	if err != nil {
		return fmt.Errorf("seed destinations: %w", err)
	}

	logging.Info().Int64("inserted", n).Msg("[seed] seeding complete")
	return nil
}

// dedupe keeps the first row of every name; the table has a unique name.
func dedupe(rows []domain.DestinationRow) []domain.DestinationRow {
	seen := make(map[string]bool, len(rows))
	out := make([]domain.DestinationRow, 0, len(rows))
	for _, r := range rows {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}
