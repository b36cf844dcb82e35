package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

const destinationsTable = "destinations"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func listDestinationsQuery() squirrel.SelectBuilder {
	return psql.Select("name", "description", "reason").
		From(destinationsTable).
		OrderBy("position ASC", "id ASC")
}

// ListDestinations returns every row in insertion order.
func (r *Repository) ListDestinations(ctx context.Context) ([]domain.DestinationRow, error) {
	sql, args, err := listDestinationsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build destinations query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	defer rows.Close()

	var items []domain.DestinationRow
	for rows.Next() {
		var d domain.DestinationRow
		if err := rows.Scan(&d.Name, &d.Description, &d.Reason); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		items = append(items, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destinations: %w", err)
	}
	return items, nil
}

func insertDestinationsQuery(rows []domain.DestinationRow) squirrel.InsertBuilder {
	q := psql.Insert(destinationsTable).
		Columns("position", "name", "description", "reason").
		Suffix("ON CONFLICT (name) DO NOTHING")
	for i, d := range rows {
		q = q.Values(i, d.Name, d.Description, d.Reason)
	}
	return q
}

// InsertDestinations stores rows, skipping names that already exist. It
// returns the number of rows actually inserted.
func (r *Repository) InsertDestinations(ctx context.Context, rows []domain.DestinationRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql, args, err := insertDestinationsQuery(rows).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("insert destinations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count total destinations
func (r *Repository) CountDestinations(ctx context.Context) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").From(destinationsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count destinations: %w", err)
	}
	return total, nil
}

// Truncate removes every destination and resets the id sequence.
func (r *Repository) Truncate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE destinations RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate destinations: %w", err)
	}
	return nil
}
