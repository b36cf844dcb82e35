package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

const keyPrefix = "travel:recs:source:"

// ErrDisabled is returned by a nil *Store.
var ErrDisabled = errors.New("stats store disabled")

// Store counts served recommendation responses per source in Redis. It keeps
// counters only, never recommendation payloads.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func buildKey(source domain.Source) string {
	return keyPrefix + string(source)
}

// Record increments the counter for source.
func (s *Store) Record(ctx context.Context, source domain.Source) error {
	if s == nil {
		return ErrDisabled
	}
	if err := s.client.Incr(ctx, buildKey(source)).Err(); err != nil {
		return fmt.Errorf("increment %s: %w", buildKey(source), err)
	}
	return nil
}

// Counts returns the counter of every known source, zero when never recorded.
func (s *Store) Counts(ctx context.Context) (map[domain.Source]int64, error) {
	if s == nil {
		return nil, ErrDisabled
	}

	keys := make([]string, len(domain.Sources))
	for i, src := range domain.Sources {
		keys[i] = buildKey(src)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read source counters: %w", err)
	}
	return parseCounts(vals)
}

func parseCounts(vals []any) (map[domain.Source]int64, error) {
	out := make(map[domain.Source]int64, len(domain.Sources))
	for i, src := range domain.Sources {
		out[src] = 0
		if i >= len(vals) || vals[i] == nil {
			continue
		}
		str, ok := vals[i].(string)
		if !ok {
			return nil, fmt.Errorf("counter %s: unexpected type %T", src, vals[i])
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", src, err)
		}
		out[src] = n
	}
	return out, nil
}

// Ping connectivity
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return ErrDisabled
	}
	return s.client.Ping(ctx).Err()
}

// Connect parses url, opens a client and pings it once.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
