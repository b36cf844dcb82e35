package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/actuallystonmai/travel-recommender/internal/catalog"
	"github.com/actuallystonmai/travel-recommender/internal/domain"
	"github.com/actuallystonmai/travel-recommender/internal/llm"
	"github.com/actuallystonmai/travel-recommender/internal/logging"
	"github.com/actuallystonmai/travel-recommender/internal/metrics"
	"github.com/actuallystonmai/travel-recommender/internal/model"
)

// Recorder counts served results per source.
type Recorder interface {
	Record(ctx context.Context, source domain.Source) error
}

// Deps wires a Service. Completer and Recorder are optional; without a
// Completer every live request is served from the catalog.
type Deps struct {
	Completer     llm.Completer
	Parser        llm.Parser
	Enricher      *model.Enricher
	Catalog       *catalog.Catalog
	LiveScorer    model.Scorer
	CatalogScorer model.Scorer
	Recorder      Recorder
}

type Service struct {
	completer     llm.Completer
	parser        llm.Parser
	enricher      *model.Enricher
	catalog       *catalog.Catalog
	liveScorer    model.Scorer
	catalogScorer model.Scorer
	recorder      Recorder
}

func NewService(d Deps) (*Service, error) {
	if d.Catalog == nil {
		return nil, fmt.Errorf("new service: %w", domain.ErrCatalogUnavailable)
	}
	if d.LiveScorer == nil || d.CatalogScorer == nil {
		return nil, errors.New("new service: scorers are required")
	}
	if d.Parser == nil {
		d.Parser = llm.NewLineParser()
	}
	if d.Enricher == nil {
		d.Enricher = model.DefaultEnricher()
	}

	return &Service{
		completer:     d.Completer,
		parser:        d.Parser,
		enricher:      d.Enricher,
		catalog:       d.Catalog,
		liveScorer:    d.LiveScorer,
		catalogScorer: d.CatalogScorer,
		recorder:      d.Recorder,
	}, nil
}

// Recommend asks the language model for candidates and ranks them. Any model
// failure, an answer without parseable lines or a ranking that filters out
// every candidate falls back to the static catalog. Model failures are never
// returned to the caller.
func (s *Service) Recommend(ctx context.Context, p domain.Preference) (*domain.RecommendationResult, error) {
	if candidates, ok := s.fromLLM(ctx, p); ok {
		ranked, err := model.FilterAndRank(candidates, p, s.liveScorer)
		if err != nil {
			return nil, fmt.Errorf("rank llm candidates: %w", err)
		}
		if len(ranked) > 0 {
			return s.finish(ctx, ranked, domain.SourceLLM, s.liveScorer, nil), nil
		}
		logging.Info().Int("candidates", len(candidates)).Msg("[service] no llm candidate passed the filter, using fallback")
	}

	ranked, err := model.FilterAndRank(s.catalog.Destinations(), p, s.liveScorer)
	if err != nil {
		return nil, fmt.Errorf("rank fallback catalog: %w", err)
	}
	return s.finish(ctx, ranked, domain.SourceFallback, s.liveScorer, nil), nil
}

// RecommendFromCatalog ranks the static catalog only and explains each pick
// with a generated reason.
func (s *Service) RecommendFromCatalog(ctx context.Context, p domain.Preference) (*domain.RecommendationResult, error) {
	ranked, err := model.FilterAndRank(s.catalog.Destinations(), p, s.catalogScorer)
	if err != nil {
		return nil, fmt.Errorf("rank catalog: %w", err)
	}
	return s.finish(ctx, ranked, domain.SourceCatalog, s.catalogScorer, func(d domain.Destination) string {
		return model.BuildReason(d, p)
	}), nil
}

// fromLLM returns enriched candidates, or false when the fallback should be used.
func (s *Service) fromLLM(ctx context.Context, p domain.Preference) ([]domain.Destination, bool) {
	if s.completer == nil {
		return nil, false
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, llm.BuildPrompt(p))
	elapsed := time.Since(start)
	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
			elapsed = 0
		}
		metrics.RecordLLMCall(outcome, elapsed)
		logging.Warn().Err(err).Str("outcome", outcome).Msg("[service] llm call failed, using fallback")
		return nil, false
	}
	logging.Debug().Str("text", text).Dur("elapsed", elapsed).Msg("[service] llm raw output")

	rows := s.parser.Parse(text)
	metrics.LLMParsedLines.Observe(float64(len(rows)))
	if len(rows) == 0 {
		metrics.RecordLLMCall("empty", elapsed)
		logging.Warn().Msg("[service] llm output had no parseable lines, using fallback")
		return nil, false
	}
	metrics.RecordLLMCall("success", elapsed)

	return s.enricher.EnrichAll(rows), true
}

func (s *Service) finish(ctx context.Context, ranked []domain.ScoredDestination, source domain.Source, scorer model.Scorer, reason func(domain.Destination) string) *domain.RecommendationResult {
	recs := make([]domain.Recommendation, 0, len(ranked))
	for _, sd := range ranked {
		r := sd.Destination.Reason
		if reason != nil {
			r = reason(sd.Destination)
		}
		recs = append(recs, domain.Recommendation{
			Name:              sd.Destination.Name,
			Description:       sd.Destination.Description,
			Reason:            r,
			SatisfactionScore: sd.Score,
		})
		metrics.SatisfactionScore.WithLabelValues(scorer.Name()).Observe(float64(sd.Score))
	}

	metrics.RecommendationsServed.WithLabelValues(string(source)).Inc()
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, source); err != nil {
			logging.Warn().Err(err).Str("source", string(source)).Msg("[service] stats record failed")
		}
	}

	logging.Info().
		Str("source", string(source)).
		Str("scorer", scorer.Name()).
		Int("count", len(recs)).
		Msg("[service] serving recommendations")

	return &domain.RecommendationResult{
		Recommendations: recs,
		Source:          source,
	}
}
