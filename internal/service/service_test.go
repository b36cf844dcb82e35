package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/actuallystonmai/travel-recommender/internal/catalog"
	"github.com/actuallystonmai/travel-recommender/internal/domain"
	"github.com/actuallystonmai/travel-recommender/internal/model"
)

type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeRecorder struct {
	sources []domain.Source
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, source domain.Source) error {
	f.sources = append(f.sources, source)
	return f.err
}

func testCatalog() *catalog.Catalog {
	rows := []domain.DestinationRow{
		{Name: "Bali", Description: "Island", Reason: "tropical adventure"},
		{Name: "Kyoto, Japan", Description: "Temples", Reason: "mild culture and food"},
		{Name: "Phuket", Description: "Beaches", Reason: "warm relaxation and food"},
	}
	return catalog.New(model.DefaultEnricher().EnrichAll(rows))
}

func newTestService(t *testing.T, c *fakeCompleter, rec Recorder) *Service {
	t.Helper()
	deps := Deps{
		Catalog:       testCatalog(),
		LiveScorer:    model.NewWeightedPoints(),
		CatalogScorer: model.NewFeatureRatio(),
		Recorder:      rec,
	}
	if c != nil {
		deps.Completer = c
	}
	svc, err := NewService(deps)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func preference(t *testing.T) domain.Preference {
	t.Helper()
	p, err := domain.NewPreference("tropical", 7, 3000, []string{"adventure", "food"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

const llmText = `Sure! Here are three ideas:
1. Bali, Indonesia – Island paradise. Why: tropical beaches and adventure surfing
2. Tromsø, Norway - Arctic city. Why: cold fjords and adventure
3. Phuket, Thailand - Long beaches. Why: warm water, street food and adventure tours
4. Nowhere - missing the reason part.`

func TestRecommendFromLLM(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, &fakeCompleter{text: llmText}, rec)

	res, err := svc.Recommend(context.Background(), preference(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != domain.SourceLLM {
		t.Fatalf("expected llm source, got %s", res.Source)
	}

	want := []domain.Recommendation{
		{Name: "Phuket, Thailand", Description: "Long beaches", Reason: "warm water, street food and adventure tours", SatisfactionScore: 100},
		{Name: "Bali, Indonesia", Description: "Island paradise", Reason: "tropical beaches and adventure surfing", SatisfactionScore: 90},
	}
	if !reflect.DeepEqual(res.Recommendations, want) {
		t.Errorf("expected %+v, got %+v", want, res.Recommendations)
	}
	if !reflect.DeepEqual(rec.sources, []domain.Source{domain.SourceLLM}) {
		t.Errorf("unexpected recorded sources %v", rec.sources)
	}
}

func TestRecommendFallsBack(t *testing.T) {
	cases := []struct {
		name      string
		completer *fakeCompleter
	}{
		{"llm error", &fakeCompleter{err: errors.New("connection refused")}},
		{"timeout", &fakeCompleter{err: context.DeadlineExceeded}},
		{"no parseable lines", &fakeCompleter{text: "I am not sure, sorry."}},
		{"nothing passes the filter", &fakeCompleter{text: "1. Oslo - City. Why: cold and snowy culture"}},
		{"llm disabled", nil},
	}

	want := []domain.Recommendation{
		{Name: "Bali", Description: "Island", Reason: "tropical adventure", SatisfactionScore: 90},
		{Name: "Phuket", Description: "Beaches", Reason: "warm relaxation and food", SatisfactionScore: 90},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, tc.completer, nil)

			for i := 0; i < 2; i++ {
				res, err := svc.Recommend(context.Background(), preference(t))
				if err != nil {
					t.Fatalf("fallback must not surface an error, got %v", err)
				}
				if res.Source != domain.SourceFallback {
					t.Errorf("expected fallback source, got %s", res.Source)
				}
				if !reflect.DeepEqual(res.Recommendations, want) {
					t.Errorf("call %d: expected %+v, got %+v", i, want, res.Recommendations)
				}
			}
		})
	}
}

func TestRecommendFromCatalog(t *testing.T) {
	c := &fakeCompleter{text: llmText}
	svc := newTestService(t, c, nil)

	res, err := svc.RecommendFromCatalog(context.Background(), preference(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 0 {
		t.Errorf("catalog path must not call the llm, got %d calls", c.calls)
	}
	if res.Source != domain.SourceCatalog {
		t.Errorf("expected catalog source, got %s", res.Source)
	}

	want := []domain.Recommendation{
		{Name: "Bali", Description: "Island", Reason: "Tropical climate, adventure activities", SatisfactionScore: 87},
		{Name: "Phuket", Description: "Beaches", Reason: "Tropical climate, food activities", SatisfactionScore: 87},
	}
	if !reflect.DeepEqual(res.Recommendations, want) {
		t.Errorf("expected %+v, got %+v", want, res.Recommendations)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	svc, err := NewService(Deps{
		Catalog:       catalog.New(nil),
		LiveScorer:    model.NewWeightedPoints(),
		CatalogScorer: model.NewFeatureRatio(),
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Recommend(context.Background(), preference(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Recommendations == nil || len(res.Recommendations) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", res.Recommendations)
	}
}

func TestRecorderErrorIsIgnored(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("redis down")}
	svc := newTestService(t, nil, rec)

	if _, err := svc.Recommend(context.Background(), preference(t)); err != nil {
		t.Fatalf("stats failure must not fail the request: %v", err)
	}
	if len(rec.sources) != 1 || rec.sources[0] != domain.SourceFallback {
		t.Errorf("unexpected recorded sources %v", rec.sources)
	}
}

func TestNewServiceRequiresCatalog(t *testing.T) {
	_, err := NewService(Deps{LiveScorer: model.NewWeightedPoints(), CatalogScorer: model.NewFeatureRatio()})
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}
