package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(ClientConfig{
		Endpoint:    url,
		Token:       "secret",
		MaxTokens:   180,
		Temperature: 0.7,
		Timeout:     timeout,
	})
}

func TestCompleteResponseSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req completionRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if len(req.Messages) != 2 || req.Messages[0].Content != systemPrompt || req.Messages[1].Content != "hello" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		if req.MaxTokens != 180 {
			t.Errorf("expected max_tokens 180, got %d", req.MaxTokens)
		}

		w.Write([]byte(`{"result":{"response":"  1. Bali - Island. Why: sun \n"},"success":true}`))
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL, time.Second).Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "1. Bali - Island. Why: sun" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestCompleteLegacyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"choices":[{"message":{"content":"legacy text"}}]}}`))
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL, time.Second).Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "legacy text" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestCompleteUnexpectedSchema(t *testing.T) {
	for _, body := range []string{`{"errors":[]}`, `{"result":{}}`, `not json`, `{"result":"text"}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := newTestClient(srv.URL, time.Second).Complete(context.Background(), "hello")
		if !errors.Is(err, ErrUnexpectedSchema) {
			t.Errorf("%s: expected ErrUnexpectedSchema, got %v", body, err)
		}
		srv.Close()
	}
}

func TestCompleteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Complete(context.Background(), "hello")
	if !IsUpstreamError(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	var ue *UpstreamError
	errors.As(err, &ue)
	if ue.StatusCode != http.StatusTooManyRequests || !strings.Contains(ue.Body, "rate limited") {
		t.Errorf("unexpected upstream error %+v", ue)
	}
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestClient(srv.URL, 50*time.Millisecond).Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, took %s", elapsed)
	}
}

type failingCompleter struct{ calls int }

func (f *failingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return "", errors.New("boom")
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	next := &failingCompleter{}
	b := NewBreakerClient(next, BreakerConfig{
		Name:         "test-llm",
		MinRequests:  3,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})

	for i := 0; i < 3; i++ {
		if _, err := b.Complete(context.Background(), "p"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", b.State())
	}

	_, err := b.Complete(context.Background(), "p")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if next.calls != 3 {
		t.Errorf("expected 3 upstream calls, got %d", next.calls)
	}
}
