package annotate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/gamelore/internal/cache"
	"github.com/ppiankov/gamelore/internal/model"
)

const minecraftResponse = `{
  "sentences": [{
    "index": 0,
    "parse": "(ROOT (SBARQ (WHADVP (WRB When)) (SQ (VBD was) (NP (NNP Minecraft)) (VP (VBN released))) (. ?)))",
    "tokens": [
      {"index": 1, "word": "When", "lemma": "when", "pos": "WRB", "ner": "O"},
      {"index": 2, "word": "was", "lemma": "be", "pos": "VBD", "ner": "O"},
      {"index": 3, "word": "Minecraft", "lemma": "Minecraft", "pos": "NNP", "ner": "PERSON"},
      {"index": 4, "word": "released", "lemma": "release", "pos": "VBN", "ner": "O"},
      {"index": 5, "word": "?", "lemma": "?", "pos": ".", "ner": "O"}
    ],
    "entitymentions": [{"text": "Minecraft", "ner": "PERSON"}]
  }]
}`

func testConfig(serverURL string) model.AnnotatorConfig {
	cfg := model.DefaultConfig().Annotator
	cfg.URL = serverURL
	cfg.Timeout = 5 * time.Second
	cfg.RequestsPerSecond = 0
	return cfg
}

func TestClient_Annotate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		props, err := url.QueryUnescape(r.URL.Query().Get("properties"))
		if err != nil || !strings.Contains(props, `"outputFormat":"json"`) {
			t.Errorf("unexpected properties %q", props)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, minecraftResponse)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), cache.Nop{}, nil)
	sents, err := client.Annotate(context.Background(), "When was Minecraft released?")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if len(sents) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sents))
	}

	s := sents[0]
	if s.Text() != "When was Minecraft released?" {
		t.Errorf("unexpected text %q", s.Text())
	}
	if got := s.Lemma("released", "VBN"); got != "release" {
		t.Errorf("expected lemma 'release', got %q", got)
	}
	if got := s.MentionsOf(NameCategories...); len(got) != 1 || got[0].Text != "Minecraft" {
		t.Errorf("unexpected mentions %v", got)
	}
}

func TestClient_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, minecraftResponse)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), cache.NewMemoryCache(time.Minute, time.Minute), nil)
	for i := 0; i < 3; i++ {
		if _, err := client.Annotate(context.Background(), "When was Minecraft released?"); err != nil {
			t.Fatalf("Annotate failed: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 server hit, got %d", hits.Load())
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, minecraftResponse)
	}))
	defer server.Close()

	origBackoff := retryBackoff
	retryBackoff = func(int) time.Duration { return 0 }
	defer func() { retryBackoff = origBackoff }()

	client := NewClient(testConfig(server.URL), cache.Nop{}, nil)
	if _, err := client.Annotate(context.Background(), "When was Minecraft released?"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestClient_RetryBackoffHonorsContext(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	origBackoff := retryBackoff
	retryBackoff = func(int) time.Duration { return time.Hour }
	defer func() { retryBackoff = origBackoff }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(testConfig(server.URL), cache.Nop{}, nil).Annotate(ctx, "When was Minecraft released?")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("expected backoff to stop with the context, took %v", elapsed)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts.Load())
	}
}

func TestClient_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), cache.Nop{}, nil)
	_, err := client.Annotate(context.Background(), "???")
	if err == nil {
		t.Fatal("expected error for 400, got nil")
	}
	if got := err.Error(); got != "unexpected status: 400 400 Bad Request" {
		t.Errorf("unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected no retries for 400, got %d attempts", attempts.Load())
	}
}

func TestDecode(t *testing.T) {
	if _, err := Decode([]byte(`{"sentences": []}`)); !errors.Is(err, ErrNoSentences) {
		t.Errorf("expected ErrNoSentences, got %v", err)
	}
	if _, err := Decode([]byte(`{"sentences": [{"parse": "(ROOT (S"}]}`)); err == nil {
		t.Error("expected error for malformed parse")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSentence_LemmaFallback(t *testing.T) {
	s := Sentence{Tokens: []Token{{Word: "ran", Lemma: "run", POS: "VBD"}}}

	if got := s.Lemma("ran", "VBN"); got != "run" {
		t.Errorf("expected word-only match 'run', got %q", got)
	}
	if got := s.Lemma("flew", "VBD"); got != "flew" {
		t.Errorf("expected surface fallback 'flew', got %q", got)
	}
}
