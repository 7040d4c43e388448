package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpproxy"

	"github.com/ppiankov/gamelore/internal/cache"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/tree"
	"github.com/ppiankov/gamelore/internal/worker"
)

// ErrNoSentences is returned when the server finds no sentence in the text
var ErrNoSentences = errors.New("annotation returned no sentences")

// retryBackoff is how long to wait before the given retry; tests shorten it
var retryBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}

// Client annotates text with a CoreNLP server
type Client struct {
	httpClient *http.Client
	baseURL    string
	properties string
	userAgent  string
	maxBytes   int64
	maxRetries int
	limiter    *worker.Limiter
	cache      cache.Cache
	logger     *zap.Logger
}

// NewClient creates a client for the server described by cfg. Responses
// are stored in c (use cache.Nop{} to disable caching).
func NewClient(cfg model.AnnotatorConfig, c cache.Cache, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.Nop{}
	}

	props, _ := json.Marshal(map[string]string{
		"annotators":   cfg.Annotators,
		"outputFormat": "json",
	})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		properties: string(props),
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: cfg.MaxRetries,
		limiter:    worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize),
		cache:      c,
		logger:     logger,
	}
}

// Annotate parses text into sentences
func (c *Client) Annotate(ctx context.Context, text string) ([]Sentence, error) {
	key := cache.CacheKey(c.properties, text)
	if data, ok := c.cache.Get(key); ok {
		sents, err := Decode(data)
		if err == nil {
			c.logger.Debug("annotation cache hit", zap.String("text", text))
			return sents, nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.Error(err))
		_ = c.cache.Delete(key)
	}

	data, err := c.postWithRetry(ctx, text)
	if err != nil {
		return nil, err
	}

	sents, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(key, data, 0); err != nil {
		c.logger.Warn("failed to cache annotation", zap.Error(err))
	}
	return sents, nil
}

// Throttled returns how many requests were held back by the rate limiter
func (c *Client) Throttled() int64 {
	return c.limiter.Delayed()
}

type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.code, e.status)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func (c *Client) postWithRetry(ctx context.Context, text string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, retryBackoff(attempt)); err != nil {
				return nil, err
			}
		}

		data, err := c.post(ctx, text)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		c.logger.Debug("annotation attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, lastErr
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) post(ctx context.Context, text string) ([]byte, error) {
	endpoint := c.baseURL + "/?properties=" + url.QueryEscape(c.properties)

	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	var body io.Reader = resp.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

type response struct {
	Sentences []struct {
		Parse          string    `json:"parse"`
		Tokens         []Token   `json:"tokens"`
		EntityMentions []Mention `json:"entitymentions"`
	} `json:"sentences"`
}

// Decode converts a CoreNLP JSON response into sentences
func Decode(data []byte) ([]Sentence, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}
	if len(resp.Sentences) == 0 {
		return nil, ErrNoSentences
	}

	sents := make([]Sentence, 0, len(resp.Sentences))
	for i, raw := range resp.Sentences {
		root, err := tree.Parse(raw.Parse)
		if err != nil {
			return nil, fmt.Errorf("parse tree of sentence %d: %w", i, err)
		}
		sents = append(sents, Sentence{
			Tree:     root,
			Tokens:   raw.Tokens,
			Mentions: raw.EntityMentions,
		})
	}
	return sents, nil
}

// proxyFunc uses explicit proxy settings when given and the environment otherwise
func proxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}
	fn := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return fn(req.URL)
	}
}
