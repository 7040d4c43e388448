package worker

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles requests per annotation endpoint (scheme and host), so a
// shared parser server is not flooded during batch ingestion.
type Limiter struct {
	mu        sync.Mutex
	endpoints map[string]*rate.Limiter
	limit     rate.Limit
	burst     int

	delayed atomic.Int64
}

// NewLimiter creates a limiter. A non-positive rate disables limiting and a
// non-positive burst defaults to 5.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{
		endpoints: make(map[string]*rate.Limiter),
		limit:     limit,
		burst:     burst,
	}
}

// Wait blocks until a request to rawURL may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	lim, err := l.forURL(rawURL)
	if err != nil {
		return err
	}

	r := lim.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	l.delayed.Add(1)

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Delayed returns how many Wait calls had to sleep
func (l *Limiter) Delayed() int64 {
	return l.delayed.Load()
}

func (l *Limiter) forURL(rawURL string) (*rate.Limiter, error) {
	key, err := endpointKey(rawURL)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.endpoints[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.endpoints[key] = lim
	}
	return lim, nil
}

func endpointKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}
