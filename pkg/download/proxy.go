package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// ProxyPool rotates outbound requests across a fixed list of proxies. A proxy
// that answers with a blocking status is skipped until every proxy in the pool
// has failed, then the pool resets.
type ProxyPool struct {
	mu      sync.Mutex
	proxies []*url.URL
	failed  map[int]bool
	next    int
}

// NewProxyPool parses proxy URLs; an empty list yields a pool that always
// connects directly
func NewProxyPool(raw []string) (*ProxyPool, error) {
	pool := &ProxyPool{failed: make(map[int]bool)}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.Contains(r, "://") {
			r = "http://" + r
		}
		u, err := url.Parse(r)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", r)
		}
		pool.proxies = append(pool.proxies, u)
	}
	return pool, nil
}

// Len returns the pool size
func (p *ProxyPool) Len() int {
	return len(p.proxies)
}

// Next returns the next usable proxy and its index, or -1 when the pool is empty
func (p *ProxyPool) Next() (*url.URL, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil, -1
	}
	if len(p.failed) >= len(p.proxies) {
		slog.Warn("all proxies failed, resetting pool", "size", len(p.proxies))
		p.failed = make(map[int]bool)
	}

	for i := 0; i < len(p.proxies); i++ {
		idx := (p.next + i) % len(p.proxies)
		if !p.failed[idx] {
			p.next = (idx + 1) % len(p.proxies)
			return p.proxies[idx], idx
		}
	}
	return nil, -1
}

// MarkFailed takes a proxy out of rotation until the pool resets
func (p *ProxyPool) MarkFailed(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx < 0 || idx >= len(p.proxies) {
		return
	}
	p.failed[idx] = true
	slog.Warn("proxy marked failed", "proxy", p.proxies[idx].Host, "failed", len(p.failed), "size", len(p.proxies))
}

// FailedCount returns the number of proxies currently out of rotation
func (p *ProxyPool) FailedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failed)
}

type proxyKey struct{}

func (p *ProxyPool) proxyFunc(req *http.Request) (*url.URL, error) {
	if u, ok := req.Context().Value(proxyKey{}).(*url.URL); ok {
		return u, nil
	}
	return http.ProxyFromEnvironment(req)
}

// blockingStatus reports statuses that mean the proxy's exit IP is throttled
func blockingStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusForbidden || code == http.StatusServiceUnavailable
}

// rotatingTransport picks a proxy per request and reports blocking responses back to the pool
type rotatingTransport struct {
	base http.RoundTripper
	pool *ProxyPool
}

func (t *rotatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	proxy, idx := t.pool.Next()
	if proxy == nil {
		return t.base.RoundTrip(req)
	}

	req = req.WithContext(context.WithValue(req.Context(), proxyKey{}, proxy))
	resp, err := t.base.RoundTrip(req)
	if err == nil && blockingStatus(resp.StatusCode) {
		t.pool.MarkFailed(idx)
	}
	return resp, err
}
