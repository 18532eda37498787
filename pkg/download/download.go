package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrTooLarge is returned when a response body exceeds Options.MaxSize
var ErrTooLarge = errors.New("response body exceeds size limit")

// StatusError reports a non-2xx response
type StatusError struct {
	StatusCode int
	URL        string
	Snippet    string
}

// Error omits the query string, which may carry API keys
func (e *StatusError) Error() string {
	target := redactURL(e.URL)
	if e.Snippet != "" {
		return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, target, e.Snippet)
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, target)
}

func redactURL(raw string) string {
	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// StatusCode extracts the HTTP status from err, or 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Options configures the downloader
type Options struct {
	Timeout           time.Duration // Per request timeout
	MaxSize           int64         // Maximum body size in bytes (0 = no limit)
	UserAgent         string        // Default User-Agent header
	Proxies           []string      // Optional proxy pool, rotated per request
	RequestsPerSecond float64       // Outbound rate (0 = unlimited)
	Burst             int
	Retry             RetryConfig
}

// DefaultOptions returns default download options
func DefaultOptions() Options {
	return Options{
		Timeout:           30 * time.Second,
		MaxSize:           8 * 1024 * 1024,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		RequestsPerSecond: 5,
		Burst:             5,
		Retry:             DefaultRetryConfig,
	}
}

// Downloader performs outbound HTTP requests with retries, proxy rotation and
// a body size cap
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	proxies *ProxyPool
	options Options
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options Options) (*Downloader, error) {
	pool, err := NewProxyPool(options.Proxies)
	if err != nil {
		return nil, err
	}

	base := &http.Transport{
		Proxy:               pool.proxyFunc,
		MaxIdleConns:        20,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	var limiter *rate.Limiter
	if options.RequestsPerSecond > 0 {
		burst := options.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), burst)
	}

	return &Downloader{
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: &rotatingTransport{base: base, pool: pool},
		},
		limiter: limiter,
		proxies: pool,
		options: options,
	}, nil
}

// Proxies exposes the proxy pool
func (d *Downloader) Proxies() *ProxyPool {
	return d.proxies
}

// Get fetches url and returns the body
func (d *Downloader) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	return d.do(ctx, http.MethodGet, url, nil, header)
}

// PostJSON posts payload as JSON and returns the response body
func (d *Downloader) PostJSON(ctx context.Context, url string, payload any, header http.Header) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return d.do(ctx, http.MethodPost, url, body, header)
}

// GetJSON fetches url and decodes the JSON body into dest
func (d *Downloader) GetJSON(ctx context.Context, url string, header http.Header, dest any) error {
	body, err := d.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decoding response from %s: %w", redactURL(url), err)
	}
	return nil
}

func (d *Downloader) do(ctx context.Context, method, url string, body []byte, header http.Header) ([]byte, error) {
	return RetryDo(ctx, d.options.Retry, func() ([]byte, error) {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		if req.Header.Get("User-Agent") == "" && d.options.UserAgent != "" {
			req.Header.Set("User-Agent", d.options.UserAgent)
		}
		if req.Header.Get("Accept-Language") == "" {
			req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		}

		resp, err := d.client.Do(req)
		if err != nil {
			var urlErr *neturl.Error
			if errors.As(err, &urlErr) {
				return nil, fmt.Errorf("http %s %s: %w", method, redactURL(urlErr.URL), urlErr.Err)
			}
			return nil, fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			slog.Debug("outbound request failed", "method", method, "url", redactURL(url), "status", resp.StatusCode)
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: url, Snippet: string(snippet)}
		}

		return d.readBody(resp.Body)
	})
}

func (d *Downloader) readBody(src io.Reader) ([]byte, error) {
	if d.options.MaxSize <= 0 {
		return io.ReadAll(src)
	}
	data, err := io.ReadAll(io.LimitReader(src, d.options.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > d.options.MaxSize {
		return nil, fmt.Errorf("%w: max %d bytes", ErrTooLarge, d.options.MaxSize)
	}
	return data, nil
}
