package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/captest/internal/tracing"
)

const defaultUserAgent = "captest"

// BodyError reports a response whose body could not be drained.
type BodyError struct {
	Status int
	Err    error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("read body (status %d): %v", e.Status, e.Err)
}

func (e *BodyError) Unwrap() error { return e.Err }

// Fetcher issues GET requests for catalog targets relative to a base URL.
// It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
	propagate bool
}

// FetcherOption customises a Fetcher.
type FetcherOption func(*Fetcher)

// WithTracer records a client span per fetch. When propagate is set the W3C
// trace context is also sent to the server.
func WithTracer(tracer trace.Tracer, propagate bool) FetcherOption {
	return func(f *Fetcher) {
		f.tracer = tracer
		f.propagate = propagate
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua = strings.TrimSpace(ua); ua != "" {
			f.userAgent = ua
		}
	}
}

// NewFetcher builds a Fetcher. A nil client falls back to NewClient(0).
func NewFetcher(client *http.Client, baseURL string, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = NewClient(0)
	}
	f := &Fetcher{
		client:    client,
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TargetURL joins base and target with exactly one slash between them. With
// no base an absolute target URL is used unchanged.
func TargetURL(base, target string) string {
	if base == "" && strings.Contains(target, "://") {
		return target
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(target, "/")
}

// Fetch requests target, drains the body and returns the status code. Any
// status is returned without error; classifying it is the caller's job.
func (f *Fetcher) Fetch(ctx context.Context, target string) (status int, err error) {
	url := TargetURL(f.baseURL, target)

	if f.tracer != nil {
		var span trace.Span
		ctx, span = tracing.StartFetchSpan(ctx, f.tracer, http.MethodGet, target, url)
		defer func() {
			tracing.EndSpan(span, err, attribute.Int("http.response.status_code", status))
		}()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", target, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.tracer != nil && f.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return resp.StatusCode, &BodyError{Status: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, nil
}
