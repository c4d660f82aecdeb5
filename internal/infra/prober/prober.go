// Package prober implements best-effort liveness probing of feed URLs.
// A probe never returns an error: every failure mode is folded into the
// Result so a batch over flaky third-party servers cannot abort. Each probe
// is bounded by its own timeout, so a batch's worst-case duration is
// ceil(total/concurrency) x timeout.
package prober

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"opml-gardener/internal/domain/entity"
	"opml-gardener/internal/observability/metrics"
)

// Result is the outcome of probing a single feed URL.
type Result struct {
	// Reachable reports whether the URL answered with a 2xx/3xx status
	// (or answered at all in constrained fallback mode).
	Reachable bool

	// HTTPStatus is the response status code, 0 when no response arrived.
	HTTPStatus int

	// LastUpdatedAt is the feed's own last-modified date when one could
	// be extracted from the response body.
	LastUpdatedAt *time.Time

	// DiscoveredFeedURL is set when the URL served an HTML page that
	// advertises a feed via an alternate link, which usually means the
	// user pasted the site URL instead of the feed URL.
	DiscoveredFeedURL string

	// ErrorReason describes why the URL was unreachable. Timeouts,
	// connection failures, and HTTP errors each produce distinct text.
	ErrorReason string
}

// Prober probes feed URLs with a fixed per-probe timeout and optional
// outbound rate limiting. Safe for concurrent use.
type Prober struct {
	cfg      Config
	client   *http.Client
	fallback *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a Prober. A nil logger falls back to slog.Default.
func New(cfg Config, logger *slog.Logger) *Prober {
	cfg = cfg.normalize()
	if logger == nil {
		logger = slog.Default()
	}
	p := &Prober{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.Timeout},
		// The fallback client is the constrained retry mode: no cookies,
		// no redirects followed, bare headers. Some servers reject the
		// primary request shape but still answer this one.
		fallback: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if cfg.RatePerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Concurrency)
	}
	return p
}

// ProbeOne probes a single URL. It never returns an error and never takes
// longer than roughly twice the configured timeout (primary plus one
// constrained fallback attempt).
func (p *Prober) ProbeOne(ctx context.Context, feedURL string) Result {
	start := time.Now()
	res := p.probe(ctx, feedURL)
	metrics.RecordProbe(outcomeLabel(res), time.Since(start))
	return res
}

func (p *Prober) probe(ctx context.Context, feedURL string) Result {
	if err := entity.ValidateURL(feedURL); err != nil {
		return Result{ErrorReason: fmt.Sprintf("invalid URL: %v", err)}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Result{ErrorReason: fmt.Sprintf("probe canceled: %v", err)}
		}
	}

	resp, err := p.fetch(ctx, p.client, feedURL, true)
	if err != nil {
		if isTimeout(err) {
			return Result{ErrorReason: fmt.Sprintf("timeout (>%s)", p.cfg.Timeout)}
		}

		// One constrained retry before giving up, mirroring the relaxed
		// second attempt browsers make when a strict fetch fails.
		resp, err = p.fetch(ctx, p.fallback, feedURL, false)
		if err != nil {
			if isTimeout(err) {
				return Result{ErrorReason: fmt.Sprintf("timeout (>%s)", p.cfg.Timeout)}
			}
			p.logger.Debug("probe failed",
				slog.String("url", feedURL),
				slog.Any("error", err))
			return Result{ErrorReason: fmt.Sprintf("cannot reach URL (network): %v", err)}
		}
		defer closeBody(resp, p.logger)

		// Any response at all in fallback mode counts as reachable;
		// the body is not inspected in this mode.
		return Result{Reachable: true, HTTPStatus: resp.StatusCode}
	}
	defer closeBody(resp, p.logger)

	if resp.StatusCode >= 400 {
		return Result{
			HTTPStatus:  resp.StatusCode,
			ErrorReason: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	res := Result{Reachable: true, HTTPStatus: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.cfg.MaxBodyBytes))
	if err != nil {
		// Reachability was already established; a broken body only
		// costs us the last-updated extraction.
		return res
	}

	if updated := extractLastUpdated(body); updated != nil {
		res.LastUpdatedAt = updated
		return res
	}

	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		if base, perr := url.Parse(feedURL); perr == nil {
			res.DiscoveredFeedURL = discoverFeedLink(body, base)
		}
	}
	return res
}

func (p *Prober) fetch(ctx context.Context, client *http.Client, feedURL string, primary bool) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	if primary {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, text/html, */*")
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	// Tie the context's lifetime to the body: the caller closes the body,
	// which releases the timer through the wrapped ReadCloser.
	resp.Body = &cancelingBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelingBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelingBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func closeBody(resp *http.Response, logger *slog.Logger) {
	if err := resp.Body.Close(); err != nil {
		logger.Debug("close probe response body", slog.Any("error", err))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") {
		return true
	}
	head := strings.ToLower(string(body[:min(512, len(body))]))
	return strings.Contains(head, "<!doctype html") || strings.Contains(head, "<html")
}

func outcomeLabel(r Result) string {
	switch {
	case r.Reachable:
		return "reachable"
	case strings.HasPrefix(r.ErrorReason, "timeout"):
		return "timeout"
	default:
		return "unreachable"
	}
}
