// Package remote fetches EDHREC pages and Scryfall card lookups.
//
// The client is built once per run. It spaces every request through a shared
// rate limiter, retries transient failures with exponential backoff and turns
// every failure into a no-data Result instead of an error.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/jsonvalue"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/metrics"
)

const (
	DefaultEDHRECBaseURL   = "https://json.edhrec.com/pages"
	DefaultScryfallBaseURL = "https://api.scryfall.com"
	ScryfallSearchURL      = "https://scryfall.com/search?q="

	maxBodyBytes = 16 << 20
)

// Options configures a Client.
type Options struct {
	EDHRECBaseURL   string
	ScryfallBaseURL string

	// RequestDelay is the minimum spacing between two requests.
	RequestDelay time.Duration
	// Timeout bounds each EDHREC attempt; ScryfallTimeout each Scryfall one.
	Timeout         time.Duration
	ScryfallTimeout time.Duration

	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	UserAgent string
}

// DefaultOptions returns production settings.
func DefaultOptions() Options {
	return Options{
		EDHRECBaseURL:   DefaultEDHRECBaseURL,
		ScryfallBaseURL: DefaultScryfallBaseURL,
		RequestDelay:    100 * time.Millisecond,
		Timeout:         10 * time.Second,
		ScryfallTimeout: 5 * time.Second,
		MaxRetries:      3,
		InitialBackoff:  1 * time.Second,
		MaxBackoff:      16 * time.Second,
		UserAgent:       "EDH-Companion/1.0",
	}
}

// Client fetches JSON documents from EDHREC and Scryfall.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	opts        Options
	logger      *zap.Logger
	metrics     *metrics.FetchMetrics
}

// NewClient creates a client. A nil logger or metrics collector is replaced
// by a no-op one.
func NewClient(opts Options, logger *zap.Logger, m *metrics.FetchMetrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewFetchMetrics()
	}
	return &Client{
		httpClient:  &http.Client{},
		rateLimiter: rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
		opts:        opts,
		logger:      logger,
		metrics:     m,
	}
}

// Metrics returns the collector the client records into.
func (c *Client) Metrics() *metrics.FetchMetrics {
	return c.metrics
}

// CardPage fetches the EDHREC page of a card.
func (c *Client) CardPage(ctx context.Context, cardName string) Result {
	return c.edhrec(ctx, "cards", cardName)
}

// AverageDeck fetches the EDHREC average deck of a commander.
func (c *Client) AverageDeck(ctx context.Context, commander string) Result {
	return c.edhrec(ctx, "average-decks", commander)
}

// CommanderPage fetches the EDHREC page of a commander.
func (c *Client) CommanderPage(ctx context.Context, commander string) Result {
	return c.edhrec(ctx, "commanders", commander)
}

func (c *Client) edhrec(ctx context.Context, section, name string) Result {
	slug := names.Slug(name)
	if slug == "" {
		res := Result{Outcome: OutcomeNotFound, Err: fmt.Errorf("name %q has an empty slug", name)}
		c.metrics.RecordOutcome(res.Outcome.String())
		return res
	}
	u := fmt.Sprintf("%s/%s/%s.json", c.opts.EDHRECBaseURL, section, slug)
	return c.Get(ctx, u, c.opts.Timeout)
}

// CardColorIdentity looks a card up by exact name on Scryfall and returns its
// color identity. A payload without a color_identity list is malformed.
func (c *Client) CardColorIdentity(ctx context.Context, cardName string) ([]string, Result) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.opts.ScryfallBaseURL, url.QueryEscape(cardName))

	res := c.Get(ctx, u, c.opts.ScryfallTimeout)
	if res.NoData() {
		return nil, res
	}

	field, ok := res.Value.Get("color_identity")
	if !ok || field.Kind() != jsonvalue.KindArray {
		res.Outcome = OutcomeMalformed
		res.Err = errors.New("response has no color_identity list")
		return nil, res
	}
	return res.Value.GetStrings("color_identity"), res
}

// SearchURL builds the Scryfall exact-name search link used when a payload
// carries no canonical link for a card.
func SearchURL(cardName string) string {
	return ScryfallSearchURL + url.QueryEscape(`!"`+cardName+`"`)
}

// Get fetches and decodes one JSON document.
func (c *Client) Get(ctx context.Context, u string, timeout time.Duration) Result {
	res := c.doRequest(ctx, u, timeout)
	res.URL = u
	c.metrics.RecordOutcome(res.Outcome.String())

	if res.NoData() {
		fields := []zap.Field{
			zap.String("url", u),
			zap.Stringer("outcome", res.Outcome),
			zap.Int("status", res.Status),
		}
		if res.Err != nil {
			fields = append(fields, zap.Error(res.Err))
		}
		if res.Outcome == OutcomeExhausted {
			c.logger.Warn("remote lookup gave up after retries", fields...)
		} else {
			c.logger.Debug("remote lookup returned no data", fields...)
		}
	}
	return res
}

// doRequest performs a GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, u string, timeout time.Duration) Result {
	var last attemptResult
	backoff := c.opts.InitialBackoff

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			c.metrics.RecordRetry()
			wait := backoff
			if last.retryAfter > 0 {
				wait = min(last.retryAfter, c.opts.MaxBackoff)
			}
			if err := sleep(ctx, wait); err != nil {
				return Result{Outcome: OutcomeCanceled, Err: err}
			}
			backoff = min(backoff*2, c.opts.MaxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return Result{Outcome: OutcomeCanceled, Err: fmt.Errorf("rate limiter: %w", err)}
		}

		var retry bool
		last, retry = c.attempt(ctx, u, timeout)
		if !retry {
			return last.Result
		}
	}

	last.Outcome = OutcomeExhausted
	return last.Result
}

type attemptResult struct {
	Result
	retryAfter time.Duration
}

// attempt performs one round trip and reports whether it may be retried.
func (c *Client) attempt(ctx context.Context, u string, timeout time.Duration) (attemptResult, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return attemptResult{Result: Result{Outcome: OutcomeBadStatus, Err: fmt.Errorf("failed to create request: %w", err)}}, false
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordAttempt(time.Since(start))
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return attemptResult{Result: Result{Outcome: OutcomeCanceled, Err: ctx.Err()}}, false
		case isTimeout(err):
			return attemptResult{Result: Result{Outcome: OutcomeTimeout, Err: err}}, false
		default:
			return attemptResult{Result: Result{Outcome: OutcomeExhausted, Err: fmt.Errorf("HTTP request failed: %w", err)}}, true
		}
	}
	defer func() { _ = resp.Body.Close() }()

	res := Result{Status: resp.StatusCode}

	switch {
	case resp.StatusCode == http.StatusOK:
		value, err := jsonvalue.Decode(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			if isTimeout(err) {
				res.Outcome, res.Err = OutcomeTimeout, err
			} else {
				res.Outcome, res.Err = OutcomeMalformed, fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return attemptResult{Result: res}, false
		}
		res.Outcome, res.Value = OutcomeOK, value
		return attemptResult{Result: res}, false

	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		res.Outcome = OutcomeNotFound
		return attemptResult{Result: res}, false

	case isRetryableStatus(resp.StatusCode):
		res.Outcome = OutcomeExhausted
		res.Err = fmt.Errorf("transient status %d", resp.StatusCode)
		return attemptResult{Result: res, retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}, true

	default:
		res.Outcome = OutcomeBadStatus
		res.Err = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return attemptResult{Result: res}, false
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
