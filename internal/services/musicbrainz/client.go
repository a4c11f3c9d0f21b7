package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"medley/internal/services"
)

// Lookup carries the album attributes sent to the authority.
type Lookup struct {
	Title      string
	Artist     string
	TrackCount int
}

// Classification is the authority's answer for one album. Found false is a
// definitive miss, not an error.
type Classification struct {
	Found          bool
	IsCompilation  bool
	ReleaseGroupID string
	PrimaryType    string
	SecondaryTypes []string
}

// Authority is the lookup contract the verifier consumes.
type Authority interface {
	Classify(ctx context.Context, req Lookup) (*Classification, error)
}

// minMatchScore rejects fuzzy search results that merely resemble the query.
const minMatchScore = 90

// Client queries the MusicBrainz ws/2 release-group search endpoint.
// MusicBrainz allows one request per second per client; the rate interval is
// enforced here so every caller shares the same pacing.
type Client struct {
	baseURL      string
	userAgent    string
	httpClient   *http.Client
	rateInterval time.Duration
	backoffBase  time.Duration
	attempts     int

	mu          sync.Mutex
	lastRequest time.Time
}

var _ Authority = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateInterval overrides the pacing between outbound requests.
func WithRateInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.rateInterval = interval
	}
}

// WithBackoffBase overrides the initial retry delay.
func WithBackoffBase(base time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.backoffBase = base
		}
	}
}

// WithRetryAttempts overrides the transient-failure retry cap.
func WithRetryAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// New creates a MusicBrainz client.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: timeout},
		rateInterval: time.Second,
		backoffBase:  time.Second,
		attempts:     3,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Classify searches release groups for the album and reports whether the
// best match is a compilation. Transient failures are retried with bounded
// exponential backoff; exhaustion returns an error tagged ErrTransient.
func (c *Client) Classify(ctx context.Context, req Lookup) (*Classification, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "musicbrainz", "classify", "title required", nil)
	}

	backoff := c.backoffBase
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		result, err := c.search(ctx, title, strings.TrimSpace(req.Artist))
		if err == nil {
			return result, nil
		}
		if !services.Retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	// Flatten the last transient error into the message so the final error
	// no longer reports as retryable.
	return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "classify",
		fmt.Sprintf("retries exhausted: %v", lastErr), nil)
}

func (c *Client) search(ctx context.Context, title, artist string) (*Classification, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`releasegroup:%q`, title)
	if artist != "" {
		query += fmt.Sprintf(` AND artist:%q`, artist)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(5))

	endpoint := c.baseURL + "/release-group?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "musicbrainz", "search", "build request", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "search", "http request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "search",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	default:
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "search",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "search", "read response", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "search", "parse response", err)
	}

	best := bestMatch(parsed.ReleaseGroups)
	if best == nil {
		return &Classification{Found: false}, nil
	}
	return &Classification{
		Found:          true,
		IsCompilation:  best.isCompilation(),
		ReleaseGroupID: best.ID,
		PrimaryType:    best.PrimaryType,
		SecondaryTypes: best.SecondaryTypes,
	}, nil
}

// waitForRateLimit spaces outbound requests by the configured interval.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	wait := c.rateInterval - elapsed
	if wait > 0 {
		c.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
	return nil
}

func bestMatch(groups []releaseGroup) *releaseGroup {
	var best *releaseGroup
	for i := range groups {
		group := &groups[i]
		if group.Score < minMatchScore {
			continue
		}
		if best == nil || group.Score > best.Score {
			best = group
		}
	}
	return best
}
