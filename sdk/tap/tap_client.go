package tap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/exo-archive/exovel"
	"github.com/exo-archive/exovel/types"
)

// DefaultEndpoint is the NASA Exoplanet Archive TAP service.
const DefaultEndpoint = "https://exoplanetarchive.ipac.caltech.edu/TAP"

// Response formats the client can request from the service.
const (
	// FormatVOTable is the default: TAP's mandatory format, and the only one
	// that declares column data types in the response itself.
	FormatVOTable = "votable"
	// FormatJSON returns an array of row objects; column order and types are
	// recovered from the first row.
	FormatJSON = "json"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
	maxSnippetLen      = 512
)

// Client is a synchronous TAP client. The single QuerySync capability is the
// only network dependency of the pipeline, so a fake Client substitutes for
// the live service in tests.
type Client interface {
	QuerySync(ctx context.Context, adql string) (*types.ResultSet, error)
}

type client struct {
	endpoint    string
	httpClient  *http.Client
	format      string
	maxAttempts int
	backoff     time.Duration
}

// Option customizes the client created by NewClient.
type Option func(*client)

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds the whole exchange, including body read. Default 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.httpClient.Timeout = d
	}
}

// WithFormat selects the response format, FormatVOTable or FormatJSON.
func WithFormat(format string) Option {
	return func(c *client) {
		c.format = format
	}
}

// WithMaxAttempts bounds retries for connection failures and 5xx responses.
// 1 disables retrying. Default 3.
func WithMaxAttempts(n int) Option {
	return func(c *client) {
		c.maxAttempts = n
	}
}

// WithBackoff sets the wait before the first retry; each further retry
// doubles it. Default 2s.
func WithBackoff(d time.Duration) Option {
	return func(c *client) {
		c.backoff = d
	}
}

// NewClient constructs a Client for the given TAP base endpoint, e.g.
// tap.DefaultEndpoint. Queries go to {endpoint}/sync.
func NewClient(endpoint string, opts ...Option) Client {
	c := &client{
		endpoint:    strings.TrimRight(endpoint, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		format:      FormatVOTable,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	exovel.LogInfof("created tap client with endpoint: %s, format: %s, maxAttempts: %d", c.endpoint, c.format, c.maxAttempts)
	return c
}

// QuerySync runs one synchronous query and returns the parsed result set.
// Connection failures and 5xx responses are retried up to the attempt bound
// with doubling backoff; 4xx and unparsable bodies fail immediately with
// *exovel.TransportError.
func (c *client) QuerySync(ctx context.Context, adql string) (*types.ResultSet, error) {
	backoff := c.backoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			exovel.LogInfof("query attempt %d of %d after %s: %v", attempt, c.maxAttempts, backoff, lastErr)
			select {
			case <-ctx.Done():
				return nil, &exovel.TransportError{Err: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resultSet, retryable, err := c.doQuery(ctx, adql)
		if err == nil {
			return resultSet, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *client) doQuery(ctx context.Context, adql string) (*types.ResultSet, bool, error) {
	form := url.Values{
		"REQUEST": {"doQuery"},
		"LANG":    {"ADQL"},
		"FORMAT":  {c.format},
		"QUERY":   {adql},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/sync", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, &exovel.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	exovel.LogDebugf("POST %s/sync query: %s", c.endpoint, adql)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, &exovel.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &exovel.TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &exovel.TransportError{StatusCode: resp.StatusCode, Snippet: snippet(body)}
		return nil, resp.StatusCode >= 500, terr
	}

	resultSet, err := c.parseBody(body)
	if err != nil {
		return nil, false, &exovel.TransportError{Err: err, Snippet: snippet(body)}
	}

	exovel.LogInfof("query returned %d row(s), %d column(s)",
		len(resultSet.Rows), len(resultSet.ResultSetMetadata.ColumnInfo))
	return resultSet, false, nil
}

func (c *client) parseBody(body []byte) (*types.ResultSet, error) {
	switch c.format {
	case FormatVOTable:
		return parseVOTable(body)
	case FormatJSON:
		return parseJSON(body)
	default:
		return nil, fmt.Errorf("unsupported response format: %s", c.format)
	}
}

// snippet bounds a response body excerpt for error reporting.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		s = s[:maxSnippetLen] + "..."
	}
	return s
}
