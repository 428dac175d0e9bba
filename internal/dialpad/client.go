package dialpad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/partsline/opsconsole/internal/metrics"
	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

// DefaultPageLimit is the per-page item limit requested from the provider
const DefaultPageLimit = 50

// ClientConfig configures the provider client
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	PageLimit  int
	HTTPClient *http.Client
}

// Client fetches raw call records from the provider's v2 call endpoint. It is
// stateless between calls apart from a small user-id to display-name cache.
type Client struct {
	baseURL   string
	apiKey    string
	pageLimit int
	client    *http.Client
	logger    zerolog.Logger

	names *nameCache
}

// NewClient creates a provider client
func NewClient(cfg ClientConfig, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("dialpad base url required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("dialpad api key required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		pageLimit: pageLimit,
		client:    client,
		logger:    logger.With().Str("component", "dialpad_client").Logger(),
		names:     newNameCache(),
	}, nil
}

// callPage is one page of the provider's call listing
type callPage struct {
	Items  []types.RawCall `json:"items"`
	Cursor string          `json:"cursor,omitempty"`
}

// FetchCalls walks the paginated call endpoint for one target over the given
// window and returns every record it exposes, bounded by maxPages. The walk is
// best-effort: transport and decode failures end it early and the accumulated
// prefix is returned.
func (c *Client) FetchCalls(ctx context.Context, targetType types.TargetType, targetID string, win types.Window, maxPages int) []types.RawCall {
	if maxPages <= 0 {
		maxPages = 1
	}

	// A window reaching into the future confuses the provider; clamp.
	if now := time.Now().UnixMilli(); win.EndMS > now {
		win.EndMS = now
	}

	m := metrics.Get()
	var all []types.RawCall
	cursor := ""

	for page := 0; page < maxPages; page++ {
		items, next, err := c.fetchPage(ctx, targetType, targetID, win, cursor)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("target_type", string(targetType)).
				Str("target_id", targetID).
				Int("page", page).
				Int("accumulated", len(all)).
				Msg("call fetch ended early, returning partial result")
			m.RecordUpstreamError()
			break
		}

		m.RecordUpstreamPage(len(items))
		all = append(all, items...)
		c.names.observe(items)

		if len(items) == 0 || next == "" {
			break
		}
		cursor = next
	}

	c.logger.Debug().
		Str("target_type", string(targetType)).
		Str("target_id", targetID).
		Int("records", len(all)).
		Msg("call fetch complete")

	return all
}

// fetchPage issues one GET against the call endpoint
func (c *Client) fetchPage(ctx context.Context, targetType types.TargetType, targetID string, win types.Window, cursor string) ([]types.RawCall, string, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("target_id", targetID)
	q.Set("target_type", string(targetType))
	q.Set("started_after", strconv.FormatInt(win.StartMS, 10))
	q.Set("started_before", strconv.FormatInt(win.EndMS, 10))
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	endpoint := c.baseURL + "/api/v2/call?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build call request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("call request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("call endpoint returned %s", resp.Status)
	}

	var page callPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode call page: %w", err)
	}
	return page.Items, page.Cursor, nil
}

// DisplayName resolves a provider user id to a display name seen earlier in
// this process, or "" if the id has never been observed.
func (c *Client) DisplayName(userID string) string {
	return c.names.get(userID)
}
