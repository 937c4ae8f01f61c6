// Package bankfeed implements the read-only client for the external bank
// feed API. Identity of a feed item is its external id; the client never
// writes anything back to the feed.
package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/pkg/config"
	"github.com/lumora-agency/lumora-api/pkg/logger"
)

var _ reconciliation.FeedClient = (*Client)(nil)

// Client is the HTTP bank feed adapter. Each request carries the client
// timeout; transient failures (transport errors, 5xx) are retried a bounded
// number of times with doubling backoff. 4xx responses are not retried.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient builds the feed client from configuration.
func NewClient(cfg config.BankConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.FeedBaseURL,
		token:      cfg.FeedToken,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		backoff:    500 * time.Millisecond,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// feedPage mirrors the feed's transaction listing payload.
type feedPage struct {
	Transactions []feedTransaction `json:"transactions"`
	Pagination   struct {
		NextCursor string `json:"next_cursor"`
	} `json:"pagination"`
}

type feedTransaction struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Label        string          `json:"label"`
	Counterparty string          `json:"counterparty_name"`
	SettledAt    time.Time       `json:"settled_at"`
}

// FetchTransactions pulls every page of transactions settled at or after
// since. Pagination is cursor-based, so the result is bounded by what the
// feed reports for the window.
func (c *Client) FetchTransactions(ctx context.Context, since time.Time) ([]reconciliation.FeedTransaction, error) {
	var out []reconciliation.FeedTransaction
	cursor := ""
	for {
		page, err := c.fetchPage(ctx, since, cursor)
		if err != nil {
			return nil, err
		}
		for _, tx := range page.Transactions {
			out = append(out, reconciliation.FeedTransaction{
				ExternalID:       tx.ID,
				Amount:           tx.Amount,
				Label:            tx.Label,
				CounterpartyName: tx.Counterparty,
				OccurredAt:       tx.SettledAt,
			})
		}
		if page.Pagination.NextCursor == "" {
			return out, nil
		}
		cursor = page.Pagination.NextCursor
	}
}

func (c *Client) fetchPage(ctx context.Context, since time.Time, cursor string) (*feedPage, error) {
	q := url.Values{}
	q.Set("settled_at_from", since.UTC().Format(time.RFC3339))
	q.Set("per_page", strconv.Itoa(c.pageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	reqURL := c.baseURL + "/transactions?" + q.Encode()

	var lastErr error
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn().Err(lastErr).Int("attempt", attempt).Msg("retrying bank feed call")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		page, retryable, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return page, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, lastErr)
}

// doRequest performs one feed call. The second return value reports whether
// the failure is transient and worth retrying.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*feedPage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("feed call: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var page feedPage
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			// A truncated or malformed body is a feed-side fault like any
			// other transient failure: callers see it as retryable.
			return nil, false, fmt.Errorf("%w: decode feed response: %v", domain.ErrFeedUnavailable, err)
		}
		return &page, false, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, true, fmt.Errorf("feed returned %d: %s", resp.StatusCode, body)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("feed returned %d: %s", resp.StatusCode, body)
	}
}
