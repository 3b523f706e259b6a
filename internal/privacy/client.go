// Package privacy is a minimal client for the Privacy.com v1 API, covering
// the transaction listing the reconciler needs.
//
// The listing endpoint is treated as a noisy boundary: individual records may
// lack an amount or merchant, and a merchant descriptor may not even be a
// string. Those fields are modeled loosely so a bad record never fails the
// whole decode; callers check eligibility per record.
package privacy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Privacy.com API endpoint.
const DefaultBaseURL = "https://api.privacy.com/v1"

// TimestampLayout is the millisecond-precision format the transactions
// endpoint expects for the begin/end query parameters.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Merchant is the merchant object attached to a transaction. Descriptor is
// deliberately untyped; the API has been observed returning non-string
// values.
type Merchant struct {
	Descriptor any `json:"descriptor"`
}

// Transaction is a Privacy.com transaction. Amount is in cents: a $71.88
// charge is 7188. AuthorizationAmount is zero for non-monetary events such
// as declined or pending authorizations.
type Transaction struct {
	Amount              *int64    `json:"amount"`
	AuthorizationAmount int64     `json:"authorization_amount"`
	Created             time.Time `json:"created"`
	Merchant            *Merchant `json:"merchant"`
}

// Descriptor returns the merchant descriptor when it is present and textual.
func (t Transaction) Descriptor() (string, bool) {
	if t.Merchant == nil {
		return "", false
	}
	descriptor, ok := t.Merchant.Descriptor.(string)
	return descriptor, ok
}

// Config holds client settings.
type Config struct {
	BaseURL  string
	Token    string
	PageSize int
}

// Client talks to the Privacy.com API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Privacy.com client. A nil logger falls back to
// slog.Default.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With(slog.String("client", "privacy")),
	}
}

// ListTransactions fetches the first page of transactions created within
// [begin, end]. Pagination beyond the configured page size is not handled.
func (c *Client) ListTransactions(ctx context.Context, begin, end time.Time) ([]Transaction, error) {
	query := url.Values{}
	query.Set("begin", begin.Format(TimestampLayout))
	query.Set("end", end.Format(TimestampLayout))
	query.Set("page", "1")
	query.Set("page_size", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transactions?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "api-key "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions from Privacy.com: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch transactions from Privacy.com: unexpected status %s", resp.Status)
	}

	var envelope struct {
		Data []Transaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode Privacy.com response: %w", err)
	}

	c.logger.Debug("fetched transactions",
		slog.Time("begin", begin),
		slog.Time("end", end),
		slog.Int("count", len(envelope.Data)),
	)

	return envelope.Data, nil
}
