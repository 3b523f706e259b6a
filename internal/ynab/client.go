// Package ynab is a minimal client for the YNAB v1 API, covering the two
// calls the reconciler needs: listing a budget's transactions and updating a
// single transaction's memo.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production YNAB API endpoint.
const DefaultBaseURL = "https://api.youneedabudget.com/v1"

// Transaction is a YNAB transaction as returned by the transactions listing.
// Amount is in milliunits: $71.88 outflow is -71880.
type Transaction struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Amount    int64   `json:"amount"`
	PayeeName string  `json:"payee_name"`
	Memo      *string `json:"memo"`
}

// Config holds client settings.
type Config struct {
	BaseURL  string
	Token    string
	BudgetID string
}

// Client talks to the YNAB API for a single budget.
type Client struct {
	baseURL    string
	token      string
	budgetID   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a YNAB client. A nil logger falls back to slog.Default.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		budgetID:   cfg.BudgetID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With(slog.String("client", "ynab")),
	}
}

// ListTransactions fetches every transaction in the budget.
func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	url := fmt.Sprintf("%s/budgets/%s/transactions", c.baseURL, c.budgetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions from YNAB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch transactions from YNAB: unexpected status %s", resp.Status)
	}

	var envelope struct {
		Data struct {
			Transactions []Transaction `json:"transactions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode YNAB response: %w", err)
	}

	c.logger.Debug("fetched transactions", slog.Int("count", len(envelope.Data.Transactions)))

	return envelope.Data.Transactions, nil
}

// UpdateMemo sets the memo on a single transaction.
func (c *Client) UpdateMemo(ctx context.Context, transactionID, memo string) error {
	url := fmt.Sprintf("%s/budgets/%s/transactions/%s", c.baseURL, c.budgetID, transactionID)

	payload := map[string]any{
		"transaction": map[string]any{
			"memo": memo,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode memo update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update YNAB transaction %s: %w", transactionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to update YNAB transaction %s: unexpected status %s", transactionID, resp.Status)
	}

	c.logger.Debug("updated memo", slog.String("transaction_id", transactionID))

	return nil
}
