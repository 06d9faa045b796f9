package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ordrlab/orderflow/internal/models"
)

// LedgerClient performs withdrawals against the ledger service
type LedgerClient struct {
	client  *http.Client
	baseURL string
}

// NewLedgerClient creates new LedgerClient instance
func NewLedgerClient(baseURL string) *LedgerClient {
	return &LedgerClient{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type withdrawRequest struct {
	UserID uint64  `json:"user_id"`
	Amount float64 `json:"amount"`
}

type withdrawResponse struct {
	Withdrawn bool     `json:"withdrawn"`
	Message   string   `json:"message"`
	Balance   *float64 `json:"balance,omitempty"`
}

// Withdraw attempts to withdraw amount for user. A declined withdrawal
// is a completed call: the result carries Withdrawn=false and the reason.
// Only transport-level problems are returned as errors.
func (c *LedgerClient) Withdraw(ctx context.Context, userID uint64, amount float64) (*models.WithdrawResult, error) {
	// POST /withdraw
	url, err := url.JoinPath(c.baseURL, "withdraw")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(withdrawRequest{
		UserID: userID,
		Amount: amount,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger service: unexpected status %d", resp.StatusCode)
	}

	withdrawResp := withdrawResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&withdrawResp); err != nil {
		return nil, err
	}

	return &models.WithdrawResult{
		Withdrawn: withdrawResp.Withdrawn,
		Message:   withdrawResp.Message,
		Balance:   withdrawResp.Balance,
	}, nil
}
