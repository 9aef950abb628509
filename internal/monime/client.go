package monime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gatherup-events/gatherup/internal/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured  = errors.New("monime_not_configured")
	ErrGatewayFailure = errors.New("monime_gateway_failure")
)

// PayoutRequest is the outbound disbursement contract.
type PayoutRequest struct {
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	RecipientPhone string            `json:"recipientPhone"`
	Metadata       map[string]string `json:"metadata,omitempty"`

	// IdempotencyKey dedupes retried payout creation on the gateway side.
	IdempotencyKey string `json:"-"`
}

// Payout is the gateway's view of a created disbursement.
type Payout struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client creates payouts against the Monime API.
type Client interface {
	CreatePayout(ctx context.Context, req PayoutRequest) (*Payout, error)
}

type httpClient struct {
	cfg  config.MonimeConfig
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) Client {
	return &httpClient{
		cfg:  cfg.Monime,
		http: &http.Client{Timeout: cfg.Monime.Timeout},
		log:  log.Named("monime.client"),
	}
}

func (c *httpClient) CreatePayout(ctx context.Context, req PayoutRequest) (*Payout, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if req.Currency == "" {
		req.Currency = c.cfg.Currency
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/payouts"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.SpaceID != "" {
		httpReq.Header.Set("Monime-Space-Id", c.cfg.SpaceID)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGatewayFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("payout request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("recipient", req.RecipientPhone),
		)
		return nil, fmt.Errorf("%w: status %d", ErrGatewayFailure, resp.StatusCode)
	}

	var result struct {
		Result Payout `json:"result"`
		Payout
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGatewayFailure, err)
	}
	payout := result.Payout
	if result.Result.ID != "" {
		payout = result.Result
	}
	if payout.ID == "" {
		return nil, fmt.Errorf("%w: missing payout id", ErrGatewayFailure)
	}
	return &payout, nil
}
