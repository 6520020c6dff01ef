package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// Client talks to the payment provider's REST API with basic auth.
type Client struct {
	config     *config.PaymentConfig
	logger     *logger.Logger
	httpClient *http.Client
}

// NewClient creates a new provider client
func NewClient(cfg *config.PaymentConfig, log *logger.Logger) *Client {
	return &Client{
		config: cfg,
		logger: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder creates an order with the provider and returns its order
// object unchanged.
func (c *Client) CreateOrder(ctx context.Context, req *types.OrderRequest) (*types.PaymentOrder, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).Error("Provider order request failed")
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"status": resp.StatusCode,
		}).Error("Provider rejected order")
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	order := &types.PaymentOrder{}
	if err := json.Unmarshal(body, order); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	return order, nil
}
