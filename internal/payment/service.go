package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/monitoring"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// OrderCreator is the provider surface the service depends on.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req *types.OrderRequest) (*types.PaymentOrder, error)
}

// Service handles payment order creation and webhook verification.
type Service struct {
	config  *config.Config
	logger  *logger.Logger
	client  OrderCreator
	metrics *monitoring.MetricsCollector
}

// NewService creates a new payment service
func NewService(cfg *config.Config, log *logger.Logger, client OrderCreator, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		config:  cfg,
		logger:  log,
		client:  client,
		metrics: metrics,
	}
}

// CreateOrder validates the request and passes the provider's order object
// through to the caller.
func (s *Service) CreateOrder(ctx context.Context, req *types.OrderRequest) (*types.PaymentOrder, error) {
	if req.Amount <= 0 {
		return nil, types.NewValidationError(types.ErrCodeMissingInput, "A positive amount is required")
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordPaymentOrder("error")
		}
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to create payment order", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"amount":   order.Amount,
	}).Info("Payment order created")
	if s.metrics != nil {
		s.metrics.RecordPaymentOrder("created")
	}

	return order, nil
}

// signPayload computes the hex-encoded HMAC-SHA256 of payload under the
// webhook secret.
func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the HMAC-SHA256 of payload
// under the configured webhook secret. The comparison is constant-time.
func (s *Service) VerifySignature(payload []byte, signature string) bool {
	expected := signPayload(payload, s.config.Payment.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
