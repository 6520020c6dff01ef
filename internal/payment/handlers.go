package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// signatureHeader carries the provider's hex HMAC of the webhook body.
const signatureHeader = "X-Razorpay-Signature"

// RegisterRoutes configures the payment routes.
func (s *Service) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/payments/order", s.createOrderHandler).Methods("POST")
	api.HandleFunc("/payments/webhook", s.webhookHandler).Methods("POST")

	s.logger.Info("Payment routes configured")
}

// createOrderHandler creates a provider order
func (s *Service) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req types.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	order, err := s.CreateOrder(r.Context(), &req)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, order)
}

// webhookHandler verifies the provider signature over the raw body
func (s *Service) webhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Unable to read request body"))
		return
	}

	signature := r.Header.Get(signatureHeader)
	if !s.VerifySignature(body, signature) {
		s.logger.Security("webhook_rejected", "", map[string]interface{}{
			"reason": "signature_mismatch",
		})
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidToken, "Invalid webhook signature"))
		return
	}

	var event map[string]interface{}
	if err := json.Unmarshal(body, &event); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid webhook payload"))
		return
	}

	if eventType, ok := event["event"].(string); ok {
		s.logger.WithField("event", eventType).Info("Webhook received")
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes a structured error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, appErr *types.AppError) {
	s.writeJSONResponse(w, appErr.HTTPStatus(), map[string]interface{}{
		"error": map[string]interface{}{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
