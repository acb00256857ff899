package api

import (
	"context"
	"encoding/json"
	"net/http"

	checkout "github.com/fjod/go_shop/internal/checkout/service"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout is the orchestrator surface the API exposes.
type Checkout interface {
	PlaceOrder(ctx context.Context, userID string, shipping checkout.ShippingInfo, paymentMethod string) (*orderdomain.Order, error)
	CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) (*orderdomain.Order, error)
}

type CheckoutHandler struct {
	checkout Checkout
	log      *zap.Logger
}

func NewCheckoutHandler(checkout Checkout, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

type PlaceOrderRequestDTO struct {
	Shipping      checkout.ShippingInfo `json:"shipping"`
	PaymentMethod string                `json:"payment_method"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, h.log, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Shipping.Street == "" || req.Shipping.City == "" {
		respondError(w, h.log, http.StatusBadRequest, "invalid_shipping", "shipping street and city are required")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	order, err := h.checkout.PlaceOrder(r.Context(), userID, req.Shipping, req.PaymentMethod)
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusCreated, toOrderResponse(order))
}
