package api

import (
	"context"
	"net/http"

	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orders is the user-scoped order read surface.
type Orders interface {
	GetOrderByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*orderdomain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*orderdomain.Order, error)
}

type OrdersHandler struct {
	orders   Orders
	checkout Checkout
	log      *zap.Logger
}

func NewOrdersHandler(orders Orders, checkout Checkout, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, checkout: checkout, log: log}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, h.log, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListOrdersByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, toOrderResponses(orders))
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, h.log, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.orders.GetOrderByIDForUser(r.Context(), orderID, userID)
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, toOrderResponse(order))
}

func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, h.log, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.checkout.CancelOrder(r.Context(), userID, orderID)
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, toOrderResponse(order))
}
