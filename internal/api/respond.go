package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	cartrepo "github.com/fjod/go_shop/internal/cart/repository"
	cartservice "github.com/fjod/go_shop/internal/cart/service"
	catalogrepo "github.com/fjod/go_shop/internal/catalog/repository"
	checkout "github.com/fjod/go_shop/internal/checkout/service"
	"github.com/fjod/go_shop/internal/inventory"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	orderrepo "github.com/fjod/go_shop/internal/order/repository"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, log *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, log *zap.Logger, status int, code, message string) {
	respondJSON(w, log, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps domain errors to HTTP status codes.
func handleServiceError(ctx context.Context, w http.ResponseWriter, log *zap.Logger, err error) {
	var insufficient *inventory.InsufficientStockError
	var invalidTransition *orderdomain.InvalidTransitionError

	switch {
	case errors.Is(err, catalogrepo.ErrProductNotFound),
		errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, cartrepo.ErrCartNotFound),
		errors.Is(err, cartrepo.ErrItemNotFound),
		errors.Is(err, orderrepo.ErrOrderNotFound):
		respondError(w, log, http.StatusNotFound, "not_found", err.Error())

	case errors.As(err, &insufficient):
		respondJSON(w, log, http.StatusConflict, ErrorResponse{
			Error:   err.Error(),
			Code:    "insufficient_stock",
			Details: fmt.Sprintf("product %d has %d available", insufficient.ProductID, insufficient.Available),
		})

	case errors.As(err, &invalidTransition):
		respondError(w, log, http.StatusConflict, "invalid_status_transition", err.Error())

	case errors.Is(err, cartservice.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidQuantity):
		respondError(w, log, http.StatusBadRequest, "invalid_quantity", err.Error())

	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, log, http.StatusUnprocessableEntity, "empty_cart", err.Error())

	case errors.Is(err, checkout.ErrPaymentFailed):
		respondError(w, log, http.StatusPaymentRequired, "payment_failed", err.Error())

	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		respondError(w, log, http.StatusServiceUnavailable, "service_unavailable", "payment temporarily unavailable")

	default:
		log.Error("unhandled service error",
			zap.String("request_id", getRequestID(ctx)),
			zap.Error(err))
		respondError(w, log, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
