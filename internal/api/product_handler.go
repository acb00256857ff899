package api

import (
	"context"
	"net/http"
	"strconv"

	catalogdomain "github.com/fjod/go_shop/internal/catalog/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductCatalog is the read surface of the catalog the API exposes.
type ProductCatalog interface {
	GetAllProducts(ctx context.Context) ([]*catalogdomain.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*catalogdomain.Product, error)
	GetProductsInStock(ctx context.Context) ([]*catalogdomain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]*catalogdomain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	catalog ProductCatalog
	log     *zap.Logger
}

func NewProductHandler(catalog ProductCatalog, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

// ListProducts supports ?category=, ?search= and ?in_stock=true filters.
// Filters are mutually exclusive; category wins over search.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []*catalogdomain.Product
		err      error
	)

	switch {
	case r.URL.Query().Get("category") != "":
		products, err = h.catalog.GetProductsByCategory(r.Context(), r.URL.Query().Get("category"))
	case r.URL.Query().Get("search") != "":
		products, err = h.catalog.SearchProducts(r.Context(), r.URL.Query().Get("search"))
	case r.URL.Query().Get("in_stock") == "true":
		products, err = h.catalog.GetProductsInStock(r.Context())
	default:
		products, err = h.catalog.GetAllProducts(r.Context())
	}
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, toProductResponses(products))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, h.log, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, categories)
}
