package api

import (
	cartdomain "github.com/fjod/go_shop/internal/cart/domain"
	catalogdomain "github.com/fjod/go_shop/internal/catalog/domain"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
)

// Monetary amounts are rendered as fixed two-decimal strings so JSON
// clients never see binary-float artifacts.

type ProductResponseDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

func toProductResponse(p *catalogdomain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}

func toProductResponses(products []*catalogdomain.Product) []ProductResponseDTO {
	out := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type CartItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CartResponseDTO struct {
	UserID     string        `json:"user_id"`
	Items      []CartItemDTO `json:"items"`
	TotalItems int           `json:"total_items"`
	Total      string        `json:"total,omitempty"`
}

func toCartResponse(cart *cartdomain.Cart, total string) CartResponseDTO {
	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return CartResponseDTO{
		UserID:     cart.UserID,
		Items:      items,
		TotalItems: cart.TotalItems(),
		Total:      total,
	}
}

type OrderItemDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

type OrderResponseDTO struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Items           []OrderItemDTO `json:"items"`
	TotalAmount     string         `json:"total_amount"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	ShippingAddress string         `json:"shipping_address,omitempty"`
	CreatedAt       string         `json:"created_at"`
}

func toOrderResponse(order *orderdomain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
			Subtotal:    item.Subtotal().StringFixed(2),
		})
	}
	return OrderResponseDTO{
		ID:              order.ID.String(),
		UserID:          order.UserID,
		Items:           items,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toOrderResponses(orders []*orderdomain.Order) []OrderResponseDTO {
	out := make([]OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}
