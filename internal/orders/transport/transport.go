// Package transport defines the orders API request and response shapes.
package transport

import (
	"time"

	"polleria_backend/internal/orders/repository"
	"polleria_backend/internal/orders/service"
)

type CreateOrderLine struct {
	ProductID int64 `json:"producto_id" validate:"required,gt=0"`
	Quantity  int   `json:"cantidad" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	CustomerID    int64             `json:"cliente_id" validate:"required,gt=0"`
	LocationID    int64             `json:"sucursal_id" validate:"required,gt=0"`
	Total         float64           `json:"total" validate:"required,gt=0"`
	PaymentMethod string            `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Lines         []CreateOrderLine `json:"productos" validate:"required,min=1,dive"`
}

type OrderResponse struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"cliente_id"`
	LocationID  int64     `json:"sucursal_id"`
	Total       float64   `json:"total"`
	Paid        float64   `json:"pago"`
	Outstanding float64   `json:"pendiente"`
	CreatedAt   time.Time `json:"creado_en"`
}

type OrderProductResponse struct {
	ProductID int64   `json:"producto_id"`
	Name      string  `json:"nombre"`
	Price     float64 `json:"precio"`
}

type OrderDetailResponse struct {
	OrderResponse
	Products []OrderProductResponse `json:"productos"`
}

func ToOrderResponse(o repository.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		LocationID:  o.LocationID,
		Total:       o.Total,
		Paid:        o.Paid,
		Outstanding: o.Outstanding,
		CreatedAt:   o.CreatedAt,
	}
}

func ToOrderResponses(orders []repository.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

func ToOrderDetailResponse(d service.OrderDetail) OrderDetailResponse {
	products := make([]OrderProductResponse, 0, len(d.Products))
	for _, p := range d.Products {
		products = append(products, OrderProductResponse{ProductID: p.ProductID, Name: p.Name, Price: p.Price})
	}
	return OrderDetailResponse{OrderResponse: ToOrderResponse(d.Order), Products: products}
}
