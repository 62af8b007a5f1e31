// Package transport defines the catalog API request and response shapes.
package transport

import "polleria_backend/internal/catalog/repository"

type CreateProductRequest struct {
	Name        string  `json:"nombre" validate:"required,min=2,max=120"`
	Description string  `json:"descripcion" validate:"max=500"`
	Price       float64 `json:"precio" validate:"required,gt=0"`
	Unit        string  `json:"unidad" validate:"max=30"`
}

type UpdateProductRequest struct {
	Name        string  `json:"nombre" validate:"required,min=2,max=120"`
	Description string  `json:"descripcion" validate:"max=500"`
	Price       float64 `json:"precio" validate:"required,gt=0"`
	Unit        string  `json:"unidad" validate:"max=30"`
	Active      bool    `json:"activo"`
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Unit        string  `json:"unidad,omitempty"`
	ImageURL    string  `json:"imagen_url,omitempty"`
	Active      bool    `json:"activo"`
}

func ToProductResponse(p repository.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Unit:        p.Unit,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
	}
}

func ToProductResponses(products []repository.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out
}
