package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents the create product request payload
type CreateProductRequest struct {
	Code      string          `json:"code" binding:"required,max=20"`
	Name      string          `json:"name" binding:"required,max=100"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Stock     int             `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents the update product request payload
type UpdateProductRequest struct {
	Name      *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Stock     *int             `json:"stock,omitempty" binding:"omitempty,min=0"`
}

// ProductFilterRequest represents product listing query parameters
type ProductFilterRequest struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Search  string `form:"search"`
}
