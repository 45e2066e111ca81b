package repository

import (
	"context"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductFilterParams represents filtering options for product listing
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)

	// DecrementStock atomically reduces stock by quantity only if enough
	// stock is available at the moment of the update. It returns false,
	// without touching the row, when stock < quantity. It participates in
	// the caller's transaction and never manages its own boundary.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
}
