package service

import (
	"context"
	"strings"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/bazarpos/ventas-api/pkg/apperror"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService handles product catalogue and inventory operations
type ProductService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *ProductService {
	return &ProductService{productRepo: productRepo, saleRepo: saleRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code      string
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apperror.NewBadRequestError("Product code is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, apperror.NewBadRequestError("Unit price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, apperror.NewBadRequestError("Stock cannot be negative")
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this code already exists")
	}

	product := &entity.Product{
		Code:      code,
		Name:      strings.TrimSpace(input.Name),
		UnitPrice: input.UnitPrice,
		Stock:     input.Stock,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByCode retrieves a product by its code
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewProductNotFoundError(code)
	}
	return product, nil
}

// ListProducts lists products with pagination and search
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input. Stock is
// replenished here; it is only ever reduced by committed sales.
type UpdateProductInput struct {
	ID        uuid.UUID
	Name      *string
	UnitPrice *decimal.Decimal
	Stock     *int
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, apperror.NewBadRequestError("Unit price cannot be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperror.NewBadRequestError("Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product unless any sale line references it
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	count, err := s.saleRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Product is referenced by existing sales")
	}

	return s.productRepo.Delete(ctx, id)
}
