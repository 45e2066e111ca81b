package repository

import (
	"context"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/google/uuid"
)

// SaleFilterParams represents filtering options for sale listing
type SaleFilterParams struct {
	Pagination   *pagination.PaginationParams
	DocumentType *enum.DocumentType
	StartDate    *time.Time
	EndDate      *time.Time
	UserID       *uuid.UUID
}

// SaleRepository defines the interface for sale data access. Sales are
// insert-only: there is no update or delete path.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListByDay(ctx context.Context, dayRecordID uuid.UUID) ([]entity.Sale, error)

	// NextFolio returns the next sequential document number for the given
	// document type. Must be called inside the sale transaction so two
	// concurrent sales cannot claim the same folio.
	NextFolio(ctx context.Context, docType enum.DocumentType) (int, error)

	// Reference counts used to protect products and customers from
	// deletion while sales reference them.
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
