package service

import (
	"context"
	"log"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/bazarpos/ventas-api/pkg/apperror"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleService is the sale transaction engine. A sale either commits in
// full, with its items, its stock decrements, its folio and any inline
// customer, or leaves no trace at all.
type SaleService struct {
	transactor  repository.Transactor
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	dayRepo     repository.DayRepository
	customerSvc *CustomerService
	taxRate     decimal.Decimal
	loc         *time.Location
}

// NewSaleService creates a new sale service
func NewSaleService(
	transactor repository.Transactor,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	dayRepo repository.DayRepository,
	customerSvc *CustomerService,
	taxRate decimal.Decimal,
	loc *time.Location,
) *SaleService {
	return &SaleService{
		transactor:  transactor,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		dayRepo:     dayRepo,
		customerSvc: customerSvc,
		taxRate:     taxRate,
		loc:         loc,
	}
}

// SaleLineInput represents one requested cart line
type SaleLineInput struct {
	ProductCode string
	Quantity    int
}

// mergeLines coalesces repeated product codes into one line per product,
// summing quantities and preserving first-seen order, so a sale stores
// one item per distinct product.
func mergeLines(lines []SaleLineInput) []SaleLineInput {
	merged := make([]SaleLineInput, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductCode]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductCode] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// CreateSaleInput represents a sale attempt submitted by a logged-in user
type CreateSaleInput struct {
	UserID       uuid.UUID
	DocumentType enum.DocumentType
	CustomerID   *uuid.UUID
	NewCustomer  *NewCustomerInput
	Lines        []SaleLineInput
}

// CreateSale processes a sale attempt. On any failure the whole attempt
// is discarded and the mapped error tells the seller why; stock is never
// partially decremented.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	day, err := s.dayRepo.GetByDate(ctx, entity.DateOf(time.Now().In(s.loc)))
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, apperror.NewDayNotOpenedError()
	}
	if !day.IsOpen() {
		return nil, apperror.NewDayClosedError()
	}

	if !input.DocumentType.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown document type")
	}

	// The customer question is settled before the cart is looked at: an
	// invoice with neither a customer reference nor inline data fails on
	// that, even if the cart is also empty.
	if input.DocumentType.RequiresCustomer() && input.CustomerID == nil && input.NewCustomer == nil {
		return nil, apperror.NewCustomerRequiredError()
	}

	if len(input.Lines) == 0 {
		return nil, apperror.NewEmptyCartError()
	}
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, apperror.NewBadRequestError("Line quantities must be at least 1")
		}
	}
	lines := mergeLines(input.Lines)

	var sale *entity.Sale
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var customerID *uuid.UUID
		if input.DocumentType.RequiresCustomer() {
			customer, err := s.customerSvc.Resolve(ctx, ResolveCustomerInput{
				CustomerID:  input.CustomerID,
				NewCustomer: input.NewCustomer,
			})
			if err != nil {
				return err
			}
			customerID = &customer.ID
		}

		subtotal := decimal.Zero
		items := make([]entity.SaleItem, 0, len(lines))
		for _, line := range lines {
			product, err := s.productRepo.GetByCode(ctx, line.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewProductNotFoundError(line.ProductCode)
			}

			ok, err := s.productRepo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.NewInsufficientStockError(product.Code, line.Quantity, product.Stock)
			}

			lineSubtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineSubtotal)
			items = append(items, entity.SaleItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.UnitPrice,
				Subtotal:  lineSubtotal,
			})
		}

		tax := subtotal.Mul(s.taxRate).Round(2)
		total := subtotal.Add(tax)

		folio, err := s.saleRepo.NextFolio(ctx, input.DocumentType)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			Folio:        folio,
			DocumentType: input.DocumentType,
			IssuedAt:     time.Now().In(s.loc),
			Subtotal:     subtotal,
			Tax:          tax,
			Total:        total,
			UserID:       input.UserID,
			CustomerID:   customerID,
			DayRecordID:  day.ID,
		}
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		for i := range items {
			items[i].SaleID = sale.ID
		}
		return s.saleRepo.CreateItems(ctx, items)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		log.Printf("sale transaction failed: %v", err)
		return nil, apperror.NewPersistenceError()
	}

	return s.saleRepo.GetWithItems(ctx, sale.ID)
}

// GetSale retrieves a sale with its items and customer
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering and pagination
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// NextFolio previews the folio the next sale of the given type would
// receive. The value is informative only; the committed folio is
// assigned inside the sale transaction.
func (s *SaleService) NextFolio(ctx context.Context, docType enum.DocumentType) (int, error) {
	if !docType.IsValid() {
		return 0, apperror.NewBadRequestError("Unknown document type")
	}
	return s.saleRepo.NextFolio(ctx, docType)
}
