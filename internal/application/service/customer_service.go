package service

import (
	"context"
	"strings"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/bazarpos/ventas-api/pkg/apperror"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/bazarpos/ventas-api/pkg/rut"
	"github.com/google/uuid"
)

// CustomerService handles customer operations, including resolving the
// customer reference for an invoice sale.
type CustomerService struct {
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, saleRepo repository.SaleRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, saleRepo: saleRepo}
}

// NewCustomerInput represents the fields for a customer created either
// through CRUD or inline during a sale
type NewCustomerInput struct {
	RUT       string
	LegalName string
	Activity  string
	Address   string
}

// validate checks required fields and the RUT checksum. It returns the
// canonical RUT and any field-level errors.
func (in *NewCustomerInput) validate() (string, []apperror.FieldError) {
	var fieldErrors []apperror.FieldError

	canonical, err := rut.Normalize(in.RUT)
	if strings.TrimSpace(in.RUT) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "rut", Message: "RUT is required"})
	} else if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "rut", Message: "RUT is not valid"})
	}
	if strings.TrimSpace(in.LegalName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "legal_name", Message: "Legal name is required"})
	}
	if strings.TrimSpace(in.Activity) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "activity", Message: "Activity is required"})
	}
	if strings.TrimSpace(in.Address) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "address", Message: "Address is required"})
	}

	return canonical, fieldErrors
}

// CreateCustomer validates and creates a customer. The stored RUT is the
// canonical checksum-validated form.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *NewCustomerInput) (*entity.Customer, error) {
	canonical, fieldErrors := input.validate()
	if len(fieldErrors) > 0 {
		return nil, apperror.NewCustomerInvalidError(fieldErrors)
	}

	existing, err := s.customerRepo.GetByRUT(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this RUT already exists")
	}

	customer := &entity.Customer{
		RUT:       canonical,
		LegalName: strings.TrimSpace(input.LegalName),
		Activity:  strings.TrimSpace(input.Activity),
		Address:   strings.TrimSpace(input.Address),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ResolveCustomerInput selects an existing customer or describes a new one
type ResolveCustomerInput struct {
	CustomerID  *uuid.UUID
	NewCustomer *NewCustomerInput
}

// Resolve returns the customer a sale should reference: an existing
// record looked up by id, or one created inline from raw fields. It runs
// inside the sale's transaction when called from the sale service.
func (s *CustomerService) Resolve(ctx context.Context, input ResolveCustomerInput) (*entity.Customer, error) {
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		return customer, nil
	}

	if input.NewCustomer == nil {
		return nil, apperror.NewCustomerRequiredError()
	}
	return s.CreateCustomer(ctx, input.NewCustomer)
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID        uuid.UUID
	LegalName *string
	Activity  *string
	Address   *string
}

// UpdateCustomer updates a customer's descriptive fields. The RUT is the
// customer's identity and cannot change.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.LegalName != nil {
		customer.LegalName = *input.LegalName
	}
	if input.Activity != nil {
		customer.Activity = *input.Activity
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer unless any sale references it
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	count, err := s.saleRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Customer is referenced by existing sales")
	}

	return s.customerRepo.Delete(ctx, id)
}
