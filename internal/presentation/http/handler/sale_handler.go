package handler

import (
	"time"

	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/bazarpos/ventas-api/internal/presentation/http/dto/request"
	"github.com/bazarpos/ventas-api/internal/presentation/http/dto/response"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles a sale attempt
func (h *SaleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	docType, ok := parseDocumentType(req.DocumentType)
	if !ok {
		response.BadRequest(c, "Unknown document type")
		return
	}

	input := &service.CreateSaleInput{
		UserID:       *userID,
		DocumentType: docType,
	}

	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}
	if req.NewCustomer != nil {
		input.NewCustomer = &service.NewCustomerInput{
			RUT:       req.NewCustomer.RUT,
			LegalName: req.NewCustomer.LegalName,
			Activity:  req.NewCustomer.Activity,
			Address:   req.NewCustomer.Address,
		}
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.SaleLineInput{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
		})
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// Get handles getting a single sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles listing sales with filters
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	params.Pagination.Validate()

	if filter.DocumentType != "" {
		docType, ok := parseDocumentType(filter.DocumentType)
		if !ok {
			response.BadRequest(c, "Unknown document type")
			return
		}
		params.DocumentType = &docType
	}
	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		params.EndDate = &end
	}
	if filter.UserID != "" {
		sellerID, err := uuid.Parse(filter.UserID)
		if err != nil {
			response.BadRequest(c, "Invalid user ID")
			return
		}
		params.UserID = &sellerID
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// NextFolio handles previewing the next document number
func (h *SaleHandler) NextFolio(c *gin.Context) {
	docType, ok := parseDocumentType(c.DefaultQuery("document_type", "receipt"))
	if !ok {
		response.BadRequest(c, "Unknown document type")
		return
	}

	folio, err := h.saleService.NextFolio(c.Request.Context(), docType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next folio retrieved successfully", gin.H{
		"document_type": docType,
		"folio":         folio,
	})
}
