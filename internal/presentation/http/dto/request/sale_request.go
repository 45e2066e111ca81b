package request

// SaleLineRequest represents one cart line in a sale request
type SaleLineRequest struct {
	ProductCode string `json:"product_code" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// NewCustomerRequest carries the fields of a customer created inline
// with an invoice sale
type NewCustomerRequest struct {
	RUT       string `json:"rut"`
	LegalName string `json:"legal_name"`
	Activity  string `json:"activity"`
	Address   string `json:"address"`
}

// CreateSaleRequest represents the sale attempt payload
type CreateSaleRequest struct {
	DocumentType string              `json:"document_type" binding:"required,oneof=receipt invoice"`
	CustomerID   string              `json:"customer_id,omitempty"`
	NewCustomer  *NewCustomerRequest `json:"new_customer,omitempty"`
	Lines        []SaleLineRequest   `json:"lines"`
}

// SaleFilterRequest represents sale listing query parameters
type SaleFilterRequest struct {
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
	DocumentType string `form:"document_type" binding:"omitempty,oneof=receipt invoice"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	UserID       string `form:"user_id"`
}
