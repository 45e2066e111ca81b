package request

// CreateCustomerRequest represents the create customer request payload.
// Field presence is validated in the service so that each missing field
// gets its own error entry.
type CreateCustomerRequest struct {
	RUT       string `json:"rut"`
	LegalName string `json:"legal_name"`
	Activity  string `json:"activity"`
	Address   string `json:"address"`
}

// UpdateCustomerRequest represents the update customer request payload
type UpdateCustomerRequest struct {
	LegalName *string `json:"legal_name,omitempty" binding:"omitempty,max=100"`
	Activity  *string `json:"activity,omitempty" binding:"omitempty,max=100"`
	Address   *string `json:"address,omitempty" binding:"omitempty,max=150"`
}
