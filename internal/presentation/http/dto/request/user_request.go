package request

// CreateUserRequest represents the create user request payload
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=seller sales-manager"`
}

// UpdateUserRequest represents the update user request payload
type UpdateUserRequest struct {
	Password *string `json:"password,omitempty" binding:"omitempty,min=8"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=seller sales-manager"`
	Active   *bool   `json:"active,omitempty"`
}
