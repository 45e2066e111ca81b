package handler

import (
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsSalesManager checks if the user holds the sales-manager role
func IsSalesManager(c *gin.Context) bool {
	return GetUserRole(c) == enum.RoleSalesManager
}

// parseDocumentType maps the wire name of a document type to its enum
// value. The request binding already restricts the input to the known
// names.
func parseDocumentType(name string) (enum.DocumentType, bool) {
	switch name {
	case "receipt":
		return enum.DocumentTypeReceipt, true
	case "invoice":
		return enum.DocumentTypeInvoice, true
	}
	return enum.DocumentTypeReceipt, false
}
