package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable failure classification. Every aborted sale
// attempt maps to exactly one kind; callers can retry by resubmission.
type Kind string

const (
	KindDayClosed         Kind = "day_closed"
	KindDayNotOpened      Kind = "day_not_opened"
	KindCustomerRequired  Kind = "customer_required"
	KindCustomerInvalid   Kind = "customer_invalid"
	KindEmptyCart         Kind = "empty_cart"
	KindProductNotFound   Kind = "product_not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindPersistence       Kind = "persistence_failure"

	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid username or password"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewDayClosedError signals that today's day record exists but is closed
func NewDayClosedError() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindDayClosed,
		Message: "The day is closed for new sales",
	}
}

// NewDayNotOpenedError signals that no day record exists for today
func NewDayNotOpenedError() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindDayNotOpened,
		Message: "The day has not been opened",
	}
}

// NewCustomerRequiredError signals an invoice sale without a resolvable customer
func NewCustomerRequiredError() *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindCustomerRequired,
		Message: "An invoice requires a customer",
	}
}

// NewCustomerInvalidError carries field-level validation errors for a
// customer created inline during a sale
func NewCustomerInvalidError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindCustomerInvalid,
		Message: "Customer validation failed",
		Errors:  fieldErrors,
	}
}

// NewEmptyCartError signals a sale attempt with no line items
func NewEmptyCartError() *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindEmptyCart,
		Message: "The cart is empty",
	}
}

// NewProductNotFoundError signals an unknown product code in the cart
func NewProductNotFoundError(code string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindProductNotFound,
		Message: fmt.Sprintf("Product %s not found", code),
	}
}

// NewInsufficientStockError signals that the requested quantity exceeds
// the stock available at the moment of decrement
func NewInsufficientStockError(code string, requested, available int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", code, requested, available),
	}
}

// NewPersistenceError wraps an unexpected storage fault. The cause is not
// exposed to the caller.
func NewPersistenceError() *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: "An unexpected storage error occurred",
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: err.Error(),
	}
}
