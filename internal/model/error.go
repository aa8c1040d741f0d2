package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeOrderCreationFailed  = "ORDER_CREATION_FAILED"
	ErrCodeOrderListingFailed   = "ORDER_LISTING_FAILED"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeOrderRetrievalFailed = "ORDER_RETRIEVAL_FAILED"
	ErrCodeOrderUpdateFailed    = "ORDER_UPDATE_FAILED"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is the only error shape that crosses the service boundary.
// Status is the coarse classification (400, 404 or 500); causes stay in the logs.
type DomainError struct {
	Status  int
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(status int, code, message string) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOrderCreationFailed  = NewDomainError(http.StatusBadRequest, ErrCodeOrderCreationFailed, "Error creating order - check logs")
	ErrOrderListingFailed   = NewDomainError(http.StatusInternalServerError, ErrCodeOrderListingFailed, "Error listing orders")
	ErrOrderRetrievalFailed = NewDomainError(http.StatusInternalServerError, ErrCodeOrderRetrievalFailed, "Error finding order")
	ErrOrderUpdateFailed    = NewDomainError(http.StatusInternalServerError, ErrCodeOrderUpdateFailed, "Error updating order")
	ErrInternal             = NewDomainError(http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
)

// ErrUnknownProduct marks a line item whose product is absent from the catalogue response.
var ErrUnknownProduct = errors.New("unknown product")

// NewValidationError creates a bad-request error describing malformed input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(http.StatusBadRequest, ErrCodeValidationFailed, message)
}

// NewOrderNotFoundError creates a not-found error carrying the order ID.
func NewOrderNotFoundError(id uuid.UUID) *DomainError {
	return NewDomainError(http.StatusNotFound, ErrCodeOrderNotFound, fmt.Sprintf("Order with id %s not found", id))
}

// AsDomainError classifies err. Anything that is not a DomainError is reported as ErrInternal.
func AsDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return ErrInternal
}

// IsNotFound reports whether err is an order not-found error.
func IsNotFound(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == ErrCodeOrderNotFound
}
