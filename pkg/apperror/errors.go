package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies where in the sale flow an error belongs. Handlers and the
// notification hub use it to decide how an error is presented and whether a
// retry makes sense.
type Kind string

const (
	// KindPrecondition: detected locally before any network call (empty
	// cart, no outlet, no open shift, no table). Never retried
	// automatically.
	KindPrecondition Kind = "precondition"
	// KindPolicy: pricing/quantity policy violations at add-to-cart or
	// quantity-change time. Blocks the mutation, not the whole cart.
	KindPolicy Kind = "policy"
	// KindNotFound: lookup misses and missing resources.
	KindNotFound Kind = "not_found"
	// KindSubmission: sale submission failures (4xx, 5xx, timeouts). The
	// only kind the user retries by re-invoking checkout.
	KindSubmission Kind = "submission"
	// KindPostSale: failures after the sale was durably created (delivery,
	// refetch, print). Never rolls the sale back.
	KindPostSale Kind = "post_sale"
)

// AppError is an application error with an HTTP status code and a flow kind.
type AppError struct {
	Code      int    `json:"code"`
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindPrecondition, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindSubmission, Message: "Internal server error"}
)

// NewPreconditionError creates a checkout precondition failure.
func NewPreconditionError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindPrecondition, Message: message}
}

// NewPolicyError creates a pricing/quantity policy violation.
func NewPolicyError(message string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindPolicy, Message: message}
}

// NewNotFoundError creates a not found error for the named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: resource + " not found"}
}

// NewBadRequestError creates a bad request error with a custom message.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindPrecondition, Message: message}
}

// NewSubmissionError creates a sale submission failure. Retryable marks
// server/network failures where the caller may re-invoke checkout without
// assuming the sale was or was not created.
func NewSubmissionError(code int, message string, retryable bool) *AppError {
	return &AppError{Code: code, Kind: KindSubmission, Message: message, Retryable: retryable}
}

// NewPostSaleError creates a failure that happened after the sale was
// created. The sale stands; the error is reported independently.
func NewPostSaleError(message string) *AppError {
	return &AppError{Code: http.StatusBadGateway, Kind: KindPostSale, Message: message}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// GetAppError converts an error to AppError if possible.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindSubmission,
		Message: err.Error(),
	}
}
