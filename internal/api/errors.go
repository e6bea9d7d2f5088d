package api

import (
	"errors"
	"fmt"
	"net/http"

	"StockOutlook/internal/collector"
	"StockOutlook/internal/model"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value any) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]any)
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// FromDomainError maps errors raised by the collector to HTTP errors:
// malformed input 400, unknown symbol, empty history or a missing value 404,
// too little history 422, provider failures 502.
func FromDomainError(err error) *AppError {
	var ide *model.InsufficientDataError
	switch collector.ErrorKind(err) {
	case "invalid_input":
		return NewAppError("ERR_INVALID_INPUT", "", err.Error(), http.StatusBadRequest).WithError(err)
	case "unknown_symbol":
		return NewAppError("ERR_UNKNOWN_SYMBOL", "symbol", "unknown symbol", http.StatusNotFound).WithError(err)
	case "empty_history":
		return NewAppError("ERR_EMPTY_HISTORY", "symbol", "no price history in range", http.StatusNotFound).WithError(err)
	case "insufficient_data":
		appErr := NewAppError("ERR_INSUFFICIENT_DATA", "", "not enough history", http.StatusUnprocessableEntity).WithError(err)
		if errors.As(err, &ide) {
			appErr.Field = ide.Field
			appErr.WithParam("need", ide.Need).WithParam("have", ide.Have)
		}
		return appErr
	case "no_value":
		return NewAppError("ERR_NO_VALUE", "date", "no value recorded for that date", http.StatusNotFound).WithError(err)
	case "ambiguous_value":
		return NewAppError("ERR_AMBIGUOUS_VALUE", "date", "more than one value recorded for that date", http.StatusConflict).WithError(err)
	case "provider":
		return NewAppError("ERR_PROVIDER", "", "data provider unavailable", http.StatusBadGateway).WithError(err)
	case "canceled":
		return NewAppError("ERR_CANCELED", "", "request canceled", http.StatusServiceUnavailable).WithError(err)
	default:
		return NewAppError("ERR_INTERNAL", "", "internal error", http.StatusInternalServerError).WithError(err)
	}
}
