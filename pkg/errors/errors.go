package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures for propagation decisions
type ErrorType string

const (
	// ErrorTypeNetwork represents fetch/transport failures
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing failures
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents caller input errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents an empty scoped search
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInternal represents everything else
	ErrorTypeInternal ErrorType = "internal"
)

// AppError is a classified error carrying the component that raised it
type AppError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(errType ErrorType, component, message string, err error) *AppError {
	return &AppError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// NewValidation creates a caller input error
func NewValidation(component, message string) *AppError {
	return New(ErrorTypeValidation, component, message, nil)
}

// NewNotFound creates an empty-result error for scoped searches
func NewNotFound(component, message string) *AppError {
	return New(ErrorTypeNotFound, component, message, nil)
}

// NewNetwork creates a transport failure error
func NewNetwork(component, message string, err error) *AppError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewInternal creates a generic internal error
func NewInternal(component, message string, err error) *AppError {
	return New(ErrorTypeInternal, component, message, err)
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
