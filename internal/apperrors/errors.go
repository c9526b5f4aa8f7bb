package apperrors

import (
	"errors"
	"fmt"
)

// Type classifies an application error.
type Type string

const (
	TypeNotFound     Type = "NOT_FOUND"
	TypeValidation   Type = "VALIDATION"
	TypeConflict     Type = "CONFLICT"
	TypeUnauthorized Type = "UNAUTHORIZED"
	TypeForbidden    Type = "FORBIDDEN"
	TypeInternal     Type = "INTERNAL"
	TypeExternal     Type = "EXTERNAL"
)

// AppError carries a classification alongside the message so transport
// layers can pick a status code without string matching.
type AppError struct {
	Type    Type
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFound(format string, args ...any) *AppError {
	return &AppError{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewValidation(format string, args ...any) *AppError {
	return &AppError{Type: TypeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) *AppError {
	return &AppError{Type: TypeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Type: TypeUnauthorized, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Type: TypeForbidden, Message: message}
}

func NewInternal(message string, err error) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

func NewExternal(message string, err error) *AppError {
	return &AppError{Type: TypeExternal, Message: message, Err: err}
}

// TypeOf returns the classification of err, or TypeInternal when err does
// not wrap an AppError.
func TypeOf(err error) Type {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// Is reports whether err wraps an AppError of type t.
func Is(err error, t Type) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
