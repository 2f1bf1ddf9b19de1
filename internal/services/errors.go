package services

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/yungbote/brawltrack-backend/internal/platform/apierr"
)

var (
	ErrDuplicateAccount   = apierr.New(http.StatusConflict, "duplicate_account", errors.New("an account with this email already exists"))
	ErrInvalidCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid email or password"))
	ErrAccountNotFound    = apierr.New(http.StatusNotFound, "account_not_found", errors.New("account not found"))
	ErrUnauthorized       = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid access token"))
	ErrForbidden          = apierr.New(http.StatusForbidden, "forbidden", errors.New("token does not grant access to this account"))
)

// ValidationError maps field names to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) HTTPStatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) ErrorCode() string { return "validation_failed" }

func (e *ValidationError) Details() any {
	if e == nil {
		return nil
	}
	return e.Fields
}
