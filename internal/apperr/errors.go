// Package apperr defines the error kinds surfaced by the quoting engine.
// Every typed error unwraps to one of the sentinels below so callers can
// branch with errors.Is and recover details with errors.As.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"sink_quoter/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrExpired           = errors.New("quote expired")
	ErrVersionConflict   = errors.New("version conflict")
	ErrTransactionFailed = errors.New("transaction failed")
)

// NotFound reports a missing entity, or one outside the caller's company.
func NotFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ValidationError maps offending field names to the rule they broke.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type TransitionError struct {
	From models.QuoteStatus
	To   models.QuoteStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move quote from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// VersionConflictError carries the stored record so the caller can re-render
// and retry.
type VersionConflictError struct {
	ClientVersion  int
	CurrentVersion int
	Current        *models.Quote
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("quote was modified: client version %d, current version %d", e.ClientVersion, e.CurrentVersion)
}

func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// Transaction wraps a storage failure that aborted a transaction. Errors that
// already carry one of the engine's kinds pass through unchanged.
func Transaction(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrInvalidTransition, ErrExpired, ErrVersionConflict, ErrTransactionFailed} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}
