// Package errors provides typed, wrapped errors for the slicer/mapper/
// conductor pipeline, distinguishing fatal stage errors from recoverable
// per-item errors.
package errors

import (
	"fmt"
	"time"
)

// ErrorType classifies an error for diagnostics and filtering.
type ErrorType string

const (
	ErrorTypeStage  ErrorType = "stage"
	ErrorTypeParse  ErrorType = "parse"
	ErrorTypeItem   ErrorType = "item"
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeStore  ErrorType = "store"
)

// StageError represents a fatal, stage-terminating error: a missing input, a
// malformed artifact, an unopenable store, a missing grammar.
type StageError struct {
	Stage      string // "slicer" | "mapper" | "conductor"
	Operation  string
	Resource   string
	Underlying error
	Timestamp  time.Time
}

// NewStageError creates a new fatal stage error with context.
func NewStageError(stage, op, resource string, err error) *StageError {
	return &StageError{
		Stage:      stage,
		Operation:  op,
		Resource:   resource,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *StageError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Stage, e.Operation, e.Resource, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Stage, e.Operation, e.Underlying)
}

func (e *StageError) Unwrap() error {
	return e.Underlying
}

// ParseError represents a recoverable per-file parse failure: the file is
// skipped with a warning, the pipeline continues.
type ParseError struct {
	FilePath   string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error.
func NewParseError(path string, err error) *ParseError {
	return &ParseError{
		FilePath:   path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.FilePath, e.Underlying)
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// ItemError represents a recoverable per-item error: an unknown mapper
// dependency, a failed transpile, a failed verify. It is logged and the
// pipeline continues; in the conductor it is also persisted as a Failed
// task row.
type ItemError struct {
	Type       ErrorType
	ItemID     string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewItemError creates a new recoverable per-item error.
func NewItemError(itemType ErrorType, itemID, op string, err error) *ItemError {
	return &ItemError{
		Type:       itemType,
		ItemID:     itemID,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s failed for %q: %v", e.Type, e.Operation, e.ItemID, e.Underlying)
}

func (e *ItemError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates multiple independent errors, e.g. per-unit failures
// collected across a conductor batch.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, dropping any nil entries.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}
