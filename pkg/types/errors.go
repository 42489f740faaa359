package types

import (
	"errors"
	"fmt"
	"strings"
)

// Journal errors. Callers match them with errors.Is; the typed errors below
// unwrap to these sentinels.
var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidFeeling = errors.New("invalid feeling")
	ErrValidation     = errors.New("validation failed")
	ErrUnknownFeeling = errors.New("feeling missing from catalog")
	ErrInvalidData    = errors.New("invalid persisted data")
)

// KV lifecycle errors.
var (
	ErrStoreClosed = errors.New("store is closed")
	ErrInvalidKey  = errors.New("invalid key")
)

// InvalidFeelingError reports a write that named a feeling absent from the
// catalog. Valid lists the accepted names in catalog order.
type InvalidFeelingError struct {
	Name  string
	Valid []string
}

func (e *InvalidFeelingError) Error() string {
	return fmt.Sprintf("invalid feeling %q: options are %s", e.Name, strings.Join(e.Valid, ", "))
}

func (e *InvalidFeelingError) Unwrap() error { return ErrInvalidFeeling }

// ValidationError reports malformed input such as a bad date or time.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnknownFeelingError reports stored history that references a feeling the
// catalog no longer defines.
type UnknownFeelingError struct {
	Name string
	Date string
}

func (e *UnknownFeelingError) Error() string {
	return fmt.Sprintf("feeling %q recorded on %s is not in the catalog", e.Name, e.Date)
}

func (e *UnknownFeelingError) Unwrap() error { return ErrUnknownFeeling }
