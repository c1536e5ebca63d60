package fitness

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by errors.Is on validation and factory failures.
var (
	ErrUnknownActivity = errors.New("unknown activity")
	ErrFieldCount      = errors.New("wrong field count")
	ErrNotNumeric      = errors.New("field is not numeric")
	ErrNotPositive     = errors.New("field is not positive")
	ErrNotWhole        = errors.New("field is not a whole number")
	ErrCountRange      = errors.New("count out of range")
	ErrWeightRange     = errors.New("weight out of range")
	ErrHeightRange     = errors.New("height out of range")
)

// Kind groups validation failures.
type Kind string

const (
	KindSchema        Kind = "schema"
	KindType          Kind = "type"
	KindPhysiological Kind = "physiological"
)

// ValidationError describes why a packet was rejected.
type ValidationError struct {
	Code   Code
	Field  string
	Kind   Kind
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s packet rejected (%s): %s", e.Code, e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }
