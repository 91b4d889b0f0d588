// =============================
// File: pkg/curve/errors.go
// =============================
package curve

import (
	"errors"
	"fmt"
)

// Kind classifies every failure returned by this package.
type Kind uint8

const (
	// KindInvalidInput means a caller-supplied argument or constructor
	// parameter violates a precondition. Always detected before mutation.
	KindInvalidInput Kind = iota + 1
	// KindCalculation means an intermediate or final value left the valid
	// mathematical domain or could not be represented.
	KindCalculation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindCalculation:
		return "calculation error"
	default:
		return "unknown error"
	}
}

// Reason is a stable code identifying the violated condition.
type Reason string

const (
	ReasonInvalidParameter    Reason = "invalid_parameter"
	ReasonNonPositiveAmount   Reason = "non_positive_amount"
	ReasonAmountExceedsSupply Reason = "amount_exceeds_supply"
	ReasonUnknownCurve        Reason = "unknown_curve"

	ReasonDomain           Reason = "domain"
	ReasonNonFinite        Reason = "non_finite"
	ReasonOverflow         Reason = "overflow"
	ReasonDivisionByZero   Reason = "division_by_zero"
	ReasonZeroPrice        Reason = "zero_price"
	ReasonReserveExhausted Reason = "reserve_exhausted"
)

// Error is the structured error type returned by curves and helpers.
type Error struct {
	Kind   Kind
	Reason Reason
	// Field names the parameter or argument at fault, if any.
	Field  string
	Detail string
}

var (
	// ErrInvalidInput matches any invalid-input Error with errors.Is.
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	// ErrCalculation matches any calculation Error with errors.Is.
	ErrCalculation = &Error{Kind: KindCalculation}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	} else if e.Reason != "" {
		msg += ": " + string(e.Reason)
	}
	return msg
}

// Is matches on kind, and on reason when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ReasonOf returns the Reason of err, or "" when err is not an *Error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

func invalidInput(reason Reason, field, format string, args ...any) *Error {
	return &Error{
		Kind:   KindInvalidInput,
		Reason: reason,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}

func calculationError(reason Reason, format string, args ...any) *Error {
	return &Error{
		Kind:   KindCalculation,
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}
}
