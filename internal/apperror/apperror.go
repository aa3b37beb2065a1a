package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a failure for callers and for the presentation layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInsufficientStock
	KindExceedsStock
	KindEmptyCart
	KindForbidden
	KindInvalidState
	KindTransactionFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindExceedsStock:
		return "exceeds_stock"
	case KindEmptyCart:
		return "empty_cart"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindTransactionFailure:
		return "transaction_failure"
	}
	return "unknown"
}

// Error is the error type returned by every core operation.
type Error struct {
	Kind     Kind
	Message  string
	Fields   map[string]string // field-level detail for validation failures
	Products []string          // offending products for stock failures
	Err      error             // underlying cause, never shown to users
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so that errors.Is(err, ErrNotFound) holds for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock, Message: "insufficient stock"}
	ErrExceedsStock       = &Error{Kind: KindExceedsStock, Message: "quantity exceeds available stock"}
	ErrEmptyCart          = &Error{Kind: KindEmptyCart, Message: "cart is empty"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInvalidState       = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrTransactionFailure = &Error{Kind: KindTransactionFailure, Message: "operation failed, please retry"}
)

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InsufficientStock names every product that cannot cover the requested quantity.
func InsufficientStock(products ...string) *Error {
	return &Error{
		Kind:     KindInsufficientStock,
		Message:  "insufficient stock for: " + strings.Join(products, ", "),
		Products: products,
	}
}

func ExceedsStock(product string, available int) *Error {
	return &Error{
		Kind:     KindExceedsStock,
		Message:  fmt.Sprintf("quantity for %s exceeds available stock (%d)", product, available),
		Products: []string{product},
	}
}

func EmptyCart() *Error {
	return &Error{Kind: KindEmptyCart, Message: ErrEmptyCart.Message}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

// Transaction wraps a store failure. The message stays generic; err is kept for logs.
func Transaction(err error) *Error {
	return &Error{Kind: KindTransactionFailure, Message: ErrTransactionFailure.Message, Err: err}
}

// FromValidation converts validator errors into a validation error with per-field messages.
func FromValidation(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("invalid input", nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return Validation("validation failed", fields)
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Wrap passes *Error values through and turns anything else into a transaction failure.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Transaction(err)
}
