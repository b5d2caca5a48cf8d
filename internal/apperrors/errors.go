// Package apperrors defines the sentinel errors for business-rule failures.
// Services return these; handlers translate them into HTTP statuses without
// ever leaking store internals to the client.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a referenced sale, payment, or customer does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrInvalidAmount indicates a ledger operation that would drive the
// customer's debt balance negative, or a payment exceeding the owed amount.
var ErrInvalidAmount = errors.New("amount exceeds current debt")

// ErrImmutableRecord indicates an attempted edit/delete of a debt line that
// originated from an invoiced sale with line items.
var ErrImmutableRecord = errors.New("debt line originates from an invoice and cannot be modified")

// ErrInvalidOperation indicates an operation applied to the wrong kind of
// record (e.g. editing a cash sale through the debt-line endpoints).
var ErrInvalidOperation = errors.New("only debt sales can be modified")

// ErrEmptyUpdate indicates an update request that supplies no mutable fields.
var ErrEmptyUpdate = errors.New("no fields to update")

// ErrInsufficientStock indicates that no single batch can satisfy a
// requested checkout quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrSaleLocked indicates an attempt to lock an already locked invoice.
var ErrSaleLocked = errors.New("invoice already locked")

// ErrAlreadyRefunded indicates a refund attempted on an already refunded invoice.
var ErrAlreadyRefunded = errors.New("invoice already refunded")

// ErrValidation tags request-level rejections whose message is safe to
// show the caller. Match with errors.Is; construct with Validationf.
var ErrValidation = errors.New("invalid request")

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds an ErrValidation-tagged error carrying a
// caller-facing message.
func Validationf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}
