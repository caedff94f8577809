package reconcile

import (
	"errors"
	"fmt"

	"github.com/yourusername/solarlink-recon/ledger"
)

var (
	// ErrNotFound is returned when a referenced payment, invoice, bundle or transaction does not exist.
	ErrNotFound = ledger.ErrNotFound

	// ErrConflict is returned when a concurrent writer settled the target or consumed the
	// transaction between the read and the guarded write.
	ErrConflict = ledger.ErrConflict

	// ErrInvalidTransition is returned when a payment is not in a state the requested event applies to.
	ErrInvalidTransition = errors.New("payment status does not allow this transition")

	// ErrAlreadyMatched is returned when a manual payment references a consumed bank transaction.
	ErrAlreadyMatched = errors.New("bank transaction is already matched")
)

// ValidationError reports a request rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
