package calculator

import (
	"fmt"

	"github.com/evelane/tabsplit/internal/money"
)

// ErrorKind classifies why split input was rejected.
// Kinds are stable strings: the HTTP layer returns them as machine-readable
// error codes and clients branch on them.
type ErrorKind string

const (
	// KindEmptyRoster - no participants were supplied.
	KindEmptyRoster ErrorKind = "EmptyRoster"

	// KindUnknownStrategy - the strategy tag is not one of the known set.
	KindUnknownStrategy ErrorKind = "UnknownStrategy"

	// KindUnassignedItem - itemized split with a line item nobody was
	// assigned to.
	KindUnassignedItem ErrorKind = "UnassignedItem"

	// KindUnknownItem - an assignment references an item not on the receipt.
	KindUnknownItem ErrorKind = "UnknownItem"

	// KindDuplicateAssignment - more than one assignment for the same item.
	KindDuplicateAssignment ErrorKind = "DuplicateAssignment"

	// KindOverAssignedQuantity - assigned quantities for an item exceed the
	// quantity on the receipt.
	KindOverAssignedQuantity ErrorKind = "OverAssignedQuantity"

	// KindUnknownParticipant - an assignment or share references a
	// participant who is not part of the split.
	KindUnknownParticipant ErrorKind = "UnknownParticipant"

	// KindDuplicateParticipant - the roster, an assignment, or the custom
	// shares list the same participant twice.
	KindDuplicateParticipant ErrorKind = "DuplicateParticipant"

	// KindCustomShareMismatch - custom shares do not cover the receipt
	// total (or 100%) exactly.
	KindCustomShareMismatch ErrorKind = "CustomShareMismatch"

	// KindInvalidShare - a custom share is malformed: neither or both of
	// amount and percent set, mixed modes across shares, or a negative or
	// out-of-range value.
	KindInvalidShare ErrorKind = "InvalidShare"

	// KindInvalidAmount - a receipt amount or quantity is out of range
	// (negative money, zero quantity, discounts exceeding the item price).
	KindInvalidAmount ErrorKind = "InvalidAmount"

	// KindInconsistentTotals - the receipt's own arithmetic does not hold
	// (totals identity, item price math, or items not summing to the
	// subtotal). Malformed upstream data is rejected, never corrected.
	KindInconsistentTotals ErrorKind = "InconsistentTotals"
)

// ValidationError reports malformed split input. It is always detected
// before any allocation work happens, so a caller never observes a partial
// result alongside one. Not retryable: the input itself must change.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalidf(kind ErrorKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ReconciliationError reports that a computed settlement failed its own
// conservation check. This is a defect in the allocation logic, never a
// problem with the caller's input; it is reported as an internal failure.
type ReconciliationError struct {
	Category string // "total", "tax", or "tip"
	Want     money.Cents
	Got      money.Cents
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("settlement does not reconcile: %s shares sum to %d, want %d", e.Category, e.Got, e.Want)
}
