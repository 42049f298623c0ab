package models

import "github.com/evelane/tabsplit/internal/money"

// Receipt represents a stored purchase receipt.
// It holds the line items and totals the split engine consumes, plus the
// most recent Settlement once a split has been computed.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id"`

	// Merchant is the store or restaurant name as extracted from the receipt.
	Merchant string `json:"merchant"`

	// Currency is the ISO 4217 code the receipt was paid in (e.g., "USD").
	// Carried as an opaque label; no conversion happens anywhere.
	Currency string `json:"currency"`

	// PurchasedAt is the Unix timestamp of the transaction, 0 if unknown.
	PurchasedAt int64 `json:"purchasedAt"`

	// PaymentMethod is how the receipt was paid (e.g., "credit"), if known.
	PaymentMethod string `json:"paymentMethod,omitempty"`

	// Reference is the receipt number printed on the paper, if extraction
	// found one. Distinct from ID, which is assigned by storage.
	Reference string `json:"reference,omitempty"`

	// Items are the individual line items on the receipt.
	Items []LineItem `json:"items"`

	// Totals is the receipt-level money summary.
	// Invariant: Subtotal + Tax + Fees + Tip == Total.
	Totals Totals `json:"totals"`

	// Split is the most recently computed settlement for this receipt,
	// nil until one has been computed. Re-splitting replaces it wholesale.
	Split *Settlement `json:"split,omitempty"`

	// CreatedAt is the Unix timestamp when the receipt was stored.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updatedAt"`
}

// LineItem represents a single entry on a receipt.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the item description as printed (e.g., "Pad Thai").
	Name string `json:"name"`

	// Quantity is the number of units purchased. Always at least 1.
	Quantity int64 `json:"quantity"`

	// UnitPrice is the price of one unit, in cents.
	UnitPrice money.Cents `json:"unitPrice"`

	// TotalPrice is the line total in cents, before discounts.
	// Invariant: TotalPrice == UnitPrice * Quantity.
	TotalPrice money.Cents `json:"totalPrice"`

	// Category is an optional item category from extraction (e.g., "food").
	Category string `json:"category,omitempty"`

	// Discounts are item-level reductions (coupons, promotions).
	// They reduce the value the split engine allocates for this item.
	Discounts []Discount `json:"discounts,omitempty"`
}

// Discount is a reduction applied to a single line item.
type Discount struct {
	// Description labels the discount (e.g., "member price").
	Description string `json:"description"`

	// Amount is the reduction in cents. Always positive; it is subtracted
	// from the item's total price.
	Amount money.Cents `json:"amount"`
}

// Totals is the receipt-level money summary.
// Invariant: Subtotal + Tax + Fees + Tip == Total, all in cents.
type Totals struct {
	// Subtotal is the pre-tax sum of item values.
	Subtotal money.Cents `json:"subtotal"`

	// Tax is the total tax charged.
	Tax money.Cents `json:"tax"`

	// Fees are service or delivery fees. Treated like tax when splitting:
	// distributed proportionally to what each participant consumed.
	Fees money.Cents `json:"fees"`

	// Tip is the gratuity, 0 if absent.
	Tip money.Cents `json:"tip"`

	// Total is the final amount paid.
	Total money.Cents `json:"total"`
}

// Friend represents a person who can participate in splits.
type Friend struct {
	// ID is the unique identifier for the friend (UUID format).
	ID string `json:"id"`

	// Name is the display name (e.g., "Alice").
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the friend was added.
	CreatedAt int64 `json:"createdAt"`
}
