package models

import "github.com/evelane/tabsplit/internal/money"

// SplitStrategy selects how a receipt's total is divided.
// The set is closed: every consumer switches exhaustively over the three
// values and rejects anything else up front.
type SplitStrategy string

const (
	// StrategyEqual divides the full total evenly across the roster,
	// regardless of who ordered what.
	StrategyEqual SplitStrategy = "equal"

	// StrategyItemized attributes each line item to the participants who
	// consumed it and distributes tax, fees, and tip proportionally.
	StrategyItemized SplitStrategy = "itemized"

	// StrategyCustom takes caller-supplied target shares and validates
	// they cover the total exactly.
	StrategyCustom SplitStrategy = "custom"
)

// Valid reports whether s is one of the three known strategies.
func (s SplitStrategy) Valid() bool {
	switch s {
	case StrategyEqual, StrategyItemized, StrategyCustom:
		return true
	}
	return false
}

// Assignment maps one line item to the participants who share it.
// Used by the itemized strategy only.
type Assignment struct {
	// ItemID references a LineItem on the receipt being split.
	ItemID string `json:"itemId"`

	// Participants are the friend IDs sharing this item. Order matters:
	// when the item's value does not divide evenly, the leftover cents go
	// to the earliest listed participants.
	Participants []string `json:"participants"`

	// Quantities optionally pins how many units each participant took,
	// keyed by friend ID. When empty the item is split evenly across
	// Participants. The quantities must not sum past the item's quantity;
	// any unclaimed units are shared by the whole roster.
	Quantities map[string]int64 `json:"quantities,omitempty"`
}

// CustomShare is one participant's target share under the custom strategy.
// Exactly one of Amount or Percent must be set. Participants without an
// entry implicitly owe nothing.
type CustomShare struct {
	// ParticipantID references a friend in the roster.
	ParticipantID string `json:"participantId"`

	// Amount is the target share in cents. All amounts in a split must
	// sum to the receipt total exactly.
	Amount *money.Cents `json:"amount,omitempty"`

	// Percent is the target share in basis points (10000 = 100%). All
	// percents in a split must sum to exactly 10000; the engine converts
	// them to cents. Amount and percent entries cannot be mixed within
	// one split.
	Percent *int64 `json:"percent,omitempty"`
}

// SplitSpec carries everything a split computation needs beyond the receipt
// and roster: the chosen strategy and its strategy-specific inputs.
type SplitSpec struct {
	// Strategy selects the division rule.
	Strategy SplitStrategy `json:"strategy"`

	// Assignments are required for the itemized strategy, one per line
	// item, and ignored otherwise.
	Assignments []Assignment `json:"assignments,omitempty"`

	// Shares are required for the custom strategy and ignored otherwise.
	Shares []CustomShare `json:"shares,omitempty"`
}
