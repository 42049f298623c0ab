package models

import "github.com/evelane/tabsplit/internal/money"

// Settlement is the output of one split computation: exactly how a
// receipt's total divides across the participating friends.
//
// A Settlement is a pure function of its inputs. It carries no timestamps,
// generated IDs, or other nondeterminism, so computing the same split twice
// yields identical values. Once built it is never mutated; editing a split
// produces a brand-new Settlement.
type Settlement struct {
	// Strategy records which division rule produced this settlement.
	Strategy SplitStrategy `json:"strategy"`

	// Assignments are the resolved item assignments, itemized strategy
	// only; empty for equal and custom splits.
	Assignments []Assignment `json:"assignments,omitempty"`

	// FriendShares maps each participant ID to the total amount they owe,
	// in cents. The values sum exactly to Totals.Total.
	FriendShares map[string]money.Cents `json:"friendShares"`

	// TaxDistribution maps each participant ID to their share of tax plus
	// fees. The values sum exactly to Totals.Tax + Totals.Fees.
	TaxDistribution map[string]money.Cents `json:"taxDistribution"`

	// TipDistribution maps each participant ID to their share of the tip.
	// The values sum exactly to Totals.Tip.
	TipDistribution map[string]money.Cents `json:"tipDistribution"`

	// Totals is a snapshot of the receipt totals this settlement divided,
	// kept so the record renders without re-reading the source receipt.
	Totals Totals `json:"totals"`
}
