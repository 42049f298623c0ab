package calculator

import (
	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/money"
)

// validate rejects malformed input before any allocation work happens.
// Checks run roster-first, then receipt arithmetic, then strategy-specific
// rules; the first violation wins. A nil return means every downstream
// stage can run without further input checks.
func validate(receipt *models.Receipt, roster []models.Friend, spec models.SplitSpec) error {
	if len(roster) == 0 {
		return invalidf(KindEmptyRoster, "at least one participant is required")
	}
	seen := make(map[string]bool, len(roster))
	for _, f := range roster {
		if seen[f.ID] {
			return invalidf(KindDuplicateParticipant, "participant %q appears twice in the roster", f.ID)
		}
		seen[f.ID] = true
	}

	if !spec.Strategy.Valid() {
		return invalidf(KindUnknownStrategy, "unknown split strategy %q", spec.Strategy)
	}

	if err := validateReceipt(receipt); err != nil {
		return err
	}

	switch spec.Strategy {
	case models.StrategyEqual:
		return nil
	case models.StrategyItemized:
		return validateItemized(receipt, roster, spec.Assignments)
	case models.StrategyCustom:
		return validateCustom(receipt, roster, spec.Shares)
	}
	return invalidf(KindUnknownStrategy, "unknown split strategy %q", spec.Strategy)
}

// ValidateReceipt checks the arithmetic every split requires of its
// receipt: non-negative amounts, sane item quantities and discounts, and
// the totals identity. These are the same receipt-level checks Compute
// runs, so callers can reject a receipt at the door instead of storing
// one no strategy could ever split.
func ValidateReceipt(receipt *models.Receipt) error {
	return validateReceipt(receipt)
}

// validateReceipt checks the receipt's own arithmetic: non-negative
// amounts and the totals identity. Item-level price math is only enforced
// for itemized splits, where items actually drive the allocation; equal
// and custom splits tolerate receipts with incomplete item data.
func validateReceipt(receipt *models.Receipt) error {
	t := receipt.Totals
	if t.Subtotal < 0 || t.Tax < 0 || t.Fees < 0 || t.Tip < 0 || t.Total < 0 {
		return invalidf(KindInvalidAmount, "receipt totals cannot be negative")
	}
	if t.Subtotal+t.Tax+t.Fees+t.Tip != t.Total {
		return invalidf(KindInconsistentTotals,
			"subtotal %d + tax %d + fees %d + tip %d does not equal total %d",
			t.Subtotal, t.Tax, t.Fees, t.Tip, t.Total)
	}

	for _, item := range receipt.Items {
		if item.Quantity < 1 {
			return invalidf(KindInvalidAmount, "item %q has quantity %d, must be at least 1", item.Name, item.Quantity)
		}
		if item.UnitPrice < 0 || item.TotalPrice < 0 {
			return invalidf(KindInvalidAmount, "item %q has a negative price", item.Name)
		}
		var discounts money.Cents
		for _, d := range item.Discounts {
			if d.Amount < 0 {
				return invalidf(KindInvalidAmount, "item %q has a negative discount", item.Name)
			}
			discounts += d.Amount
		}
		if discounts > item.TotalPrice {
			return invalidf(KindInvalidAmount,
				"item %q discounts %d exceed its price %d", item.Name, discounts, item.TotalPrice)
		}
	}
	return nil
}

func validateItemized(receipt *models.Receipt, roster []models.Friend, assignments []models.Assignment) error {
	rosterIDs := make(map[string]bool, len(roster))
	for _, f := range roster {
		rosterIDs[f.ID] = true
	}

	items := make(map[string]models.LineItem, len(receipt.Items))
	var itemSum money.Cents
	for _, item := range receipt.Items {
		if item.TotalPrice != item.UnitPrice*money.Cents(item.Quantity) {
			return invalidf(KindInconsistentTotals,
				"item %q price %d does not equal unit price %d x quantity %d",
				item.Name, item.TotalPrice, item.UnitPrice, item.Quantity)
		}
		items[item.ID] = item
		itemSum += netValue(item)
	}
	if itemSum != receipt.Totals.Subtotal {
		return invalidf(KindInconsistentTotals,
			"items sum to %d but the receipt subtotal is %d", itemSum, receipt.Totals.Subtotal)
	}

	assigned := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		item, ok := items[a.ItemID]
		if !ok {
			return invalidf(KindUnknownItem, "assignment references item %q which is not on the receipt", a.ItemID)
		}
		if assigned[a.ItemID] {
			return invalidf(KindDuplicateAssignment, "item %q is assigned more than once", a.ItemID)
		}
		assigned[a.ItemID] = true

		listed := make(map[string]bool, len(a.Participants))
		for _, p := range a.Participants {
			if !rosterIDs[p] {
				return invalidf(KindUnknownParticipant, "item %q is assigned to %q, who is not in the roster", a.ItemID, p)
			}
			if listed[p] {
				return invalidf(KindDuplicateParticipant, "participant %q is listed twice for item %q", p, a.ItemID)
			}
			listed[p] = true
		}

		var claimed int64
		for p, q := range a.Quantities {
			if !listed[p] {
				return invalidf(KindUnknownParticipant,
					"quantity for %q on item %q, but they are not assigned to it", p, a.ItemID)
			}
			if q < 1 {
				return invalidf(KindInvalidAmount,
					"participant %q claims quantity %d of item %q, must be at least 1", p, q, a.ItemID)
			}
			claimed += q
		}
		if claimed > item.Quantity {
			return invalidf(KindOverAssignedQuantity,
				"item %q has quantity %d but %d units were assigned", a.ItemID, item.Quantity, claimed)
		}
	}

	// Every item must be addressed, even if only to hand it to the whole
	// roster via an assignment with no claimants.
	for _, item := range receipt.Items {
		if !assigned[item.ID] {
			return invalidf(KindUnassignedItem, "item %q has no assignment", item.Name)
		}
	}
	return nil
}

func validateCustom(receipt *models.Receipt, roster []models.Friend, shares []models.CustomShare) error {
	rosterIDs := make(map[string]bool, len(roster))
	for _, f := range roster {
		rosterIDs[f.ID] = true
	}

	seen := make(map[string]bool, len(shares))
	amountMode, percentMode := false, false
	var amountSum money.Cents
	var percentSum int64
	for _, s := range shares {
		if !rosterIDs[s.ParticipantID] {
			return invalidf(KindUnknownParticipant, "share references %q, who is not in the roster", s.ParticipantID)
		}
		if seen[s.ParticipantID] {
			return invalidf(KindDuplicateParticipant, "participant %q has more than one share", s.ParticipantID)
		}
		seen[s.ParticipantID] = true

		switch {
		case s.Amount != nil && s.Percent != nil:
			return invalidf(KindInvalidShare, "share for %q sets both amount and percent", s.ParticipantID)
		case s.Amount == nil && s.Percent == nil:
			return invalidf(KindInvalidShare, "share for %q sets neither amount nor percent", s.ParticipantID)
		case s.Amount != nil:
			if *s.Amount < 0 {
				return invalidf(KindInvalidShare, "share for %q is negative", s.ParticipantID)
			}
			amountMode = true
			amountSum += *s.Amount
		default:
			if *s.Percent < 0 || *s.Percent > percentWhole {
				return invalidf(KindInvalidShare,
					"share for %q is %d basis points, must be between 0 and %d", s.ParticipantID, *s.Percent, percentWhole)
			}
			percentMode = true
			percentSum += *s.Percent
		}
	}

	if amountMode && percentMode {
		return invalidf(KindInvalidShare, "cannot mix amount and percent shares in one split")
	}
	if percentMode {
		if percentSum != percentWhole {
			return invalidf(KindCustomShareMismatch,
				"shares sum to %d basis points, must sum to %d", percentSum, percentWhole)
		}
		return nil
	}
	if amountSum != receipt.Totals.Total {
		return invalidf(KindCustomShareMismatch,
			"shares sum to %d but the receipt total is %d", amountSum, receipt.Totals.Total)
	}
	return nil
}

// netValue is an item's allocatable value: its price less any discounts.
func netValue(item models.LineItem) money.Cents {
	net := item.TotalPrice
	for _, d := range item.Discounts {
		net -= d.Amount
	}
	return net
}
