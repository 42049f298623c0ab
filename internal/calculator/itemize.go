package calculator

import (
	"fmt"

	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/money"
)

// resolveAssignments turns validated item assignments into per-participant
// item subtotals. Every roster participant gets an entry, zero included,
// and the values always sum to the receipt subtotal: each item's net value
// is fully handed out the moment it is processed.
//
// An item's value goes to its assigned participants, evenly when no
// quantities are given (leftover cents to the earliest listed), by claimed
// quantity otherwise. Units nobody claimed are common cost: their value is
// split evenly across the whole roster in roster order.
func resolveAssignments(receipt *models.Receipt, roster []models.Friend, assignments []models.Assignment) (map[string]money.Cents, error) {
	byItem := make(map[string]models.Assignment, len(assignments))
	for _, a := range assignments {
		byItem[a.ItemID] = a
	}

	subtotals := make(map[string]money.Cents, len(roster))
	for _, f := range roster {
		subtotals[f.ID] = 0
	}

	for _, item := range receipt.Items {
		a := byItem[item.ID]
		net := netValue(item)

		if len(a.Quantities) == 0 {
			if len(a.Participants) == 0 {
				// Addressed but unclaimed: the whole roster shares it.
				if err := addEvenShare(subtotals, roster, net); err != nil {
					return nil, fmt.Errorf("splitting item %q across roster: %w", item.Name, err)
				}
				continue
			}
			shares, err := money.Split(net, len(a.Participants))
			if err != nil {
				return nil, fmt.Errorf("splitting item %q: %w", item.Name, err)
			}
			for i, p := range a.Participants {
				subtotals[p] += shares[i]
			}
			continue
		}

		// Explicit quantities: each participant's claim weighs their share
		// of the item's net value. Unclaimed units ride along as one extra
		// weight so discounts spread exactly, then fall to the roster.
		var claimed int64
		weights := make([]int64, len(a.Participants), len(a.Participants)+1)
		for i, p := range a.Participants {
			weights[i] = a.Quantities[p]
			claimed += a.Quantities[p]
		}
		unclaimed := item.Quantity - claimed
		if unclaimed > 0 {
			weights = append(weights, unclaimed)
		}

		values, err := money.Distribute(net, weights)
		if err != nil {
			return nil, fmt.Errorf("distributing item %q by quantity: %w", item.Name, err)
		}
		for i, p := range a.Participants {
			subtotals[p] += values[i]
		}
		if unclaimed > 0 {
			if err := addEvenShare(subtotals, roster, values[len(values)-1]); err != nil {
				return nil, fmt.Errorf("splitting unclaimed units of %q: %w", item.Name, err)
			}
		}
	}
	return subtotals, nil
}

// addEvenShare splits amount evenly across the full roster, in roster
// order, and accumulates into subtotals.
func addEvenShare(subtotals map[string]money.Cents, roster []models.Friend, amount money.Cents) error {
	shares, err := money.Split(amount, len(roster))
	if err != nil {
		return err
	}
	for i, f := range roster {
		subtotals[f.ID] += shares[i]
	}
	return nil
}
