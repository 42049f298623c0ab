package calculator

import (
	"fmt"
	"sort"

	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/money"
)

// percentWhole is 100% in basis points, the unit for percent shares.
const percentWhole int64 = 10000

// Compute divides a receipt's total across the roster according to spec and
// returns the resulting settlement.
//
// Compute is a pure function: it performs no I/O, never mutates its inputs,
// and identical inputs always produce identical settlements. All validation
// happens before any allocation, so on error no partial result exists. The
// returned settlement conserves every cent: friend shares sum to the total,
// tax shares to tax plus fees, tip shares to the tip.
func Compute(receipt *models.Receipt, roster []models.Friend, spec models.SplitSpec) (*models.Settlement, error) {
	if err := validate(receipt, roster, spec); err != nil {
		return nil, err
	}

	var settlement *models.Settlement
	var err error
	switch spec.Strategy {
	case models.StrategyEqual:
		settlement, err = computeEqual(receipt, roster)
	case models.StrategyItemized:
		settlement, err = computeItemized(receipt, roster, spec.Assignments)
	case models.StrategyCustom:
		settlement, err = computeCustom(receipt, roster, spec.Shares)
	default:
		return nil, invalidf(KindUnknownStrategy, "unknown split strategy %q", spec.Strategy)
	}
	if err != nil {
		return nil, err
	}

	if err := reconcile(settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// computeEqual gives every participant an equal share of the full total,
// independent of what anyone ordered. Each category (total, tax, tip) is
// split separately so its distribution conserves on its own; participants
// earlier in the roster absorb the odd cents.
func computeEqual(receipt *models.Receipt, roster []models.Friend) (*models.Settlement, error) {
	t := receipt.Totals
	n := len(roster)

	shares, err := money.Split(t.Total, n)
	if err != nil {
		return nil, fmt.Errorf("splitting total: %w", err)
	}
	taxShares, err := money.Split(t.Tax+t.Fees, n)
	if err != nil {
		return nil, fmt.Errorf("splitting tax: %w", err)
	}
	tipShares, err := money.Split(t.Tip, n)
	if err != nil {
		return nil, fmt.Errorf("splitting tip: %w", err)
	}

	friendShares := make(map[string]money.Cents, n)
	taxDist := make(map[string]money.Cents, n)
	tipDist := make(map[string]money.Cents, n)
	for i, f := range roster {
		friendShares[f.ID] = shares[i]
		taxDist[f.ID] = taxShares[i]
		tipDist[f.ID] = tipShares[i]
	}
	return buildSettlement(models.StrategyEqual, nil, friendShares, taxDist, tipDist, t), nil
}

// computeItemized charges each participant for the items they consumed,
// then lays tax, fees, and tip on top in proportion to those subtotals.
func computeItemized(receipt *models.Receipt, roster []models.Friend, assignments []models.Assignment) (*models.Settlement, error) {
	subtotals, err := resolveAssignments(receipt, roster, assignments)
	if err != nil {
		return nil, err
	}

	t := receipt.Totals
	ids := sortedIDs(roster)
	weights := make([]int64, len(ids))
	for i, id := range ids {
		weights[i] = int64(subtotals[id])
	}

	taxDist, err := shareByWeight(t.Tax+t.Fees, ids, weights)
	if err != nil {
		return nil, fmt.Errorf("distributing tax: %w", err)
	}
	tipDist, err := shareByWeight(t.Tip, ids, weights)
	if err != nil {
		return nil, fmt.Errorf("distributing tip: %w", err)
	}

	friendShares := make(map[string]money.Cents, len(ids))
	for _, id := range ids {
		friendShares[id] = subtotals[id] + taxDist[id] + tipDist[id]
	}
	return buildSettlement(models.StrategyItemized, assignments, friendShares, taxDist, tipDist, t), nil
}

// computeCustom takes the caller's target shares as final. Amount shares
// are used as given; percent shares are converted to cents proportionally.
// Tax and tip distributions are derived from the final shares so the
// settlement still shows where shared costs landed.
func computeCustom(receipt *models.Receipt, roster []models.Friend, shares []models.CustomShare) (*models.Settlement, error) {
	t := receipt.Totals

	friendShares := make(map[string]money.Cents, len(roster))
	for _, f := range roster {
		friendShares[f.ID] = 0
	}

	percentMode := len(shares) > 0 && shares[0].Percent != nil
	if percentMode {
		ids := make([]string, len(shares))
		byID := make(map[string]int64, len(shares))
		for i, s := range shares {
			ids[i] = s.ParticipantID
			byID[s.ParticipantID] = *s.Percent
		}
		sort.Strings(ids)
		weights := make([]int64, len(ids))
		for i, id := range ids {
			weights[i] = byID[id]
		}
		amounts, err := money.Distribute(t.Total, weights)
		if err != nil {
			return nil, fmt.Errorf("converting percent shares: %w", err)
		}
		for i, id := range ids {
			friendShares[id] = amounts[i]
		}
	} else {
		for _, s := range shares {
			friendShares[s.ParticipantID] = *s.Amount
		}
	}

	ids := sortedIDs(roster)
	weights := make([]int64, len(ids))
	for i, id := range ids {
		weights[i] = int64(friendShares[id])
	}
	taxDist, err := shareByWeight(t.Tax+t.Fees, ids, weights)
	if err != nil {
		return nil, fmt.Errorf("distributing tax: %w", err)
	}
	tipDist, err := shareByWeight(t.Tip, ids, weights)
	if err != nil {
		return nil, fmt.Errorf("distributing tip: %w", err)
	}
	return buildSettlement(models.StrategyCustom, nil, friendShares, taxDist, tipDist, t), nil
}

// shareByWeight distributes amount across ids proportionally to weights,
// falling back to an even split when every weight is zero (a receipt with
// shared costs but no recorded consumption). ids must already be in the
// order that should absorb rounding, lowest id first.
func shareByWeight(amount money.Cents, ids []string, weights []int64) (map[string]money.Cents, error) {
	var weightSum int64
	for _, w := range weights {
		weightSum += w
	}

	var shares []money.Cents
	var err error
	if weightSum == 0 {
		shares, err = money.Split(amount, len(ids))
	} else {
		shares, err = money.Distribute(amount, weights)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]money.Cents, len(ids))
	for i, id := range ids {
		out[id] = shares[i]
	}
	return out, nil
}

// buildSettlement assembles the final immutable record. Assignments are
// deep-copied so later edits to the caller's slices cannot reach inside a
// settlement that was already returned.
func buildSettlement(strategy models.SplitStrategy, assignments []models.Assignment,
	friendShares, taxDist, tipDist map[string]money.Cents, totals models.Totals) *models.Settlement {
	return &models.Settlement{
		Strategy:        strategy,
		Assignments:     copyAssignments(assignments),
		FriendShares:    friendShares,
		TaxDistribution: taxDist,
		TipDistribution: tipDist,
		Totals:          totals,
	}
}

// reconcile asserts the settlement conserves every category exactly. A
// failure here is a defect in the allocation logic, not bad input; it is
// surfaced as an internal error and must never be corrected silently.
func reconcile(s *models.Settlement) error {
	var total, tax, tip money.Cents
	for _, v := range s.FriendShares {
		total += v
	}
	for _, v := range s.TaxDistribution {
		tax += v
	}
	for _, v := range s.TipDistribution {
		tip += v
	}

	if total != s.Totals.Total {
		return &ReconciliationError{Category: "total", Want: s.Totals.Total, Got: total}
	}
	if want := s.Totals.Tax + s.Totals.Fees; tax != want {
		return &ReconciliationError{Category: "tax", Want: want, Got: tax}
	}
	if tip != s.Totals.Tip {
		return &ReconciliationError{Category: "tip", Want: s.Totals.Tip, Got: tip}
	}
	return nil
}

func copyAssignments(assignments []models.Assignment) []models.Assignment {
	if len(assignments) == 0 {
		return nil
	}
	out := make([]models.Assignment, len(assignments))
	for i, a := range assignments {
		c := models.Assignment{ItemID: a.ItemID}
		c.Participants = append([]string(nil), a.Participants...)
		if len(a.Quantities) > 0 {
			c.Quantities = make(map[string]int64, len(a.Quantities))
			for k, v := range a.Quantities {
				c.Quantities[k] = v
			}
		}
		out[i] = c
	}
	return out
}

func sortedIDs(roster []models.Friend) []string {
	ids := make([]string, len(roster))
	for i, f := range roster {
		ids[i] = f.ID
	}
	sort.Strings(ids)
	return ids
}
