// Package money provides exact integer-cent arithmetic for bill splitting.
//
// All monetary amounts are carried as Cents (int64). Division never loses or
// invents cents: Split and Distribute both guarantee their results sum back
// to the input total exactly.
package money

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor units (e.g. 1234 = $12.34).
type Cents int64

// grouped matches amounts whose integer part carries digit-grouping
// commas, e.g. "1,019.99". Groups after the first must be exactly three
// digits, so a stray comma never silently changes the amount.
var grouped = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Parse converts a decimal string such as "12.34" into Cents. Commas
// grouping the integer part ("1,019.99") are accepted. Amounts with more
// than two fractional digits are rejected rather than rounded; upstream
// data that claims sub-cent precision is malformed.
func Parse(s string) (Cents, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	return FromDecimal(d)
}

// ParseDecimal converts a decimal string into a decimal value, accepting
// the same digit-grouped forms as Parse but keeping full precision.
func ParseDecimal(s string) (decimal.Decimal, error) {
	plain := s
	if strings.Contains(plain, ",") {
		if !grouped.MatchString(plain) {
			return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
		}
		plain = strings.ReplaceAll(plain, ",", "")
	}
	d, err := decimal.NewFromString(plain)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FromDecimal converts a decimal amount into Cents.
// Returns an error if the amount has sub-cent precision.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return Cents(shifted.IntPart()), nil
}

// Decimal returns the amount as a decimal value in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount in major units with two fractional digits,
// e.g. Cents(1234).String() == "12.34".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Split divides total into n shares that differ by at most one cent and sum
// to total exactly. Each share starts at total/n (truncated); the remainder
// is handed out one cent at a time to the earliest shares, so callers control
// who absorbs rounding by the order they list participants.
// total must be non-negative and n positive.
func Split(total Cents, n int) ([]Cents, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split among %d shares", n)
	}
	if total < 0 {
		return nil, fmt.Errorf("cannot split negative amount %d", total)
	}

	base := total / Cents(n)
	remainder := int(total % Cents(n))

	shares := make([]Cents, n)
	for i := range shares {
		shares[i] = base
		if i < remainder {
			shares[i]++
		}
	}
	return shares, nil
}

// Distribute apportions total across weights proportionally: each share
// starts at its exact floor floor(total*w/weightSum), then the leftover
// cents are awarded one each to the largest weights first, ties going to
// the lower index. Larger stakes absorb the rounding, and two calls with
// identical inputs always produce identical output. The result sums to
// total exactly, and no share exceeds its floor by more than one cent.
//
// Weights may individually be zero but must not be negative. A weight sum
// of zero yields all-zero shares when total is zero and is an error
// otherwise; callers with no usable weights and cents to hand out should
// fall back to Split.
func Distribute(total Cents, weights []int64) ([]Cents, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("cannot distribute among zero weights")
	}
	if total < 0 {
		return nil, fmt.Errorf("cannot distribute negative amount %d", total)
	}

	var weightSum int64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %d at index %d", w, i)
		}
		weightSum += w
	}
	if weightSum == 0 {
		if total == 0 {
			return make([]Cents, len(weights)), nil
		}
		return nil, fmt.Errorf("cannot distribute %d across weights summing to zero", total)
	}

	shares := make([]Cents, len(weights))
	var allocated Cents
	for i, w := range weights {
		shares[i] = Cents(int64(total) * w / weightSum)
		allocated += shares[i]
	}

	// Award the shortfall one cent per share, largest weight first.
	leftover := int(total - allocated)
	if leftover > 0 {
		order := make([]int, len(weights))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			ia, ib := order[a], order[b]
			if weights[ia] != weights[ib] {
				return weights[ia] > weights[ib]
			}
			return ia < ib
		})
		for i := 0; i < leftover; i++ {
			shares[order[i]]++
		}
	}
	return shares, nil
}

// Sum adds up a slice of amounts.
func Sum(amounts []Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
