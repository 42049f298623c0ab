package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/money"
)

// Wire payloads. Money fields are decimal strings ("12.34") so clients
// never touch cents or floats; conversion happens here via money.Parse
// and Cents.String.

type totalsPayload struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Fees     string `json:"fees"`
	Tip      string `json:"tip"`
	Total    string `json:"total"`
}

type discountPayload struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type itemPayload struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Quantity   int64             `json:"quantity"`
	UnitPrice  string            `json:"unitPrice"`
	TotalPrice string            `json:"totalPrice"`
	Category   string            `json:"category,omitempty"`
	Discounts  []discountPayload `json:"discounts,omitempty"`
}

type receiptPayload struct {
	Merchant      string        `json:"merchant" binding:"required"`
	Currency      string        `json:"currency"`
	PurchasedAt   int64         `json:"purchasedAt"`
	PaymentMethod string        `json:"paymentMethod"`
	Reference     string        `json:"reference"`
	Items         []itemPayload `json:"items"`
	Totals        totalsPayload `json:"totals"`
}

type receiptResponse struct {
	ID            string             `json:"id"`
	Merchant      string             `json:"merchant"`
	Currency      string             `json:"currency"`
	PurchasedAt   int64              `json:"purchasedAt,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	Reference     string             `json:"reference,omitempty"`
	Items         []itemPayload      `json:"items"`
	Totals        totalsPayload      `json:"totals"`
	Split         *settlementPayload `json:"split,omitempty"`
	CreatedAt     int64              `json:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt"`
}

type assignmentPayload struct {
	ItemID       string           `json:"itemId"`
	Participants []string         `json:"participants"`
	Quantities   map[string]int64 `json:"quantities,omitempty"`
}

type sharePayload struct {
	ParticipantID string `json:"participantId"`
	Amount        string `json:"amount,omitempty"`
	Percent       string `json:"percent,omitempty"`
}

type splitRequest struct {
	Strategy     string              `json:"strategy" binding:"required"`
	Participants []string            `json:"participants,omitempty"`
	GroupID      string              `json:"groupId,omitempty"`
	Assignments  []assignmentPayload `json:"assignments,omitempty"`
	Shares       []sharePayload      `json:"shares,omitempty"`
}

type previewRequest struct {
	Receipt      receiptPayload      `json:"receipt" binding:"required"`
	Strategy     string              `json:"strategy" binding:"required"`
	Participants []string            `json:"participants"`
	Assignments  []assignmentPayload `json:"assignments,omitempty"`
	Shares       []sharePayload      `json:"shares,omitempty"`
}

type settlementPayload struct {
	Strategy        string              `json:"strategy"`
	Assignments     []assignmentPayload `json:"assignments,omitempty"`
	FriendShares    map[string]string   `json:"friendShares"`
	TaxDistribution map[string]string   `json:"taxDistribution"`
	TipDistribution map[string]string   `json:"tipDistribution"`
	Totals          totalsPayload       `json:"totals"`
}

// toReceipt converts a wire payload to a domain receipt. The storage ID,
// if any, is supplied by the caller, not the payload.
func toReceipt(p *receiptPayload) (*models.Receipt, error) {
	receipt := &models.Receipt{
		Merchant:      p.Merchant,
		Currency:      p.Currency,
		PurchasedAt:   p.PurchasedAt,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
	}

	var err error
	if receipt.Totals, err = toTotals(p.Totals); err != nil {
		return nil, err
	}

	receipt.Items = make([]models.LineItem, 0, len(p.Items))
	for i, item := range p.Items {
		converted, err := toLineItem(&item)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		receipt.Items = append(receipt.Items, converted)
	}
	return receipt, nil
}

func toTotals(p totalsPayload) (models.Totals, error) {
	var totals models.Totals
	var err error
	if totals.Subtotal, err = parseMoney(p.Subtotal); err != nil {
		return totals, fmt.Errorf("totals.subtotal: %w", err)
	}
	if totals.Tax, err = parseMoney(p.Tax); err != nil {
		return totals, fmt.Errorf("totals.tax: %w", err)
	}
	if totals.Fees, err = parseMoney(p.Fees); err != nil {
		return totals, fmt.Errorf("totals.fees: %w", err)
	}
	if totals.Tip, err = parseMoney(p.Tip); err != nil {
		return totals, fmt.Errorf("totals.tip: %w", err)
	}
	if totals.Total, err = parseMoney(p.Total); err != nil {
		return totals, fmt.Errorf("totals.total: %w", err)
	}
	return totals, nil
}

func toLineItem(p *itemPayload) (models.LineItem, error) {
	item := models.LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Category: p.Category,
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	var err error
	if item.UnitPrice, err = parseMoney(p.UnitPrice); err != nil {
		return item, fmt.Errorf("unitPrice: %w", err)
	}
	if item.TotalPrice, err = parseMoney(p.TotalPrice); err != nil {
		return item, fmt.Errorf("totalPrice: %w", err)
	}

	for _, d := range p.Discounts {
		amount, err := parseMoney(d.Amount)
		if err != nil {
			return item, fmt.Errorf("discount %q: %w", d.Description, err)
		}
		item.Discounts = append(item.Discounts, models.Discount{
			Description: d.Description,
			Amount:      amount,
		})
	}
	return item, nil
}

// parseMoney converts a wire money string to cents. Empty means zero.
func parseMoney(s string) (money.Cents, error) {
	if s == "" {
		return 0, nil
	}
	return money.Parse(s)
}

// parsePercent converts a wire percent string ("33.33") to basis points.
func parsePercent(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse percent %q", s)
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("percent %q has more than two decimal places", s)
	}
	return shifted.IntPart(), nil
}

// toSplitSpec converts the wire split request to an engine spec. Strategy
// and share consistency are validated by the engine, not here.
func toSplitSpec(strategy string, assignments []assignmentPayload, shares []sharePayload) (models.SplitSpec, error) {
	spec := models.SplitSpec{
		Strategy:    models.SplitStrategy(strategy),
		Assignments: toAssignments(assignments),
	}

	for _, share := range shares {
		converted := models.CustomShare{ParticipantID: share.ParticipantID}
		if share.Amount != "" {
			amount, err := money.Parse(share.Amount)
			if err != nil {
				return spec, fmt.Errorf("share for %s: %w", share.ParticipantID, err)
			}
			converted.Amount = &amount
		}
		if share.Percent != "" {
			percent, err := parsePercent(share.Percent)
			if err != nil {
				return spec, fmt.Errorf("share for %s: %w", share.ParticipantID, err)
			}
			converted.Percent = &percent
		}
		spec.Shares = append(spec.Shares, converted)
	}
	return spec, nil
}

func toAssignments(payloads []assignmentPayload) []models.Assignment {
	if len(payloads) == 0 {
		return nil
	}
	assignments := make([]models.Assignment, len(payloads))
	for i, p := range payloads {
		assignments[i] = models.Assignment{
			ItemID:       p.ItemID,
			Participants: p.Participants,
			Quantities:   p.Quantities,
		}
	}
	return assignments
}

func fromAssignments(assignments []models.Assignment) []assignmentPayload {
	if len(assignments) == 0 {
		return nil
	}
	payloads := make([]assignmentPayload, len(assignments))
	for i, a := range assignments {
		payloads[i] = assignmentPayload{
			ItemID:       a.ItemID,
			Participants: a.Participants,
			Quantities:   a.Quantities,
		}
	}
	return payloads
}

func fromReceipt(r *models.Receipt) receiptResponse {
	resp := receiptResponse{
		ID:            r.ID,
		Merchant:      r.Merchant,
		Currency:      r.Currency,
		PurchasedAt:   r.PurchasedAt,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		Items:         make([]itemPayload, 0, len(r.Items)),
		Totals:        fromTotals(r.Totals),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	for i := range r.Items {
		resp.Items = append(resp.Items, fromLineItem(&r.Items[i]))
	}
	if r.Split != nil {
		split := fromSettlement(r.Split)
		resp.Split = &split
	}
	return resp
}

func fromTotals(t models.Totals) totalsPayload {
	return totalsPayload{
		Subtotal: t.Subtotal.String(),
		Tax:      t.Tax.String(),
		Fees:     t.Fees.String(),
		Tip:      t.Tip.String(),
		Total:    t.Total.String(),
	}
}

func fromLineItem(item *models.LineItem) itemPayload {
	p := itemPayload{
		ID:         item.ID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice.String(),
		TotalPrice: item.TotalPrice.String(),
		Category:   item.Category,
	}
	for _, d := range item.Discounts {
		p.Discounts = append(p.Discounts, discountPayload{
			Description: d.Description,
			Amount:      d.Amount.String(),
		})
	}
	return p
}

func fromSettlement(s *models.Settlement) settlementPayload {
	return settlementPayload{
		Strategy:        string(s.Strategy),
		Assignments:     fromAssignments(s.Assignments),
		FriendShares:    fromShares(s.FriendShares),
		TaxDistribution: fromShares(s.TaxDistribution),
		TipDistribution: fromShares(s.TipDistribution),
		Totals:          fromTotals(s.Totals),
	}
}

func fromShares(shares map[string]money.Cents) map[string]string {
	out := make(map[string]string, len(shares))
	for id, amount := range shares {
		out[id] = amount.String()
	}
	return out
}
