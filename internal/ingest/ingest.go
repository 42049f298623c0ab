// Package ingest decodes receipt documents produced by the extraction
// pipeline into domain models.
//
// The extraction service emits JSON with snake_case keys and dollar
// amounts; this package converts those to integer cents. It rejects
// documents it cannot represent exactly (sub-cent amounts, fractional
// quantities, unparseable timestamps) and runs the split engine's
// receipt checks, so a document the engine would refuse to split is
// refused here with the same error kinds.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evelane/tabsplit/internal/calculator"
	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/money"
)

// Money is a dollar amount in an extracted document. It decodes JSON
// numbers like decimal.Decimal and additionally accepts quoted amounts
// with digit-grouping commas, which some extraction backends emit for
// large receipts ("1,019.99").
type Money struct {
	decimal.Decimal
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := money.ParseDecimal(s)
		if err != nil {
			return err
		}
		m.Decimal = d
		return nil
	}
	return m.Decimal.UnmarshalJSON(data)
}

// Document is an extracted receipt as produced by the extraction service.
type Document struct {
	MerchantName         string `json:"merchant_name"`
	TransactionTimestamp string `json:"transaction_timestamp"`
	Currency             string `json:"currency"`
	Items                []Item `json:"items"`
	Subtotal             Money  `json:"subtotal"`
	Tax                  Money  `json:"tax"`
	Fees                 Money  `json:"fees"`
	Total                Money  `json:"total"`
	PaymentMethod        string `json:"payment_method"`
	ReceiptID            string `json:"receipt_id"`
}

// Item is a line item in an extracted receipt.
type Item struct {
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  Money           `json:"unit_price"`
	TotalPrice Money           `json:"total_price"`
	Category   string          `json:"category"`
	Discounts  []Discount      `json:"discounts"`
}

// Discount is an item-level reduction in an extracted receipt.
type Discount struct {
	Description string `json:"description"`
	Amount      Money  `json:"amount"`
}

// Timestamp layouts the extraction service is known to emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Decode reads an extracted receipt document and converts it to a Receipt.
func Decode(r io.Reader) (*models.Receipt, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode receipt document: %w", err)
	}
	return doc.ToReceipt()
}

// Parse converts a JSON-encoded extracted receipt document to a Receipt.
func Parse(data []byte) (*models.Receipt, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode receipt document: %w", err)
	}
	return doc.ToReceipt()
}

// ToReceipt converts the document to a domain Receipt. The receipt has no
// storage ID; the printed receipt number, if any, lands in Reference.
func (d *Document) ToReceipt() (*models.Receipt, error) {
	receipt := &models.Receipt{
		Merchant:      d.MerchantName,
		Currency:      d.Currency,
		PaymentMethod: d.PaymentMethod,
		Reference:     d.ReceiptID,
	}

	if d.TransactionTimestamp != "" {
		ts, err := parseTimestamp(d.TransactionTimestamp)
		if err != nil {
			return nil, err
		}
		receipt.PurchasedAt = ts
	}

	var err error
	if receipt.Totals.Subtotal, err = money.FromDecimal(d.Subtotal.Decimal); err != nil {
		return nil, fmt.Errorf("subtotal: %w", err)
	}
	if receipt.Totals.Tax, err = money.FromDecimal(d.Tax.Decimal); err != nil {
		return nil, fmt.Errorf("tax: %w", err)
	}
	if receipt.Totals.Fees, err = money.FromDecimal(d.Fees.Decimal); err != nil {
		return nil, fmt.Errorf("fees: %w", err)
	}
	if receipt.Totals.Total, err = money.FromDecimal(d.Total.Decimal); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	// Extraction never sees the tip; it is added when the split is set up.

	receipt.Items = make([]models.LineItem, 0, len(d.Items))
	for i, item := range d.Items {
		converted, err := item.toLineItem()
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, item.Name, err)
		}
		receipt.Items = append(receipt.Items, converted)
	}

	if err := calculator.ValidateReceipt(receipt); err != nil {
		return nil, err
	}

	return receipt, nil
}

func (it *Item) toLineItem() (models.LineItem, error) {
	item := models.LineItem{
		Name:     it.Name,
		Category: it.Category,
	}

	if !it.Quantity.IsInteger() {
		return item, fmt.Errorf("quantity %s is not a whole number", it.Quantity)
	}
	if it.Quantity.IsNegative() {
		return item, fmt.Errorf("quantity %s is negative", it.Quantity)
	}
	item.Quantity = it.Quantity.IntPart()
	if item.Quantity == 0 {
		// Missing quantity means a single unit
		item.Quantity = 1
	}

	var err error
	if item.UnitPrice, err = money.FromDecimal(it.UnitPrice.Decimal); err != nil {
		return item, fmt.Errorf("unit_price: %w", err)
	}
	if item.TotalPrice, err = money.FromDecimal(it.TotalPrice.Decimal); err != nil {
		return item, fmt.Errorf("total_price: %w", err)
	}

	for _, d := range it.Discounts {
		amount, err := money.FromDecimal(d.Amount.Decimal)
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

func parseTimestamp(s string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized transaction_timestamp %q", s)
}
