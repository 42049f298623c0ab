package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/storage"
)

// CreateReceipt persists a receipt with its line items.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, userID string, receipt *models.Receipt) error {
	// Generate IDs if not set
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = now
	}
	receipt.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, user_id, merchant, currency, purchased_at, payment_method, reference,
		 subtotal, tax, fees, tip, total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, userID, receipt.Merchant, receipt.Currency, receipt.PurchasedAt, receipt.PaymentMethod, receipt.Reference,
		receipt.Totals.Subtotal, receipt.Totals.Tax, receipt.Totals.Fees, receipt.Totals.Tip, receipt.Totals.Total,
		receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := insertItems(ctx, tx, receipt.ID, receipt.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID, including items and any stored split.
func (s *SQLiteStore) GetReceipt(ctx context.Context, userID, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var splitData, paymentMethod, reference sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, merchant, currency, purchased_at, payment_method, reference,
		 subtotal, tax, fees, tip, total, split_data, created_at, updated_at
		 FROM receipts WHERE id = ? AND user_id = ?`,
		receiptID, userID,
	).Scan(&receipt.ID, &receipt.Merchant, &receipt.Currency, &receipt.PurchasedAt, &paymentMethod, &reference,
		&receipt.Totals.Subtotal, &receipt.Totals.Tax, &receipt.Totals.Fees, &receipt.Totals.Tip, &receipt.Totals.Total,
		&splitData, &receipt.CreatedAt, &receipt.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	receipt.PaymentMethod = paymentMethod.String
	receipt.Reference = reference.String

	if splitData.Valid && splitData.String != "" {
		settlement := &models.Settlement{}
		if err := json.Unmarshal([]byte(splitData.String), settlement); err != nil {
			return nil, fmt.Errorf("failed to decode stored split: %w", err)
		}
		receipt.Split = settlement
	}

	items, err := s.loadItems(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	receipt.Items = items
	return receipt, nil
}

// ListReceipts returns receipt summaries for the user, newest first.
// Line items and split data are not loaded.
func (s *SQLiteStore) ListReceipts(ctx context.Context, userID string) ([]models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, merchant, currency, purchased_at, payment_method, reference,
		 subtotal, tax, fees, tip, total, created_at, updated_at
		 FROM receipts WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		var paymentMethod, reference sql.NullString
		if err := rows.Scan(&r.ID, &r.Merchant, &r.Currency, &r.PurchasedAt, &paymentMethod, &reference,
			&r.Totals.Subtotal, &r.Totals.Tax, &r.Totals.Fees, &r.Totals.Tip, &r.Totals.Total,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		r.PaymentMethod = paymentMethod.String
		r.Reference = reference.String
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	return receipts, nil
}

// UpdateReceipt replaces a receipt's fields and line items. Any stored
// split is cleared, since it described the previous contents.
func (s *SQLiteStore) UpdateReceipt(ctx context.Context, userID string, receipt *models.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	receipt.UpdatedAt = time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		`UPDATE receipts SET merchant = ?, currency = ?, purchased_at = ?, payment_method = ?, reference = ?,
		 subtotal = ?, tax = ?, fees = ?, tip = ?, total = ?, split_data = NULL, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		receipt.Merchant, receipt.Currency, receipt.PurchasedAt, receipt.PaymentMethod, receipt.Reference,
		receipt.Totals.Subtotal, receipt.Totals.Tax, receipt.Totals.Fees, receipt.Totals.Tip, receipt.Totals.Total,
		receipt.UpdatedAt, receipt.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %s: %w", receipt.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM line_items WHERE receipt_id = ?", receipt.ID); err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}
	if err := insertItems(ctx, tx, receipt.ID, receipt.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	receipt.Split = nil
	return nil
}

// DeleteReceipt removes a receipt; line items cascade.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, userID, receiptID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM receipts WHERE id = ? AND user_id = ?", receiptID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	return nil
}

// SaveSplit stores a settlement on its receipt, replacing any previous one.
func (s *SQLiteStore) SaveSplit(ctx context.Context, userID, receiptID string, settlement *models.Settlement) error {
	data, err := json.Marshal(settlement)
	if err != nil {
		return fmt.Errorf("failed to encode split: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE receipts SET split_data = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		string(data), time.Now().Unix(), receiptID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to save split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check save result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	return nil
}

// ClearSplit removes a receipt's stored settlement.
func (s *SQLiteStore) ClearSplit(ctx context.Context, userID, receiptID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE receipts SET split_data = NULL, updated_at = ? WHERE id = ? AND user_id = ?",
		time.Now().Unix(), receiptID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check clear result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	return nil
}

// insertItems writes line items and their discounts within a transaction.
// Positions preserve receipt order across reads.
func insertItems(ctx context.Context, tx *sql.Tx, receiptID string, items []models.LineItem) error {
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (id, receipt_id, name, quantity, unit_price, total_price, category, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, receiptID, item.Name, item.Quantity, item.UnitPrice, item.TotalPrice, item.Category, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}

		for j, d := range item.Discounts {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO item_discounts (item_id, position, description, amount) VALUES (?, ?, ?, ?)",
				item.ID, j, d.Description, d.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item discount: %w", err)
			}
		}
	}
	return nil
}

// loadItems reads a receipt's line items with their discounts, in receipt
// order.
func (s *SQLiteStore) loadItems(ctx context.Context, receiptID string) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, quantity, unit_price, total_price, category
		 FROM line_items WHERE receipt_id = ? ORDER BY position`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		var category sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &category); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		item.Category = category.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}

	for i := range items {
		discountRows, err := s.db.QueryContext(ctx,
			"SELECT description, amount FROM item_discounts WHERE item_id = ? ORDER BY position",
			items[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item discounts: %w", err)
		}

		for discountRows.Next() {
			var d models.Discount
			if err := discountRows.Scan(&d.Description, &d.Amount); err != nil {
				discountRows.Close()
				return nil, fmt.Errorf("failed to scan discount: %w", err)
			}
			items[i].Discounts = append(items[i].Discounts, d)
		}
		discountRows.Close()
		if err := discountRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate discounts: %w", err)
		}
	}
	return items, nil
}
