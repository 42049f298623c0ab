package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/calculator"
	"github.com/evelane/tabsplit/internal/ingest"
	"github.com/evelane/tabsplit/internal/metrics"
	"github.com/evelane/tabsplit/internal/middleware"
	"github.com/evelane/tabsplit/internal/storage"
)

// ReceiptService manages stored receipts.
type ReceiptService struct {
	store storage.Store
}

// NewReceiptService creates a new ReceiptService with the given storage backend.
func NewReceiptService(store storage.Store) *ReceiptService {
	return &ReceiptService{store: store}
}

// Create stores a receipt supplied directly by the client.
func (s *ReceiptService) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var payload receiptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "merchant and totals are required")
		return
	}

	receipt, err := toReceipt(&payload)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := calculator.ValidateReceipt(receipt); err != nil {
		respondError(c, err)
		return
	}

	if err := s.store.CreateReceipt(c.Request.Context(), userID, receipt); err != nil {
		slog.Error("CreateReceipt failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	metrics.ReceiptsCreated.Inc()

	slog.Info("Receipt created", "user_id", userID, "receipt_id", receipt.ID, "items", len(receipt.Items))
	c.JSON(http.StatusCreated, fromReceipt(receipt))
}

// Import stores a receipt from an extraction service document.
func (s *ReceiptService) Import(c *gin.Context) {
	userID := middleware.GetUserID(c)

	receipt, err := ingest.Decode(c.Request.Body)
	if err != nil {
		var validationErr *calculator.ValidationError
		if errors.As(err, &validationErr) {
			respondError(c, err)
			return
		}
		respondBadRequest(c, err.Error())
		return
	}

	if err := s.store.CreateReceipt(c.Request.Context(), userID, receipt); err != nil {
		slog.Error("ImportReceipt failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	metrics.ReceiptsCreated.Inc()

	slog.Info("Receipt imported",
		"user_id", userID,
		"receipt_id", receipt.ID,
		"merchant", receipt.Merchant,
		"items", len(receipt.Items),
	)
	c.JSON(http.StatusCreated, fromReceipt(receipt))
}

// List returns receipt summaries, newest first.
func (s *ReceiptService) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	receipts, err := s.store.ListReceipts(c.Request.Context(), userID)
	if err != nil {
		slog.Error("ListReceipts failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}

	summaries := make([]receiptResponse, 0, len(receipts))
	for i := range receipts {
		summaries = append(summaries, fromReceipt(&receipts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"receipts": summaries})
}

// Get returns a receipt with its items and any stored split.
func (s *ReceiptService) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	receiptID := c.Param("id")

	receipt, err := s.store.GetReceipt(c.Request.Context(), userID, receiptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fromReceipt(receipt))
}

// Update replaces a receipt's contents. Any stored split is cleared,
// since it described the previous contents.
func (s *ReceiptService) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	receiptID := c.Param("id")

	var payload receiptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "merchant and totals are required")
		return
	}

	receipt, err := toReceipt(&payload)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := calculator.ValidateReceipt(receipt); err != nil {
		respondError(c, err)
		return
	}
	receipt.ID = receiptID

	if err := s.store.UpdateReceipt(c.Request.Context(), userID, receipt); err != nil {
		slog.Error("UpdateReceipt failed", "user_id", userID, "receipt_id", receiptID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Receipt updated", "user_id", userID, "receipt_id", receiptID)
	c.JSON(http.StatusOK, fromReceipt(receipt))
}

// Delete removes a receipt.
func (s *ReceiptService) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	receiptID := c.Param("id")

	if err := s.store.DeleteReceipt(c.Request.Context(), userID, receiptID); err != nil {
		slog.Error("DeleteReceipt failed", "user_id", userID, "receipt_id", receiptID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Receipt deleted", "user_id", userID, "receipt_id", receiptID)
	c.Status(http.StatusNoContent)
}
