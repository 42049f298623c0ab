package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/calculator"
	"github.com/evelane/tabsplit/internal/metrics"
	"github.com/evelane/tabsplit/internal/middleware"
	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/storage"
)

// SplitService computes and persists receipt settlements.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// Compute calculates a settlement for a stored receipt and persists it,
// replacing any previous one.
func (s *SplitService) Compute(c *gin.Context) {
	userID := middleware.GetUserID(c)
	receiptID := c.Param("id")

	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "strategy is required")
		return
	}

	if req.GroupID != "" && len(req.Participants) > 0 {
		respondBadRequest(c, "provide either participants or groupId, not both")
		return
	}

	receipt, err := s.store.GetReceipt(c.Request.Context(), userID, receiptID)
	if err != nil {
		respondError(c, err)
		return
	}

	roster, err := s.resolveRoster(c, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	spec, err := toSplitSpec(req.Strategy, req.Assignments, req.Shares)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	settlement, err := calculator.Compute(receipt, roster, spec)
	if err != nil {
		slog.Warn("Split computation rejected", "user_id", userID, "receipt_id", receiptID, "error", err)
		respondError(c, err)
		return
	}

	if err := s.store.SaveSplit(c.Request.Context(), userID, receiptID, settlement); err != nil {
		slog.Error("SaveSplit failed", "user_id", userID, "receipt_id", receiptID, "error", err)
		respondError(c, err)
		return
	}
	metrics.SplitsComputed.WithLabelValues(string(settlement.Strategy)).Inc()

	slog.Info("Split computed",
		"user_id", userID,
		"receipt_id", receiptID,
		"strategy", settlement.Strategy,
		"participants", len(settlement.FriendShares),
	)
	c.JSON(http.StatusOK, fromSettlement(settlement))
}

// Get returns the stored settlement for a receipt.
func (s *SplitService) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	receiptID := c.Param("id")

	receipt, err := s.store.GetReceipt(c.Request.Context(), userID, receiptID)
	if err != nil {
		respondError(c, err)
		return
	}
	if receipt.Split == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "NotFound",
			"error": "no split computed for this receipt",
		})
		return
	}

	c.JSON(http.StatusOK, fromSettlement(receipt.Split))
}

// Clear removes the stored settlement from a receipt.
func (s *SplitService) Clear(c *gin.Context) {
	userID := middleware.GetUserID(c)
	receiptID := c.Param("id")

	if err := s.store.ClearSplit(c.Request.Context(), userID, receiptID); err != nil {
		slog.Error("ClearSplit failed", "user_id", userID, "receipt_id", receiptID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Split cleared", "user_id", userID, "receipt_id", receiptID)
	c.Status(http.StatusNoContent)
}

// Preview computes a settlement for a receipt supplied inline, without
// touching storage. Participants are used as given; they do not need to
// be saved friends.
func (s *SplitService) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "receipt and strategy are required")
		return
	}

	receipt, err := toReceipt(&req.Receipt)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	roster := make([]models.Friend, 0, len(req.Participants))
	for _, id := range req.Participants {
		roster = append(roster, models.Friend{ID: id, Name: id})
	}

	spec, err := toSplitSpec(req.Strategy, req.Assignments, req.Shares)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	settlement, err := calculator.Compute(receipt, roster, spec)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fromSettlement(settlement))
}

// resolveRoster builds the split roster from the request: either an
// explicit participant list or a saved group, in that roster's order.
func (s *SplitService) resolveRoster(c *gin.Context, userID string, req *splitRequest) ([]models.Friend, error) {
	memberIDs := req.Participants
	if req.GroupID != "" {
		group, err := s.store.GetGroup(c.Request.Context(), userID, req.GroupID)
		if err != nil {
			return nil, err
		}
		memberIDs = group.MemberIDs
	}

	friends, err := s.store.GetFriendsByIDs(c.Request.Context(), userID, memberIDs)
	if err != nil {
		return nil, err
	}

	roster := make([]models.Friend, 0, len(memberIDs))
	for _, id := range memberIDs {
		friend, ok := friends[id]
		if !ok {
			return nil, &calculator.ValidationError{
				Kind:    calculator.KindUnknownParticipant,
				Message: fmt.Sprintf("participant %s is not in your friends", id),
			}
		}
		roster = append(roster, friend)
	}
	return roster, nil
}
