package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/middleware"
	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/storage"
)

// GroupService manages saved rosters of friends.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

type createGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds" binding:"required"`
}

// List returns the user's groups with their members.
func (s *GroupService) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	groups, err := s.store.ListGroups(c.Request.Context(), userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// Create stores a new group. Every member must already be a friend.
func (s *GroupService) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name and memberIds are required")
		return
	}

	friends, err := s.store.GetFriendsByIDs(c.Request.Context(), userID, req.MemberIDs)
	if err != nil {
		slog.Error("CreateGroup member lookup failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	for _, id := range req.MemberIDs {
		if _, ok := friends[id]; !ok {
			respondBadRequest(c, fmt.Sprintf("member %s is not in your friends", id))
			return
		}
	}

	group := &models.Group{
		Name:      req.Name,
		MemberIDs: req.MemberIDs,
	}
	if err := s.store.CreateGroup(c.Request.Context(), userID, group); err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Group created", "user_id", userID, "group_id", group.ID, "members", len(group.MemberIDs))
	c.JSON(http.StatusCreated, group)
}

// Delete removes a group.
func (s *GroupService) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID := c.Param("id")

	if err := s.store.DeleteGroup(c.Request.Context(), userID, groupID); err != nil {
		slog.Error("DeleteGroup failed", "user_id", userID, "group_id", groupID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Group deleted", "user_id", userID, "group_id", groupID)
	c.Status(http.StatusNoContent)
}
