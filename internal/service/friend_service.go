package service

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/middleware"
	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/storage"
)

// FriendService manages the user's roster of split participants.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService with the given storage backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

type createFriendRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns the user's friends.
func (s *FriendService) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friends, err := s.store.ListFriends(c.Request.Context(), userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	if friends == nil {
		friends = []models.Friend{}
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// Create adds a friend to the roster.
func (s *FriendService) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req createFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	friend := &models.Friend{Name: req.Name}
	if err := s.store.CreateFriend(c.Request.Context(), userID, friend); err != nil {
		slog.Error("CreateFriend failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Friend created", "user_id", userID, "friend_id", friend.ID)
	c.JSON(http.StatusCreated, friend)
}

// Delete removes a friend from the roster.
func (s *FriendService) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID := c.Param("id")

	if err := s.store.DeleteFriend(c.Request.Context(), userID, friendID); err != nil {
		slog.Error("DeleteFriend failed", "user_id", userID, "friend_id", friendID, "error", err)
		respondError(c, err)
		return
	}

	slog.Info("Friend deleted", "user_id", userID, "friend_id", friendID)
	c.Status(http.StatusNoContent)
}
