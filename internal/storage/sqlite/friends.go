package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/storage"
)

// CreateFriend adds a friend to the user's roster.
func (s *SQLiteStore) CreateFriend(ctx context.Context, userID string, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friends (id, user_id, name, created_at) VALUES (?, ?, ?, ?)",
		friend.ID, userID, friend.Name, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

// ListFriends returns the user's friends, oldest first.
func (s *SQLiteStore) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM friends WHERE user_id = ? ORDER BY created_at, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

// GetFriendsByIDs retrieves multiple friends by their IDs.
// Returns a map of friend ID to Friend. IDs that don't exist (or belong to
// another user) are omitted from the result.
func (s *SQLiteStore) GetFriendsByIDs(ctx context.Context, userID string, ids []string) (map[string]models.Friend, error) {
	friends := make(map[string]models.Friend, len(ids))
	if len(ids) == 0 {
		return friends, nil
	}

	// Build the IN clause with placeholders
	query := `SELECT id, name, created_at FROM friends
		WHERE user_id = ? AND id IN (?` + repeatPlaceholder(len(ids)-1) + `)`

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}
	return friends, nil
}

// DeleteFriend removes a friend from the roster.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, userID, friendID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM friends WHERE id = ? AND user_id = ?", friendID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("friend %s: %w", friendID, storage.ErrNotFound)
	}
	return nil
}
