// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/evelane/tabsplit/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist or does
// not belong to the requesting user. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer. All domain entities are scoped
// to the owning user; lookups for another user's data report ErrNotFound.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateFriend adds a friend to the user's roster, assigning an ID and
	// timestamp if unset.
	CreateFriend(ctx context.Context, userID string, friend *models.Friend) error

	// ListFriends returns the user's friends, oldest first.
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)

	// GetFriendsByIDs retrieves several friends at once, keyed by ID.
	// Friends that do not exist are omitted from the result.
	GetFriendsByIDs(ctx context.Context, userID string, ids []string) (map[string]models.Friend, error)

	// DeleteFriend removes a friend from the roster.
	DeleteFriend(ctx context.Context, userID, friendID string) error

	// CreateGroup saves a reusable roster. Member order is preserved.
	CreateGroup(ctx context.Context, userID string, group *models.Group) error

	// ListGroups returns the user's groups, oldest first.
	ListGroups(ctx context.Context, userID string) ([]models.Group, error)

	// GetGroup retrieves one group with its members in roster order.
	GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error)

	// DeleteGroup removes a group. The friends themselves are untouched.
	DeleteGroup(ctx context.Context, userID, groupID string) error

	// CreateReceipt persists a receipt with its line items, assigning IDs
	// and timestamps where unset.
	CreateReceipt(ctx context.Context, userID string, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt, its items, and any stored split.
	GetReceipt(ctx context.Context, userID, receiptID string) (*models.Receipt, error)

	// ListReceipts returns the user's receipts, newest first, without
	// line items or split data (summaries for list views).
	ListReceipts(ctx context.Context, userID string) ([]models.Receipt, error)

	// UpdateReceipt replaces a receipt's fields and line items. Any stored
	// split is cleared: it described the old contents.
	UpdateReceipt(ctx context.Context, userID string, receipt *models.Receipt) error

	// DeleteReceipt removes a receipt and its line items.
	DeleteReceipt(ctx context.Context, userID, receiptID string) error

	// SaveSplit attaches a computed settlement to a receipt, replacing any
	// previous one wholesale.
	SaveSplit(ctx context.Context, userID, receiptID string, settlement *models.Settlement) error

	// ClearSplit removes a receipt's stored settlement, if any.
	ClearSplit(ctx context.Context, userID, receiptID string) error

	// Close releases any resources held by the store.
	Close() error
}
