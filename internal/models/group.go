package models

// Group represents a reusable roster: a named set of friends that split
// receipts together often (e.g., "Roommates", "Work Lunch"). Splitting with
// a group is shorthand for listing its members as the participants.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// MemberIDs are the friend IDs in this group, in roster order. Order
	// matters: equal splits hand leftover cents to the earliest members.
	MemberIDs []string `json:"memberIds"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}
