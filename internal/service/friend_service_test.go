package service

import (
	"net/http"
	"testing"

	"github.com/evelane/tabsplit/internal/models"
)

type friendsResponse struct {
	Friends []models.Friend `json:"friends"`
}

func TestCreateFriend(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var friend models.Friend
	status := ts.doJSON(t, http.MethodPost, "/api/v1/friends", map[string]string{"name": "Alice"}, &friend)

	if status != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	if friend.ID == "" {
		t.Error("Expected a friend ID")
	}
	if friend.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", friend.Name)
	}
	if friend.CreatedAt == 0 {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestCreateFriend_MissingName(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doJSON(t, http.MethodPost, "/api/v1/friends", map[string]string{}, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "BadRequest" {
		t.Errorf("Code = %q, want BadRequest", body.Code)
	}
}

func TestListFriends(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	ts.addFriend(t, "Alice")
	ts.addFriend(t, "Bob")

	var out friendsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/friends", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Friends) != 2 {
		t.Fatalf("Expected 2 friends, got %d", len(out.Friends))
	}
	names := map[string]bool{}
	for _, f := range out.Friends {
		names[f.Name] = true
	}
	if !names["Alice"] || !names["Bob"] {
		t.Errorf("Unexpected friends: %+v", out.Friends)
	}
}

func TestListFriends_Empty(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var out friendsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/friends", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Friends) != 0 {
		t.Errorf("Expected no friends, got %d", len(out.Friends))
	}
}

func TestListFriends_ScopedToOwner(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	ts.addFriend(t, "Alice")

	ts.token = ts.registerUser(t, "other@example.com")
	var out friendsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/friends", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Friends) != 0 {
		t.Errorf("Expected no friends for the other user, got %d", len(out.Friends))
	}
}

func TestDeleteFriend(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	aliceID := ts.addFriend(t, "Alice")
	ts.addFriend(t, "Bob")

	status := ts.doJSON(t, http.MethodDelete, "/api/v1/friends/"+aliceID, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", status)
	}

	var out friendsResponse
	ts.doJSON(t, http.MethodGet, "/api/v1/friends", nil, &out)
	if len(out.Friends) != 1 {
		t.Fatalf("Expected 1 friend left, got %d", len(out.Friends))
	}
	if out.Friends[0].Name != "Bob" {
		t.Errorf("Remaining friend = %q, want Bob", out.Friends[0].Name)
	}
}

func TestDeleteFriend_NotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doJSON(t, http.MethodDelete, "/api/v1/friends/no-such-friend", nil, &body)

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", status)
	}
	if body.Code != "NotFound" {
		t.Errorf("Code = %q, want NotFound", body.Code)
	}
}
