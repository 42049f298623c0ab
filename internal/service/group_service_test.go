package service

import (
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/evelane/tabsplit/internal/models"
)

type groupsResponse struct {
	Groups []models.Group `json:"groups"`
}

func TestCreateGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	aliceID := ts.addFriend(t, "Alice")
	bobID := ts.addFriend(t, "Bob")
	carolID := ts.addFriend(t, "Carol")

	var group models.Group
	status := ts.doJSON(t, http.MethodPost, "/api/v1/groups", map[string]any{
		"name":      "Roommates",
		"memberIds": []string{carolID, aliceID, bobID},
	}, &group)

	if status != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	if group.ID == "" {
		t.Error("Expected a group ID")
	}
	if group.Name != "Roommates" {
		t.Errorf("Name = %q, want Roommates", group.Name)
	}
	if !reflect.DeepEqual(group.MemberIDs, []string{carolID, aliceID, bobID}) {
		t.Errorf("MemberIDs lost roster order: %v", group.MemberIDs)
	}
}

func TestCreateGroup_UnknownMember(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	aliceID := ts.addFriend(t, "Alice")

	var body errorBody
	status := ts.doJSON(t, http.MethodPost, "/api/v1/groups", map[string]any{
		"name":      "Roommates",
		"memberIds": []string{aliceID, "ghost"},
	}, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "BadRequest" {
		t.Errorf("Code = %q, want BadRequest", body.Code)
	}
	if !strings.Contains(body.Error, "ghost") {
		t.Errorf("Error should name the unknown member: %q", body.Error)
	}
}

func TestCreateGroup_ForeignFriend(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	aliceID := ts.addFriend(t, "Alice")

	// Another user cannot build groups from friends they do not own.
	ts.token = ts.registerUser(t, "other@example.com")
	var body errorBody
	status := ts.doJSON(t, http.MethodPost, "/api/v1/groups", map[string]any{
		"name":      "Borrowed",
		"memberIds": []string{aliceID},
	}, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
}

func TestListGroups(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	aliceID := ts.addFriend(t, "Alice")
	bobID := ts.addFriend(t, "Bob")
	ts.addGroup(t, "Roommates", []string{aliceID, bobID})
	ts.addGroup(t, "Work Lunch", []string{bobID})

	var out groupsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/groups", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(out.Groups))
	}
	byName := map[string]models.Group{}
	for _, g := range out.Groups {
		byName[g.Name] = g
	}
	if len(byName["Roommates"].MemberIDs) != 2 {
		t.Errorf("Roommates members = %v", byName["Roommates"].MemberIDs)
	}
	if len(byName["Work Lunch"].MemberIDs) != 1 {
		t.Errorf("Work Lunch members = %v", byName["Work Lunch"].MemberIDs)
	}
}

func TestListGroups_Empty(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var out groupsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/groups", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Groups) != 0 {
		t.Errorf("Expected no groups, got %d", len(out.Groups))
	}
}

func TestDeleteGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	aliceID := ts.addFriend(t, "Alice")
	bobID := ts.addFriend(t, "Bob")
	groupID := ts.addGroup(t, "Roommates", []string{aliceID, bobID})

	status := ts.doJSON(t, http.MethodDelete, "/api/v1/groups/"+groupID, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", status)
	}

	var groups groupsResponse
	ts.doJSON(t, http.MethodGet, "/api/v1/groups", nil, &groups)
	if len(groups.Groups) != 0 {
		t.Errorf("Expected no groups left, got %d", len(groups.Groups))
	}

	// Deleting a group must not touch the friends themselves.
	var friends friendsResponse
	ts.doJSON(t, http.MethodGet, "/api/v1/friends", nil, &friends)
	if len(friends.Friends) != 2 {
		t.Errorf("Expected 2 friends to remain, got %d", len(friends.Friends))
	}
}

func TestDeleteGroup_NotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doJSON(t, http.MethodDelete, "/api/v1/groups/no-such-group", nil, &body)

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", status)
	}
	if body.Code != "NotFound" {
		t.Errorf("Code = %q, want NotFound", body.Code)
	}
}
