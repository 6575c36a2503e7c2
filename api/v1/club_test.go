package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/litcircle/litcircle/model"
)

func clubRequest(method, target, body string, clubID int32) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return mux.SetURLVars(r, map[string]string{"clubID": fmt.Sprint(clubID)})
}

func TestInviteRequiresModerator(t *testing.T) {
	h := newTestHandler(t, "invite_moderator")
	creator := createTestUser(t, h, "creator")
	member := createTestUser(t, h, "member")
	createTestUser(t, h, "newbie")

	club := createTestClub(t, h, creator.ID, "Readers", false)
	if _, err := h.store.JoinClub(member.ID, club.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	body := `{"email": "newbie@example.com"}`

	rec := httptest.NewRecorder()
	h.inviteToClub(rec, asUser(clubRequest(http.MethodPost, "/clubs/1/invite", body, club.ID), member))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a plain member, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.inviteToClub(rec, asUser(clubRequest(http.MethodPost, "/clubs/1/invite", body, club.ID), creator))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for the creator, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := h.store.SetMembershipRole(club.ID, member.ID, model.MembershipRoleModerator); err != nil {
		t.Fatalf("Failed to promote member: %v", err)
	}
	outsider := createTestUser(t, h, "outsider")
	rec = httptest.NewRecorder()
	h.inviteToClub(rec, asUser(clubRequest(http.MethodPost, "/clubs/1/invite",
		fmt.Sprintf(`{"email": %q}`, outsider.Email), club.ID), member))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for a moderator, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInviteResolvesInvitee(t *testing.T) {
	h := newTestHandler(t, "invite_invitee")
	creator := createTestUser(t, h, "creator")
	member := createTestUser(t, h, "member")

	club := createTestClub(t, h, creator.ID, "Readers", false)
	if _, err := h.store.JoinClub(member.ID, club.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.inviteToClub(rec, asUser(clubRequest(http.MethodPost, "/clubs/1/invite",
		`{"email": "ghost@example.com"}`, club.ID), creator))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown email, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.inviteToClub(rec, asUser(clubRequest(http.MethodPost, "/clubs/1/invite",
		fmt.Sprintf(`{"email": %q}`, member.Email), club.ID), creator))
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for an active member, got %d", rec.Code)
	}
}

func TestUpdateClubCreatorOnly(t *testing.T) {
	h := newTestHandler(t, "update_creator_only")
	creator := createTestUser(t, h, "creator")
	moderator := createTestUser(t, h, "moderator")

	club := createTestClub(t, h, creator.ID, "Readers", false)
	if _, err := h.store.JoinClub(moderator.ID, club.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := h.store.SetMembershipRole(club.ID, moderator.ID, model.MembershipRoleModerator); err != nil {
		t.Fatalf("Failed to promote member: %v", err)
	}

	body := `{"description": "changed"}`

	rec := httptest.NewRecorder()
	h.updateClub(rec, asUser(clubRequest(http.MethodPatch, "/clubs/1", body, club.ID), moderator))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a moderator, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.updateClub(rec, asUser(clubRequest(http.MethodPatch, "/clubs/1", body, club.ID), creator))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for the creator, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClubStatsPrivateForbidden(t *testing.T) {
	h := newTestHandler(t, "stats_private")
	creator := createTestUser(t, h, "creator")
	outsider := createTestUser(t, h, "outsider")

	private := createTestClub(t, h, creator.ID, "Secret", true)

	// An existing private club answers 403, a missing one 404.
	rec := httptest.NewRecorder()
	h.clubStats(rec, asUser(clubRequest(http.MethodGet, "/clubs/1/stats", "", private.ID), outsider))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for an outsider, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.clubStats(rec, asUser(clubRequest(http.MethodGet, "/clubs/9999/stats", "", 9999), outsider))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing club, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.clubStats(rec, asUser(clubRequest(http.MethodGet, "/clubs/1/stats", "", private.ID), creator))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for the creator, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMyMembershipsEnvelope(t *testing.T) {
	h := newTestHandler(t, "my_memberships")
	creator := createTestUser(t, h, "creator")
	createTestClub(t, h, creator.ID, "Readers", false)

	rec := httptest.NewRecorder()
	h.myMemberships(rec, asUser(httptest.NewRequest(http.MethodGet, "/clubs/memberships", nil), creator))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	result := &model.MyMembershipsResult{}
	if err := json.NewDecoder(rec.Body).Decode(result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("Expected count 1, got %d", result.Count)
	}
	if len(result.Memberships) != 1 {
		t.Fatalf("Expected 1 membership, got %d", len(result.Memberships))
	}
	if result.Memberships[0].Role != model.MembershipRoleAdmin {
		t.Errorf("Expected admin role for the creator, got %s", result.Memberships[0].Role)
	}
}
