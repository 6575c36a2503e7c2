package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func TestCreateClubCreatesAdminMembership(t *testing.T) {
	s := newTestStore(t, "club_create")
	creator := createTestUser(t, s, "creator")

	club := createTestClub(t, s, creator.ID, "Readers", 10, false)
	if club.MemberCount != 1 {
		t.Errorf("Expected member count 1, got %d", club.MemberCount)
	}
	if club.MaxMembers != 10 {
		t.Errorf("Expected max members 10, got %d", club.MaxMembers)
	}

	membership, err := s.GetMembership(&model.FindMembership{
		UserID:     &creator.ID,
		ClubID:     &club.ID,
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("Failed to get membership: %v", err)
	}
	if membership == nil {
		t.Fatal("Creator has no membership")
	}
	if membership.Role != model.MembershipRoleAdmin {
		t.Errorf("Expected admin role, got %s", membership.Role)
	}
}

func TestCreateClubDefaultCapacity(t *testing.T) {
	s := newTestStore(t, "club_default_capacity")
	creator := createTestUser(t, s, "creator")

	club := createTestClub(t, s, creator.ID, "Readers", 0, false)
	if club.MaxMembers != model.DefaultClubMembers {
		t.Errorf("Expected default capacity %d, got %d", model.DefaultClubMembers, club.MaxMembers)
	}
}

func TestCreateClubCapacityBounds(t *testing.T) {
	s := newTestStore(t, "club_capacity_bounds")
	creator := createTestUser(t, s, "creator")

	_, err := s.CreateClub(creator.ID, &model.ClubCreateRequest{Name: "Tiny", MaxMembers: 1})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error for capacity 1, got %v", err)
	}
	_, err = s.CreateClub(creator.ID, &model.ClubCreateRequest{Name: "Huge", MaxMembers: model.MaxClubMembers + 1})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error for oversized capacity, got %v", err)
	}
}

func TestCreateClubDuplicateName(t *testing.T) {
	s := newTestStore(t, "club_duplicate_name")
	creator := createTestUser(t, s, "creator")
	other := createTestUser(t, s, "other")

	createTestClub(t, s, creator.ID, "Readers", 10, false)

	_, err := s.CreateClub(creator.ID, &model.ClubCreateRequest{Name: "Readers"})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error for duplicate name, got %v", err)
	}

	// A different creator may reuse the name.
	if _, err := s.CreateClub(other.ID, &model.ClubCreateRequest{Name: "Readers"}); err != nil {
		t.Errorf("Another creator should be able to reuse the name: %v", err)
	}
}

func TestJoinClubCapacity(t *testing.T) {
	s := newTestStore(t, "club_capacity")
	creator := createTestUser(t, s, "creator")
	second := createTestUser(t, s, "second")
	third := createTestUser(t, s, "third")

	club := createTestClub(t, s, creator.ID, "Duo", model.MinClubMembers, false)

	if _, err := s.JoinClub(second.ID, club.ID); err != nil {
		t.Fatalf("Second member should fit: %v", err)
	}
	_, err := s.JoinClub(third.ID, club.ID)
	if !errs.Is(err, errs.KindCapacity) {
		t.Errorf("Expected capacity error, got %v", err)
	}
}

func TestJoinPrivateClub(t *testing.T) {
	s := newTestStore(t, "club_private")
	creator := createTestUser(t, s, "creator")
	outsider := createTestUser(t, s, "outsider")

	club := createTestClub(t, s, creator.ID, "Secret", 10, true)

	_, err := s.JoinClub(outsider.ID, club.ID)
	if !errs.Is(err, errs.KindForbidden) {
		t.Errorf("Expected forbidden error, got %v", err)
	}
}

func TestRejoinPrivateClubReportsConflict(t *testing.T) {
	s := newTestStore(t, "club_private_rejoin")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")

	private := createTestClub(t, s, creator.ID, "Secret", 10, true)

	// Joining a private club is gated, so seed the membership directly.
	if _, err := s.db.Exec(
		"INSERT INTO membership (user_id, club_id, role, is_active) VALUES (?, ?, 'member', 1)",
		member.ID, private.ID,
	); err != nil {
		t.Fatalf("Failed to insert membership: %v", err)
	}

	// An active member joining again is a duplicate, not a privacy breach.
	_, err := s.JoinClub(member.ID, private.ID)
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestJoinClubTwice(t *testing.T) {
	s := newTestStore(t, "club_join_twice")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")

	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	if _, err := s.JoinClub(member.ID, club.ID); err != nil {
		t.Fatalf("First join failed: %v", err)
	}
	_, err := s.JoinClub(member.ID, club.ID)
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestJoinMissingClub(t *testing.T) {
	s := newTestStore(t, "club_join_missing")
	member := createTestUser(t, s, "member")

	_, err := s.JoinClub(member.ID, 9999)
	if !errs.Is(err, errs.KindNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestLeaveAndRejoinReusesMembership(t *testing.T) {
	s := newTestStore(t, "club_rejoin")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")

	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	first, err := s.JoinClub(member.ID, club.ID)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if err := s.LeaveClub(member.ID, club.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	membership, err := s.GetMembership(&model.FindMembership{
		UserID:     &member.ID,
		ClubID:     &club.ID,
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("Failed to get membership: %v", err)
	}
	if membership != nil {
		t.Error("Membership still active after leaving")
	}

	rejoined, err := s.JoinClub(member.ID, club.ID)
	if err != nil {
		t.Fatalf("Rejoin failed: %v", err)
	}
	if rejoined.ID != first.ID {
		t.Errorf("Rejoin created a new membership row: %d != %d", rejoined.ID, first.ID)
	}
	if !rejoined.IsActive {
		t.Error("Rejoined membership is not active")
	}
}

func TestCreatorCannotLeave(t *testing.T) {
	s := newTestStore(t, "club_creator_leave")
	creator := createTestUser(t, s, "creator")

	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	err := s.LeaveClub(creator.ID, club.ID)
	if !errs.Is(err, errs.KindState) {
		t.Errorf("Expected state error, got %v", err)
	}
}

func TestLeaveWithoutMembership(t *testing.T) {
	s := newTestStore(t, "club_leave_nonmember")
	creator := createTestUser(t, s, "creator")
	outsider := createTestUser(t, s, "outsider")

	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	err := s.LeaveClub(outsider.ID, club.ID)
	if !errs.Is(err, errs.KindNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestClubVisibility(t *testing.T) {
	s := newTestStore(t, "club_visibility")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")
	outsider := createTestUser(t, s, "outsider")

	createTestClub(t, s, creator.ID, "Open", 10, false)
	private := createTestClub(t, s, creator.ID, "Secret", 10, true)

	// The store enforces the privacy rule at join time, so seed the private
	// membership directly.
	if _, err := s.db.Exec(
		"INSERT INTO membership (user_id, club_id, role) VALUES (?, ?, 'member')",
		member.ID, private.ID,
	); err != nil {
		t.Fatalf("Failed to insert membership: %v", err)
	}

	public := false
	anonymous, err := s.ListClubs(&model.FindClub{IsPrivate: &public})
	if err != nil {
		t.Fatalf("Failed to list clubs: %v", err)
	}

	visible := func(list []*model.Club, id int32) bool {
		for _, c := range list {
			if c.ID == id {
				return true
			}
		}
		return false
	}

	if visible(anonymous, private.ID) {
		t.Error("Anonymous caller can see a private club")
	}
	outsiderView, err := s.ListClubs(&model.FindClub{VisibleTo: &outsider.ID})
	if err != nil {
		t.Fatalf("Failed to list clubs: %v", err)
	}
	if visible(outsiderView, private.ID) {
		t.Error("Outsider can see a private club")
	}
	memberView, err := s.ListClubs(&model.FindClub{VisibleTo: &member.ID})
	if err != nil {
		t.Fatalf("Failed to list clubs: %v", err)
	}
	if !visible(memberView, private.ID) {
		t.Error("Member cannot see their private club")
	}
	creatorView, err := s.ListClubs(&model.FindClub{VisibleTo: &creator.ID})
	if err != nil {
		t.Fatalf("Failed to list clubs: %v", err)
	}
	if !visible(creatorView, private.ID) {
		t.Error("Creator cannot see their private club")
	}
}

func TestDiscoverClubs(t *testing.T) {
	s := newTestStore(t, "club_discover")
	creator := createTestUser(t, s, "creator")
	first := createTestUser(t, s, "first")
	second := createTestUser(t, s, "second")

	crowded := createTestClub(t, s, creator.ID, "Crowded", 10, false)
	if _, err := s.JoinClub(first.ID, crowded.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := s.JoinClub(second.ID, crowded.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	chatty := createTestClub(t, s, creator.ID, "Chatty", 10, false)
	for i := 0; i < 3; i++ {
		if _, err := s.CreateDiscussion(chatty.ID, creator.ID, &model.DiscussionCreateRequest{
			Title:   "Thoughts",
			Content: "Plenty of them.",
		}); err != nil {
			t.Fatalf("Discussion failed: %v", err)
		}
	}

	createTestClub(t, s, creator.ID, "Hidden", 10, true)

	result, err := s.DiscoverClubs()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	// Featured ranks by member count, popular by discussion count.
	if len(result.Featured) == 0 || result.Featured[0].ID != crowded.ID {
		t.Errorf("Expected club %d to lead featured, got %+v", crowded.ID, result.Featured)
	}
	if len(result.Popular) == 0 || result.Popular[0].ID != chatty.ID {
		t.Errorf("Expected club %d to lead popular, got %+v", chatty.ID, result.Popular)
	}
	if result.TotalPublicClubs != 2 {
		t.Errorf("Expected 2 public clubs, got %d", result.TotalPublicClubs)
	}
	for _, c := range result.Recent {
		if c.IsPrivate {
			t.Errorf("Private club %d leaked into discovery", c.ID)
		}
	}
}

func TestSetMembershipRole(t *testing.T) {
	s := newTestStore(t, "club_set_role")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")

	club := createTestClub(t, s, creator.ID, "Readers", 10, false)
	if _, err := s.JoinClub(member.ID, club.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	updated, err := s.SetMembershipRole(club.ID, member.ID, model.MembershipRoleModerator)
	if err != nil {
		t.Fatalf("Failed to set role: %v", err)
	}
	if updated.Role != model.MembershipRoleModerator {
		t.Errorf("Expected moderator role, got %s", updated.Role)
	}
}
