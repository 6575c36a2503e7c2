package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func TestCreateReadingSessionValidation(t *testing.T) {
	s := newTestStore(t, "session_validation")
	creator := createTestUser(t, s, "creator")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	cases := []struct {
		name    string
		request *model.SessionCreateRequest
	}{
		{"bad start date", &model.SessionCreateRequest{BookID: book.ID, StartDate: "January 1st", EndDate: "2026-01-31"}},
		{"bad end date", &model.SessionCreateRequest{BookID: book.ID, StartDate: "2026-01-01", EndDate: "soon"}},
		{"end before start", &model.SessionCreateRequest{BookID: book.ID, StartDate: "2026-01-31", EndDate: "2026-01-01"}},
	}
	for _, tc := range cases {
		_, err := s.CreateReadingSession(club.ID, tc.request)
		if !errs.Is(err, errs.KindValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateReadingSessionDuplicate(t *testing.T) {
	s := newTestStore(t, "session_duplicate")
	creator := createTestUser(t, s, "creator")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	request := &model.SessionCreateRequest{
		BookID:    book.ID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}
	if _, err := s.CreateReadingSession(club.ID, request); err != nil {
		t.Fatalf("First session failed: %v", err)
	}
	_, err := s.CreateReadingSession(club.ID, request)
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestListCurrentSessions(t *testing.T) {
	s := newTestStore(t, "session_current")
	creator := createTestUser(t, s, "creator")
	book := createTestBook(t, s, "Dune", 412)
	other := createTestBook(t, s, "Emma", 474)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	january, err := s.CreateReadingSession(club.ID, &model.SessionCreateRequest{
		BookID:    book.ID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	})
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if _, err := s.CreateReadingSession(club.ID, &model.SessionCreateRequest{
		BookID:    other.ID,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	}); err != nil {
		t.Fatalf("Session failed: %v", err)
	}

	day := "2026-01-16"
	current, err := s.ListReadingSessions(&model.FindReadingSession{ClubID: &club.ID, CurrentOn: &day})
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(current) != 1 || current[0].ID != january.ID {
		t.Fatalf("Expected the January session, got %v", current)
	}

	// A cancelled session is never current, whatever the calendar says.
	cancelled := model.SessionCancelled
	if _, err := s.UpdateReadingSession(january.ID, &model.SessionUpdateRequest{Status: &cancelled}); err != nil {
		t.Fatalf("Failed to cancel session: %v", err)
	}
	current, err = s.ListReadingSessions(&model.FindReadingSession{ClubID: &club.ID, CurrentOn: &day})
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(current) != 0 {
		t.Errorf("Cancelled session still listed as current: %v", current)
	}
}

func TestUpdateReadingSessionStatus(t *testing.T) {
	s := newTestStore(t, "session_update")
	creator := createTestUser(t, s, "creator")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	session, err := s.CreateReadingSession(club.ID, &model.SessionCreateRequest{
		BookID:    book.ID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	})
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}

	bogus := model.SessionStatus("paused")
	_, err = s.UpdateReadingSession(session.ID, &model.SessionUpdateRequest{Status: &bogus})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}

	completed := model.SessionCompleted
	updated, err := s.UpdateReadingSession(session.ID, &model.SessionUpdateRequest{Status: &completed})
	if err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}
	if updated.Status != model.SessionCompleted {
		t.Errorf("Expected completed status, got %s", updated.Status)
	}
}
