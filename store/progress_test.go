package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestProgressStartedStamp(t *testing.T) {
	s := newTestStore(t, "progress_started")
	user := createTestUser(t, s, "reader")
	book := createTestBook(t, s, "Dune", 412)

	// Page zero does not count as starting the book.
	progress, err := s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(0),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if progress.StartedTs != 0 {
		t.Errorf("Started stamp set at page zero: %d", progress.StartedTs)
	}

	progress, err = s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(50),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if progress.StartedTs == 0 {
		t.Error("Started stamp missing after moving past page zero")
	}
}

func TestProgressStampsAreNeverRewritten(t *testing.T) {
	s := newTestStore(t, "progress_stamps")
	user := createTestUser(t, s, "reader")
	book := createTestBook(t, s, "Dune", 412)

	if _, err := s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(400),
		IsFinished:  boolPtr(true),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Pin the stamps to sentinel values so a rewrite is detectable even
	// within the same second.
	if _, err := s.db.Exec(
		"UPDATE reading_progress SET started_ts = 1000, finished_ts = 2000 WHERE user_id = ? AND book_id = ?",
		user.ID, book.ID,
	); err != nil {
		t.Fatalf("Failed to pin stamps: %v", err)
	}

	progress, err := s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(412),
		IsFinished:  boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if progress.StartedTs != 1000 {
		t.Errorf("Started stamp rewritten: %d", progress.StartedTs)
	}
	if progress.FinishedTs != 2000 {
		t.Errorf("Finished stamp rewritten: %d", progress.FinishedTs)
	}
	if progress.CurrentPage != 412 {
		t.Errorf("Expected current page 412, got %d", progress.CurrentPage)
	}
}

func TestProgressFinishForcesPageCount(t *testing.T) {
	s := newTestStore(t, "progress_finish_page")
	user := createTestUser(t, s, "reader")
	book := createTestBook(t, s, "Dune", 250)

	if _, err := s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(10),
		PageCount:   book.PageCount,
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	progress, err := s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:     book.ID,
		IsFinished: boolPtr(true),
		PageCount:  book.PageCount,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if progress.CurrentPage != 250 {
		t.Errorf("Expected finishing to snap current page to 250, got %d", progress.CurrentPage)
	}
	if progress.FinishedTs == 0 {
		t.Error("Finished stamp missing")
	}

	// Finishing again keeps the original stamp and stays at the last page.
	if _, err := s.db.Exec(
		"UPDATE reading_progress SET finished_ts = 2000 WHERE user_id = ? AND book_id = ?",
		user.ID, book.ID,
	); err != nil {
		t.Fatalf("Failed to pin stamp: %v", err)
	}
	progress, err = s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:     book.ID,
		IsFinished: boolPtr(true),
		PageCount:  book.PageCount,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if progress.FinishedTs != 2000 {
		t.Errorf("Finished stamp rewritten: %d", progress.FinishedTs)
	}
	if progress.CurrentPage != 250 {
		t.Errorf("Expected current page 250, got %d", progress.CurrentPage)
	}

	// A brand-new row marked finished right away snaps too.
	other := createTestBook(t, s, "Emma", 300)
	progress, err = s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:     other.ID,
		IsFinished: boolPtr(true),
		PageCount:  other.PageCount,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if progress.CurrentPage != 300 {
		t.Errorf("Expected current page 300, got %d", progress.CurrentPage)
	}
}

func TestProgressNegativePageRejected(t *testing.T) {
	s := newTestStore(t, "progress_negative")
	user := createTestUser(t, s, "reader")
	book := createTestBook(t, s, "Dune", 412)

	_, err := s.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(-1),
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestProgressPerSessionRows(t *testing.T) {
	s := newTestStore(t, "progress_sessions")
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

	// Solo progress and session progress are tracked independently.
	if _, err := s.UpsertReadingProgress(creator.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		CurrentPage: intPtr(10),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := s.UpsertReadingProgress(creator.ID, &model.ProgressUpdateRequest{
		BookID:      book.ID,
		SessionID:   session.ID,
		CurrentPage: intPtr(99),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	list, err := s.ListReadingProgress(&model.FindReadingProgress{UserID: &creator.ID, BookID: &book.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 progress rows, got %d", len(list))
	}
}

func TestProgressPercentage(t *testing.T) {
	p := &model.ReadingProgress{CurrentPage: 103}

	if pct := p.ProgressPercentage(0); pct != nil {
		t.Errorf("Expected nil percentage for unknown page count, got %v", *pct)
	}
	if pct := p.ProgressPercentage(412); pct == nil || *pct != 25.0 {
		t.Errorf("Expected 25.0, got %v", pct)
	}

	p.CurrentPage = 500
	if pct := p.ProgressPercentage(412); pct == nil || *pct != 100 {
		t.Errorf("Expected clamp to 100, got %v", pct)
	}
}
