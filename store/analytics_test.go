package store

import (
	"testing"
	"time"

	"github.com/litcircle/litcircle/model"
)

func TestAnalyticsOverview(t *testing.T) {
	s := newTestStore(t, "analytics_overview")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	if _, err := s.JoinClub(member.ID, club.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := s.CreateReview(member.ID, &model.ReviewCreateRequest{BookID: book.ID, Rating: 4}); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if _, err := s.CreateReadingSession(club.ID, &model.SessionCreateRequest{
		BookID:    book.ID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}); err != nil {
		t.Fatalf("Session failed: %v", err)
	}

	now := time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC)
	overview, err := s.GetAnalyticsOverview(now)
	if err != nil {
		t.Fatalf("Failed to get overview: %v", err)
	}

	if overview.TotalUsers != 2 {
		t.Errorf("Expected 2 users, got %d", overview.TotalUsers)
	}
	if overview.TotalBooks != 1 {
		t.Errorf("Expected 1 book, got %d", overview.TotalBooks)
	}
	if overview.TotalClubs != 1 {
		t.Errorf("Expected 1 club, got %d", overview.TotalClubs)
	}
	if overview.TotalReviews != 1 {
		t.Errorf("Expected 1 review, got %d", overview.TotalReviews)
	}
	if overview.ActiveSessions != 1 {
		t.Errorf("Expected 1 active session, got %d", overview.ActiveSessions)
	}
}

func TestTopBooksAndClubs(t *testing.T) {
	s := newTestStore(t, "analytics_top")
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")
	popular := createTestBook(t, s, "Dune", 412)
	quiet := createTestBook(t, s, "Emma", 474)
	club := createTestClub(t, s, alice.ID, "Readers", 10, false)

	for _, user := range []*model.User{alice, bob} {
		if _, err := s.CreateReview(user.ID, &model.ReviewCreateRequest{BookID: popular.ID, Rating: 5}); err != nil {
			t.Fatalf("Review failed: %v", err)
		}
	}
	if _, err := s.CreateReview(alice.ID, &model.ReviewCreateRequest{BookID: quiet.ID, Rating: 3}); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if _, err := s.CreateDiscussion(club.ID, alice.ID, &model.DiscussionCreateRequest{Title: "Hello"}); err != nil {
		t.Fatalf("Discussion failed: %v", err)
	}

	topBooks, err := s.ListTopBooks(10)
	if err != nil {
		t.Fatalf("Failed to list top books: %v", err)
	}
	if len(topBooks) != 2 {
		t.Fatalf("Expected 2 top books, got %d", len(topBooks))
	}
	if topBooks[0].Book.ID != popular.ID || topBooks[0].ReviewCount != 2 {
		t.Errorf("Expected Dune first with 2 reviews, got %v", topBooks[0])
	}

	topClubs, err := s.ListTopClubs(10)
	if err != nil {
		t.Fatalf("Failed to list top clubs: %v", err)
	}
	if len(topClubs) != 1 || topClubs[0].DiscussionCount != 1 {
		t.Errorf("Unexpected top clubs: %v", topClubs)
	}
}
