package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func TestRecommendationVotes(t *testing.T) {
	s := newTestStore(t, "recommendation_votes")
	creator := createTestUser(t, s, "creator")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	rec, err := s.CreateRecommendation(club.ID, creator.ID, &model.RecommendationCreateRequest{
		BookID: book.ID,
		Reason: "A classic.",
	})
	if err != nil {
		t.Fatalf("Failed to create recommendation: %v", err)
	}
	if rec.Status != model.RecommendationPending {
		t.Errorf("Expected pending status, got %s", rec.Status)
	}

	// Votes are bare counters with no per-user bookkeeping, so the same
	// caller can vote repeatedly.
	if _, err := s.VoteRecommendation(rec.ID, "for"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if _, err := s.VoteRecommendation(rec.ID, "for"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	voted, err := s.VoteRecommendation(rec.ID, "against")
	if err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if voted.VotesFor != 2 || voted.VotesAgainst != 1 {
		t.Errorf("Expected 2/1 votes, got %d/%d", voted.VotesFor, voted.VotesAgainst)
	}
	if voted.TotalVotes() != 3 {
		t.Errorf("Expected 3 total votes, got %d", voted.TotalVotes())
	}

	_, err = s.VoteRecommendation(rec.ID, "maybe")
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestRecommendationDuplicate(t *testing.T) {
	s := newTestStore(t, "recommendation_duplicate")
	creator := createTestUser(t, s, "creator")
	member := createTestUser(t, s, "member")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)
	if _, err := s.JoinClub(member.ID, club.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if _, err := s.CreateRecommendation(club.ID, creator.ID, &model.RecommendationCreateRequest{BookID: book.ID}); err != nil {
		t.Fatalf("Failed to create recommendation: %v", err)
	}
	// The same book cannot be recommended twice in one club, whoever asks.
	_, err := s.CreateRecommendation(club.ID, member.ID, &model.RecommendationCreateRequest{BookID: book.ID})
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestRecommendationStatus(t *testing.T) {
	s := newTestStore(t, "recommendation_status")
	creator := createTestUser(t, s, "creator")
	book := createTestBook(t, s, "Dune", 412)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	rec, err := s.CreateRecommendation(club.ID, creator.ID, &model.RecommendationCreateRequest{BookID: book.ID})
	if err != nil {
		t.Fatalf("Failed to create recommendation: %v", err)
	}

	updated, err := s.SetRecommendationStatus(rec.ID, model.RecommendationSelected)
	if err != nil {
		t.Fatalf("Failed to set status: %v", err)
	}
	if updated.Status != model.RecommendationSelected {
		t.Errorf("Expected selected status, got %s", updated.Status)
	}

	_, err = s.SetRecommendationStatus(rec.ID, model.RecommendationStatus("shelved"))
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestListRecommendationsOrdersByScore(t *testing.T) {
	s := newTestStore(t, "recommendation_order")
	creator := createTestUser(t, s, "creator")
	first := createTestBook(t, s, "Dune", 412)
	second := createTestBook(t, s, "Emma", 474)
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	low, err := s.CreateRecommendation(club.ID, creator.ID, &model.RecommendationCreateRequest{BookID: first.ID})
	if err != nil {
		t.Fatalf("Failed to create recommendation: %v", err)
	}
	high, err := s.CreateRecommendation(club.ID, creator.ID, &model.RecommendationCreateRequest{BookID: second.ID})
	if err != nil {
		t.Fatalf("Failed to create recommendation: %v", err)
	}

	if _, err := s.VoteRecommendation(low.ID, "against"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if _, err := s.VoteRecommendation(high.ID, "for"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	list, err := s.ListRecommendations(&model.FindRecommendation{ClubID: &club.ID})
	if err != nil {
		t.Fatalf("Failed to list recommendations: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(list))
	}
	if list[0].ID != high.ID {
		t.Errorf("Expected the upvoted recommendation first, got %d", list[0].ID)
	}
}
