package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func TestCreateDiscussionDefaultsToGeneral(t *testing.T) {
	s := newTestStore(t, "discussion_default")
	creator := createTestUser(t, s, "creator")
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	discussion, err := s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{
		Title:   "Welcome",
		Content: "Say hello here.",
	})
	if err != nil {
		t.Fatalf("Failed to create discussion: %v", err)
	}
	if discussion.Type != model.DiscussionGeneral {
		t.Errorf("Expected general type, got %s", discussion.Type)
	}

	_, err = s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{
		Title: "Bad",
		Type:  model.DiscussionType("rant"),
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestPinnedDiscussionsListFirst(t *testing.T) {
	s := newTestStore(t, "discussion_pinned")
	creator := createTestUser(t, s, "creator")
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	older, err := s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{Title: "Older"})
	if err != nil {
		t.Fatalf("Failed to create discussion: %v", err)
	}
	if _, err := s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{Title: "Newer"}); err != nil {
		t.Fatalf("Failed to create discussion: %v", err)
	}

	if _, err := s.SetDiscussionPinned(older.ID, true); err != nil {
		t.Fatalf("Failed to pin discussion: %v", err)
	}

	list, err := s.ListDiscussions(&model.FindDiscussion{ClubID: &club.ID})
	if err != nil {
		t.Fatalf("Failed to list discussions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 discussions, got %d", len(list))
	}
	if list[0].ID != older.ID {
		t.Errorf("Pinned discussion should list first, got %s", list[0].Title)
	}
}

func TestDiscussionReplies(t *testing.T) {
	s := newTestStore(t, "discussion_replies")
	creator := createTestUser(t, s, "creator")
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	discussion, err := s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{Title: "Thread"})
	if err != nil {
		t.Fatalf("Failed to create discussion: %v", err)
	}

	top, err := s.CreateDiscussionReply(discussion.ID, creator.ID, &model.ReplyCreateRequest{Content: "First"})
	if err != nil {
		t.Fatalf("Failed to create reply: %v", err)
	}
	if _, err := s.CreateDiscussionReply(discussion.ID, creator.ID, &model.ReplyCreateRequest{
		Content:       "Nested",
		ParentReplyID: top.ID,
	}); err != nil {
		t.Fatalf("Failed to create nested reply: %v", err)
	}

	// A parent from another discussion is rejected.
	other, err := s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{Title: "Other"})
	if err != nil {
		t.Fatalf("Failed to create discussion: %v", err)
	}
	_, err = s.CreateDiscussionReply(other.ID, creator.ID, &model.ReplyCreateRequest{
		Content:       "Cross-thread",
		ParentReplyID: top.ID,
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}

	got, err := s.GetDiscussion(&model.FindDiscussion{ID: &discussion.ID})
	if err != nil {
		t.Fatalf("Failed to get discussion: %v", err)
	}
	if got.ReplyCount != 2 {
		t.Errorf("Expected reply count 2, got %d", got.ReplyCount)
	}

	zero := int32(0)
	topLevel, err := s.ListDiscussionReplies(&model.FindDiscussionReply{
		DiscussionID:  &discussion.ID,
		ParentReplyID: &zero,
	})
	if err != nil {
		t.Fatalf("Failed to list replies: %v", err)
	}
	if len(topLevel) != 1 || topLevel[0].ID != top.ID {
		t.Errorf("Expected one top-level reply, got %v", topLevel)
	}
}

func TestDeleteDiscussionCascades(t *testing.T) {
	s := newTestStore(t, "discussion_delete")
	creator := createTestUser(t, s, "creator")
	club := createTestClub(t, s, creator.ID, "Readers", 10, false)

	discussion, err := s.CreateDiscussion(club.ID, creator.ID, &model.DiscussionCreateRequest{Title: "Thread"})
	if err != nil {
		t.Fatalf("Failed to create discussion: %v", err)
	}
	if _, err := s.CreateDiscussionReply(discussion.ID, creator.ID, &model.ReplyCreateRequest{Content: "Reply"}); err != nil {
		t.Fatalf("Failed to create reply: %v", err)
	}

	if err := s.DeleteDiscussion(discussion.ID); err != nil {
		t.Fatalf("Failed to delete discussion: %v", err)
	}

	replies, err := s.ListDiscussionReplies(&model.FindDiscussionReply{DiscussionID: &discussion.ID})
	if err != nil {
		t.Fatalf("Failed to list replies: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("Replies survived discussion deletion: %d", len(replies))
	}
}
