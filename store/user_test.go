package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := newTestStore(t, "user_duplicate")
	createTestUser(t, s, "alice")

	_, err := s.CreateUser(&model.User{
		Username:     "alice",
		Role:         model.RoleUser,
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestGetUserUsesCache(t *testing.T) {
	s := newTestStore(t, "user_cache")
	user := createTestUser(t, s, "alice")

	got, err := s.GetUser(&model.FindUser{ID: &user.ID})
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Unexpected user: %s", got.Username)
	}

	if _, ok := s.UserCache.Load(user.ID); !ok {
		t.Error("User missing from cache after lookup")
	}
}

func TestUpdateUserImageResetsValidation(t *testing.T) {
	s := newTestStore(t, "user_image")
	user := createTestUser(t, s, "alice")

	if err := s.StampUserImageValidated(user.ID); err != nil {
		t.Fatalf("Failed to stamp image: %v", err)
	}

	imageURL := "https://example.com/avatar.png"
	updated, err := s.UpdateUser(&UpdateUser{ID: user.ID, ImageURL: &imageURL})
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.ImageURL != imageURL {
		t.Errorf("Image URL not updated: %s", updated.ImageURL)
	}
	if updated.ImageUpdatedTs != 0 {
		t.Errorf("Validation stamp should reset on URL change, got %d", updated.ImageUpdatedTs)
	}
}

func TestArchiveUser(t *testing.T) {
	s := newTestStore(t, "user_archive")
	user := createTestUser(t, s, "alice")

	if err := s.ArchiveUser(user.ID); err != nil {
		t.Fatalf("Failed to archive user: %v", err)
	}

	archived := model.Archived
	got, err := s.GetUser(&model.FindUser{ID: &user.ID, RowStatus: &archived})
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got == nil {
		t.Fatal("Archived user not found")
	}
}

func TestArchiveHostRejected(t *testing.T) {
	s := newTestStore(t, "user_archive_host")
	host, err := s.CreateUser(&model.User{
		Username:     "host",
		Role:         model.RoleHost,
		Email:        "host@example.com",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Failed to create host: %v", err)
	}

	err = s.ArchiveUser(host.ID)
	if !errs.Is(err, errs.KindState) {
		t.Errorf("Expected state error, got %v", err)
	}
}
