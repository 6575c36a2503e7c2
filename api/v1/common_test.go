package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/litcircle/litcircle/config"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/store"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

// newTestHandler builds a Handler on a throwaway database. The schema is
// read from disk because the migration file lives outside this package.
func newTestHandler(t *testing.T, name string) *Handler {
	t.Helper()

	dir := os.TempDir() + "/litcircle-test"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatalf("Failed to create test dir: %v", err)
		}
	}
	filename := fmt.Sprintf("%s/api_%s.db", dir, name)
	os.Remove(filename)

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	buf, err := os.ReadFile("../../store/db/migration/LATEST_SCHEMA.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := db.Exec(string(buf)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(filename)
	})
	return &Handler{store: store.NewStore(db)}
}

func createTestUser(t *testing.T, h *Handler, username string) *model.User {
	t.Helper()
	user, err := h.store.CreateUser(&model.User{
		Username:     username,
		Role:         model.RoleUser,
		Email:        username + "@example.com",
		Nickname:     username,
		PasswordHash: "not-a-real-hash",
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createTestClub(t *testing.T, h *Handler, creatorID int32, name string, private bool) *model.Club {
	t.Helper()
	club, err := h.store.CreateClub(creatorID, &model.ClubCreateRequest{
		Name:       name,
		MaxMembers: 10,
		IsPrivate:  private,
	})
	if err != nil {
		t.Fatalf("Failed to create club %s: %v", name, err)
	}
	return club
}

// asUser attaches the authenticated identity the interceptor would have set.
func asUser(r *http.Request, user *model.User) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, request.UserIDContextKey, user.ID)
	ctx = context.WithValue(ctx, request.UserNameContextKey, user.Username)
	ctx = context.WithValue(ctx, request.UserRoleContextKey, user.Role)
	return r.WithContext(ctx)
}
