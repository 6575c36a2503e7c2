package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginUnknownEmail(t *testing.T) {
	h := newTestHandler(t, "login_unknown")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email": "ghost@example.com", "password": "whatever"}`))
	h.login(rec, r)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown email, got %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newTestHandler(t, "login_wrong_password")
	user := createTestUser(t, h, "reader")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email": "`+user.Email+`", "password": "wrong"}`))
	h.login(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a wrong password, got %d", rec.Code)
	}
}
