package request

import (
	"net/http"

	"github.com/litcircle/litcircle/model"
)

type ContextKey int

const (
	ClientIPContextKey ContextKey = iota
	UserIDContextKey
	UserNameContextKey
	UserRoleContextKey
)

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	return getContextStringValue(r, ClientIPContextKey)
}

// UserID returns the authenticated user ID, zero for anonymous requests.
func UserID(r *http.Request) int32 {
	if v := r.Context().Value(UserIDContextKey); v != nil {
		if value, valid := v.(int32); valid {
			return value
		}
	}
	return 0
}

// UserName returns the authenticated username.
func UserName(r *http.Request) string {
	return getContextStringValue(r, UserNameContextKey)
}

// UserRole returns the authenticated user's service-wide role.
func UserRole(r *http.Request) model.Role {
	if v := r.Context().Value(UserRoleContextKey); v != nil {
		if value, valid := v.(model.Role); valid {
			return value
		}
	}
	return ""
}

// IsStaff reports whether the request carries a HOST or ADMIN account.
func IsStaff(r *http.Request) bool {
	role := UserRole(r)
	return role == model.RoleHost || role == model.RoleAdmin
}
