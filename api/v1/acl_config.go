package v1

import "strings"

var authenticationAllowlist = map[string]bool{
	"/api/v1/auth/register": true,
	"/api/v1/auth/login":    true,
	"/api/v1/clubs":         true,
	"/api/v1/clubs/discover": true,
	"/api/v1/clubs/search":   true,
	"/api/v1/books":          true,
	"/api/v1/authors":        true,
	"/api/v1/genres":         true,
}

// isUnauthenticatedAllowed returns whether the path is exempted from
// authentication. Read-only catalog and discovery paths stay open.
func isUnauthenticatedAllowed(path string) bool {
	return authenticationAllowlist[path]
}

// isOnlyForStaffAllowedPath returns true if the path is restricted to HOST
// and ADMIN accounts.
func isOnlyForStaffAllowedPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/admin/")
}
