package utils

import (
	"net/http"
	"slices"

	"wastewise/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRolesFromRequest(r *http.Request) []string {
	roles, _ := r.Context().Value(globals.RoleKey).([]string)
	return roles
}

func IsAdmin(r *http.Request) bool {
	return slices.Contains(GetRolesFromRequest(r), globals.RoleAdmin)
}
