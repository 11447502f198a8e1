package handlers

import (
	"net/http"

	"playground/internal/auth"
)

const (
	msgMissingHash = "Unauthorized: Missing password hash."
	msgInvalidHash = "Unauthorized: Invalid password."
)

// AuthStatus tells the client whether generation and deletion calls need a
// password hash attached.
func (a *App) AuthStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"passwordRequired": a.Gate.Enabled()})
}

// authorize runs the password gate and writes the 401 response itself when
// the check fails. It reports whether the request may proceed.
func (a *App) authorize(w http.ResponseWriter, suppliedHash string) bool {
	switch a.Gate.Authorize(suppliedHash) {
	case auth.Allowed:
		return true
	case auth.MissingHash:
		a.error(w, http.StatusUnauthorized, msgMissingHash)
	default:
		a.error(w, http.StatusUnauthorized, msgInvalidHash)
	}
	return false
}
