package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps a sentinel error to its HTTP status and short
// message. Anything unrecognized is a store-level failure and surfaces as a
// generic 500 without internal detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, common.ErrCodeInUse):
		writeError(w, http.StatusBadRequest, "code already in use")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "invalid code")
	case errors.Is(err, common.ErrInvalidSession):
		writeError(w, http.StatusBadRequest, "invalid session")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
