package server

import (
	"encoding/json"
	"net/http"
)

// Fixed detail messages for non-field errors.
const (
	DetailNotFound      = "Not found."
	DetailInvalidPage   = "Invalid page."
	DetailMalformedBody = "Malformed request body."
	DetailBadLogin      = "Invalid credentials."
	DetailInternalError = "Internal server error."
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondDetail writes a {"detail": ...} error body.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
