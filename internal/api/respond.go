package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"rentfleet/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondErr maps service errors to HTTP responses. HTTPErrors keep their
// code and message; anything else becomes an opaque 500.
func respondErr(w http.ResponseWriter, err error) {
	var httpErr *errors.HTTPError
	if stderrors.As(err, &httpErr) {
		writeError(w, httpErr.Code, httpErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}
