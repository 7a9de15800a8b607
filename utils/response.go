package utils

import (
	"encoding/json"
	"net/http"

	"wastewise/apperr"

	"go.uber.org/zap"
)

type M map[string]any

// RespondWithJSON sends a JSON response.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"status": "error", "message": msg})
}

// RespondWithAppError translates err into a status code and client message.
// Server-side failures are logged with their cause.
func RespondWithAppError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	code, msg := apperr.Status(err)
	if code >= http.StatusInternalServerError && log != nil {
		log.Errorw("request failed", "err", err)
	}
	RespondWithError(w, code, msg)
}

// DecodeJSON reads a JSON body of at most 1MB into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
