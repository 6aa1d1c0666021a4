package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, status int, message, detailedMessage string) {
	respondWithJSON(w, status, ErrorResponseDTO{
		Status:          status,
		Message:         message,
		DetailedMessage: detailedMessage,
	})
}
