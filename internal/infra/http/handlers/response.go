package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

const maxBodyBytes = 10 << 20 // signature images arrive as base64 data URLs

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, usecase.CodeValidation, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "Invalid JSON")
		return false
	}
	return true
}

// writeUseCaseError maps the use case error taxonomy onto status codes.
// Technical errors carry their cause so operators can tell which store or
// transport call failed.
func writeUseCaseError(w http.ResponseWriter, log *logger.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		if de.Code == usecase.CodeNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Error("request failed", "code", te.Code, "error", err)
		writeError(w, http.StatusInternalServerError, te.Code, te.Error())
		return
	}

	log.Error("unexpected error", "error", err)
	writeError(w, http.StatusInternalServerError, "", "Internal server error")
}
