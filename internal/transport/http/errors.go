package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"arena-quiz-service/internal/domain"
)

type errorResponse struct {
	Kind   domain.ErrorKind    `json:"kind"`
	Error  string              `json:"error"`
	Fields []domain.FieldIssue `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind domain.ErrorKind, msg string) {
	writeJSON(w, status, errorResponse{Kind: kind, Error: msg})
}

// writeServiceError maps a service error to its status and payload.
// Persistence failures are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	resp := errorResponse{Kind: kind, Error: err.Error()}

	status := http.StatusInternalServerError
	switch kind {
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
		resp.Error = domain.ErrUnauthorized.Error()
	case domain.KindValidation:
		status = http.StatusBadRequest
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			resp.Fields = verr.Issues
		}
	case domain.KindBadRequest:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
		resp.Error = domain.ErrJoinCodeTaken.Error()
	default:
		log.Printf("request failed: %v", err)
		resp.Error = "request failed"
	}
	writeJSON(w, status, resp)
}
