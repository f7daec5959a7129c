package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
)

// errorBody is the JSON error envelope returned to clients.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP responses. Unclassified errors are
// logged and reported as a bare internal error so internals never leak.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := appErr.Code.HTTPStatus()
		if status == http.StatusInternalServerError {
			logger.Printf("internal error: %v", err)
		}
		if retry, ok := appErr.Metadata["retry_after_seconds"]; ok {
			w.Header().Set("Retry-After", retry)
		}
		writeJSON(w, status, errorBody{Error: errorDetail{
			Code:     string(appErr.Code),
			Message:  appErr.Message,
			Metadata: appErr.Metadata,
		}})
		return
	}

	logger.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
		Code:    string(apperrors.CodeUnknown),
		Message: "internal error",
	}})
}
