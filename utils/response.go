package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/models"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

func RespondErrorMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message})
}

// RespondError maps err to a status code and writes its client-facing message.
// The full error is logged for server-side failures only.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
	}
	RespondErrorMessage(w, status, models.MessageOf(err))
}

func StatusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation, models.KindReference:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConstraint:
		return http.StatusConflict
	case models.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}
