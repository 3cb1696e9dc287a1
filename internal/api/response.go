package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clubtools/gearshed/internal/engine"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logrus.WithError(err).Error("encoding response")
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// engineError maps an engine failure onto an HTTP status, exposing the
// specific reason so kiosks can present actionable feedback.
func engineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidTransition),
		errors.Is(err, engine.ErrDuplicateTag),
		errors.Is(err, engine.ErrConcurrentConflict):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrNotActive),
		errors.Is(err, engine.ErrMissingCertification),
		errors.Is(err, engine.ErrNotAvailable),
		errors.Is(err, engine.ErrOverdueHold),
		errors.Is(err, engine.ErrNotAuthorized):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("transition failed")
		jsonError(w, status, "internal error")
		return
	}
	jsonError(w, status, err.Error())
}
