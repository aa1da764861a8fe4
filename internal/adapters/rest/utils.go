package rest

import (
	"encoding/json"
	"errors"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WriteJSONError writes {"error": message}.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RespondWithJSON writes payload as JSON.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// StatusForError maps use case errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCursor),
		errors.Is(err, domain.ErrInvalidSortKey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrLandmarkNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOwnAction),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrNoImages),
		errors.Is(err, domain.ErrTooManyImages),
		errors.Is(err, domain.ErrImageTooLarge),
		errors.Is(err, domain.ErrUnsupportedImage),
		errors.Is(err, domain.ErrCategoryEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrUploadFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeUseCaseError logs and writes a use case failure. Internal details stay in the log.
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	status := StatusForError(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("Use case failed with an unexpected error", err, nil)
		WriteJSONError(w, status, "Internal server error")
	case http.StatusServiceUnavailable:
		logger.Error("Use case failed, dependency unavailable", err, nil)
		if errors.Is(err, domain.ErrUploadFailed) {
			WriteJSONError(w, status, domain.ErrUploadFailed.Error())
			return
		}
		WriteJSONError(w, status, "Service temporarily unavailable")
	default:
		logger.Warn("Request rejected", port.Fields{"status_code": status, "error": err.Error()})
		WriteJSONError(w, status, err.Error())
	}
}

// landmarkIDParam parses the {landmarkID} route parameter.
func landmarkIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "landmarkID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid landmark ID format")
		return uuid.Nil, false
	}
	return id, true
}

// queryParams parses the raw query strictly. Malformed percent-encoding is a 400
// instead of a silently dropped parameter.
func queryParams(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Malformed query string")
		return nil, false
	}
	return query, true
}
