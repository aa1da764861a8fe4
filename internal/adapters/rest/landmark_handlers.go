package rest

import (
	"errors"
	"io"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"landmark-service/internal/core/port/usecases_port"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultNearbyLimit = 20

type LandmarkHandler struct {
	listUC     usecases_port.ListLandmarksUseCasePort
	homeUC     usecases_port.GetHomeLandmarksUseCasePort
	getUC      usecases_port.GetLandmarkUseCasePort
	nearbyUC   usecases_port.FindNearbyLandmarksUseCasePort
	createUC   usecases_port.CreateLandmarkUseCasePort
	updateUC   usecases_port.UpdateLandmarkUseCasePort
	deleteUC   usecases_port.DeleteLandmarkUseCasePort
	userListUC usecases_port.ListUserLandmarksUseCasePort
	blobs      port.BlobStoragePort
}

type LandmarkUseCases struct {
	List      usecases_port.ListLandmarksUseCasePort
	Home      usecases_port.GetHomeLandmarksUseCasePort
	Get       usecases_port.GetLandmarkUseCasePort
	Nearby    usecases_port.FindNearbyLandmarksUseCasePort
	Create    usecases_port.CreateLandmarkUseCasePort
	Update    usecases_port.UpdateLandmarkUseCasePort
	Delete    usecases_port.DeleteLandmarkUseCasePort
	ListOwned usecases_port.ListUserLandmarksUseCasePort
}

func NewLandmarkHandler(uc LandmarkUseCases, blobs port.BlobStoragePort) *LandmarkHandler {
	return &LandmarkHandler{
		listUC:     uc.List,
		homeUC:     uc.Home,
		getUC:      uc.Get,
		nearbyUC:   uc.Nearby,
		createUC:   uc.Create,
		updateUC:   uc.Update,
		deleteUC:   uc.Delete,
		userListUC: uc.ListOwned,
		blobs:      blobs,
	}
}

// ListLandmarks handles GET /api/v1/landmarks?size=&cursor=&limit=
func (h *LandmarkHandler) ListLandmarks(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListLandmarks"})

	query, ok := queryParams(w, r)
	if !ok {
		return
	}
	var req domain.PageRequest
	if raw := query.Get("size"); raw != "" {
		size, err := domain.ParseSize(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Size = &size
	}
	if raw := query.Get("cursor"); raw != "" {
		cursor, err := domain.DecodeCursor(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, domain.ErrInvalidCursor.Error())
			return
		}
		req.Cursor = &cursor
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			WriteJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		req.Limit = limit
	}

	page, err := h.listUC.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toPageResponse(page))
}

// GetHome handles GET /api/v1/landmarks/home
func (h *LandmarkHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetHome"})

	home, err := h.homeUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, HomeResponse{
		Small: toLandmarkResponses(home.Small),
		Large: toLandmarkResponses(home.Large),
	})
}

// FindNearby handles GET /api/v1/landmarks/nearby?lat=&lng=&limit=
func (h *LandmarkHandler) FindNearby(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindNearby"})

	query, ok := queryParams(w, r)
	if !ok {
		return
	}
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(query.Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		WriteJSONError(w, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}
	limit := defaultNearbyLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(parsed, domain.MaxPageSize)
	}

	landmarks, err := h.nearbyUC.Execute(r.Context(), domain.Geolocation{Lat: lat, Lng: lng}, limit)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toLandmarkResponses(landmarks))
}

// GetLandmark handles GET /api/v1/landmarks/{landmarkID}
func (h *LandmarkHandler) GetLandmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetLandmark"})
	id, ok := landmarkIDParam(w, r)
	if !ok {
		return
	}

	landmark, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toLandmarkResponse(*landmark))
}

// CreateLandmark handles POST /api/v1/landmarks (multipart/form-data)
func (h *LandmarkHandler) CreateLandmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateLandmark"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	form, images, cleanup, err := parseLandmarkMultipart(w, r)
	defer cleanup()
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	landmark, err := h.createUC.Execute(r.Context(), identity, form, images, nil)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	logger.Info("Landmark created", port.Fields{"landmark_id": landmark.ID.String()})
	RespondWithJSON(w, http.StatusCreated, toLandmarkResponse(*landmark))
}

// UpdateLandmark handles PUT /api/v1/landmarks/{landmarkID} (multipart/form-data).
// Sending no images keeps the current ones.
func (h *LandmarkHandler) UpdateLandmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateLandmark"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := landmarkIDParam(w, r)
	if !ok {
		return
	}

	form, images, cleanup, err := parseLandmarkMultipart(w, r)
	defer cleanup()
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	landmark, err := h.updateUC.Execute(r.Context(), identity, id, form, images, nil)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toLandmarkResponse(*landmark))
}

// DeleteLandmark handles DELETE /api/v1/landmarks/{landmarkID}
func (h *LandmarkHandler) DeleteLandmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteLandmark"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := landmarkIDParam(w, r)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(r.Context(), identity, id); err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOwnLandmarks handles GET /api/v1/profile/landmarks
func (h *LandmarkHandler) ListOwnLandmarks(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListOwnLandmarks"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	landmarks, err := h.userListUC.Execute(r.Context(), identity)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toLandmarkResponses(landmarks))
}

// GetImage handles GET /api/v1/images/{fileID}
func (h *LandmarkHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetImage"})

	rc, blob, err := h.blobs.Open(r.Context(), chi.URLParam(r, "fileID"))
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeUseCaseError(w, logger, err)
		return
	}
	defer rc.Close()

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	if blob.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("Image stream interrupted", port.Fields{"error": err.Error()})
	}
}
