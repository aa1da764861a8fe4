package rest

import (
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/port"
	"landmark-service/internal/core/port/usecases_port"
	"net/http"
)

type SocialHandler struct {
	likeUC       usecases_port.ToggleLikeUseCasePort
	favouriteUC  usecases_port.ToggleFavouriteUseCasePort
	favouritesUC usecases_port.GetUserFavouritesUseCasePort
}

func NewSocialHandler(
	likeUC usecases_port.ToggleLikeUseCasePort,
	favouriteUC usecases_port.ToggleFavouriteUseCasePort,
	favouritesUC usecases_port.GetUserFavouritesUseCasePort,
) *SocialHandler {
	return &SocialHandler{
		likeUC:       likeUC,
		favouriteUC:  favouriteUC,
		favouritesUC: favouritesUC,
	}
}

// ToggleLike handles PUT /api/v1/landmarks/{landmarkID}/like
func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleLike"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := landmarkIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.likeUC.Execute(r.Context(), identity, id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, LikeResponse{Liked: state.Liked, LikesCount: state.Count})
}

// ToggleFavourite handles PUT /api/v1/landmarks/{landmarkID}/favourite
func (h *SocialHandler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleFavourite"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := landmarkIDParam(w, r)
	if !ok {
		return
	}

	favourite, err := h.favouriteUC.Execute(r.Context(), identity, id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, FavouriteResponse{Favourite: favourite})
}

// GetFavourites handles GET /api/v1/favourites
func (h *SocialHandler) GetFavourites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFavourites"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	landmarks, err := h.favouritesUC.Execute(r.Context(), identity)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toLandmarkResponses(landmarks))
}
