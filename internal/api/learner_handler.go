package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingodeck/internal/api/shared"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/platform/logger"
)

// LearnerHandler handles progress, favorites and settings requests.
type LearnerHandler struct {
	learner LearnerService
	logger  *slog.Logger
}

// NewLearnerHandler creates a new LearnerHandler
func NewLearnerHandler(learner LearnerService, logger *slog.Logger) *LearnerHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LearnerHandler")
	}
	return &LearnerHandler{
		learner: learner,
		logger:  logger.With(slog.String("component", "learner_handler")),
	}
}

// GetProgress handles GET /api/progress.
func (h *LearnerHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(h.learner.Progress()))
}

// ResetProgress handles DELETE /api/progress.
func (h *LearnerHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	h.learner.ResetProgress(r.Context())
	logger.FromContextOrDefault(r.Context(), h.logger).Info("progress reset by request")
	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites handles GET /api/favorites.
func (h *LearnerHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, FavoritesResponse{CardIDs: h.learner.Favorites()})
}

// AddFavorite handles PUT /api/favorites/{id}.
func (h *LearnerHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathCardID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return
	}
	if err := h.learner.AddFavorite(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to add favorite")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FavoritesResponse{CardIDs: h.learner.Favorites()})
}

// RemoveFavorite handles DELETE /api/favorites/{id}.
func (h *LearnerHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathCardID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return
	}
	h.learner.RemoveFavorite(r.Context(), cardID)
	shared.RespondWithJSON(w, r, http.StatusOK, FavoritesResponse{CardIDs: h.learner.Favorites()})
}

// ToggleFavorite handles POST /api/favorites/{id}/toggle.
func (h *LearnerHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathCardID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return
	}
	on, err := h.learner.ToggleFavorite(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle favorite")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ToggleFavoriteResponse{
		CardID:   cardID,
		Favorite: on,
		CardIDs:  h.learner.Favorites(),
	})
}

// GetSettings handles GET /api/settings.
func (h *LearnerHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.learner.Settings())
}

// UpdateSettings handles PUT /api/settings. The body replaces the settings.
func (h *LearnerHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.Settings
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	updated, err := h.learner.UpdateSettings(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}
