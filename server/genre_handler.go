package server

import (
	"encoding/json"
	"net/http"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/logger"
	"github.com/suwook2/project-musicgen/model"
)

// CreateGenreHandler creates a genre from {"name": ...}.
func (h *APIHandler) CreateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errs.InvalidInputf("invalid request body"), "Invalid request body")
		return
	}
	if req.Name == "" {
		respondWithError(w, errs.InvalidInputf("name is required"), "Name is required")
		return
	}

	genre := &model.Genre{Name: req.Name}
	if err := h.genreRepo.CreateGenre(r.Context(), genre); err != nil {
		logger.Error("failed to create genre", logger.String("name", req.Name), logger.ErrorField(err))
		respondWithError(w, err, "Failed to create genre")
		return
	}

	respondWithJSON(w, http.StatusCreated, genre)
}

// ListGenresHandler returns all genres.
func (h *APIHandler) ListGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreRepo.ListGenres(r.Context())
	if err != nil {
		logger.Error("failed to list genres", logger.ErrorField(err))
		respondWithError(w, err, "Failed to list genres")
		return
	}
	respondWithJSON(w, http.StatusOK, genres)
}
