package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/core/music"
	"github.com/suwook2/project-musicgen/logger"
)

// CreateMusicHandler runs the generate-and-persist workflow for
// {"user_id", "title", "genre_id", "prompt"}.
func (h *APIHandler) CreateMusicHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  int64  `json:"user_id"`
		Title   string `json:"title"`
		GenreID int64  `json:"genre_id"`
		Prompt  string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errs.InvalidInputf("invalid request body"), "Invalid request body")
		return
	}

	created, err := h.musicSvc.Create(r.Context(), music.CreateRequest{
		UserID:  req.UserID,
		Title:   req.Title,
		GenreID: req.GenreID,
		Prompt:  req.Prompt,
	})
	if err != nil {
		logger.Error("failed to create music",
			logger.Int64("userID", req.UserID),
			logger.String("title", req.Title),
			logger.ErrorField(err),
		)
		respondWithError(w, err, "Failed to create music")
		return
	}

	respondWithJSON(w, http.StatusCreated, toMusicResponse(created))
}

// ListMusicHandler returns a user's music. user_id is required; title is an
// optional case-insensitive substring filter.
func (h *APIHandler) ListMusicHandler(w http.ResponseWriter, r *http.Request) {
	rawUserID := r.URL.Query().Get("user_id")
	if rawUserID == "" {
		respondWithError(w, errs.InvalidInputf("user_id is required"), "user_id is required")
		return
	}
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		respondWithError(w, errs.InvalidInputf("invalid user_id %q", rawUserID), "Invalid user_id")
		return
	}

	items, err := h.musicSvc.List(r.Context(), userID, r.URL.Query().Get("title"))
	if err != nil {
		logger.Error("failed to list music", logger.Int64("userID", userID), logger.ErrorField(err))
		respondWithError(w, err, "Failed to list music")
		return
	}

	resp := make([]musicResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toMusicResponse(&items[i]))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// DeleteMusicHandler deletes a music row and its artifact file.
func (h *APIHandler) DeleteMusicHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err, "Invalid music id")
		return
	}

	if err := h.musicSvc.Delete(r.Context(), id); err != nil {
		logger.Error("failed to delete music", logger.Int64("musicID", id), logger.ErrorField(err))
		respondWithError(w, err, "Failed to delete music")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Music deleted"})
}
