package server

import (
	"encoding/json"
	"net/http"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/logger"
	"github.com/suwook2/project-musicgen/model"
)

// CreateUserHandler creates a user from {"name": ...}.
func (h *APIHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
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

	user := &model.User{Name: req.Name}
	if err := h.userRepo.CreateUser(r.Context(), user); err != nil {
		logger.Error("failed to create user", logger.String("name", req.Name), logger.ErrorField(err))
		respondWithError(w, err, "Failed to create user")
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// ListUsersHandler returns all users.
func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers(r.Context())
	if err != nil {
		logger.Error("failed to list users", logger.ErrorField(err))
		respondWithError(w, err, "Failed to list users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// DeleteUserHandler deletes a user, their music rows and artifact files.
func (h *APIHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err, "Invalid user id")
		return
	}

	if err := h.musicSvc.DeleteUser(r.Context(), id); err != nil {
		logger.Error("failed to delete user", logger.Int64("userID", id), logger.ErrorField(err))
		respondWithError(w, err, "Failed to delete user")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// GenreDistributionHandler returns a user's music counts grouped by genre.
func (h *APIHandler) GenreDistributionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err, "Invalid user id")
		return
	}

	counts, err := h.musicSvc.GenreDistribution(r.Context(), id)
	if err != nil {
		logger.Error("failed to get genre distribution", logger.Int64("userID", id), logger.ErrorField(err))
		respondWithError(w, err, "Failed to get genre distribution")
		return
	}

	respondWithJSON(w, http.StatusOK, counts)
}
