package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/core/music"
	"github.com/suwook2/project-musicgen/logger"
	"github.com/suwook2/project-musicgen/model"
	"github.com/suwook2/project-musicgen/repository"
	"github.com/suwook2/project-musicgen/storage"

	"github.com/gorilla/mux"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo  repository.UserRepository
	genreRepo repository.GenreRepository
	musicSvc  *music.Service
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	genreRepo repository.GenreRepository,
	musicSvc *music.Service,
) *APIHandler {
	return &APIHandler{
		userRepo:  userRepo,
		genreRepo: genreRepo,
		musicSvc:  musicSvc,
	}
}

// respondWithJSON writes payload as a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// respondWithError maps err onto its HTTP status and writes an error body
// with a human-readable message plus the underlying error text.
func respondWithError(w http.ResponseWriter, err error, msg string) {
	body := map[string]string{"message": msg}
	if err != nil {
		body["error"] = err.Error()
	}
	respondWithJSON(w, errs.HTTPStatus(err), body)
}

// pathID extracts the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.InvalidInputf("invalid id %q", raw)
	}
	return id, nil
}

// musicResponse is the public shape of a music row. The artifact is exposed
// as its public URL, never as a filesystem path.
type musicResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Prompt    string    `json:"prompt"`
	AudioPath string    `json:"generatedAudioPath"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMusicResponse(m *model.Music) musicResponse {
	return musicResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Genre:     m.Genre.Name,
		Prompt:    m.Prompt,
		AudioPath: storage.PublicURL(m.GeneratedAudioPath),
		CreatedAt: m.CreatedAt,
	}
}

// HealthHandler is the liveness probe.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Backend is running"})
}
