// Package music implements the music-request lifecycle: validation,
// generation, artifact write and transactional persistence, with
// compensation keeping rows and files consistent on failure.
package music

import (
	"context"
	"fmt"

	"github.com/suwook2/project-musicgen/cache"
	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/core/musicgen"
	"github.com/suwook2/project-musicgen/logger"
	"github.com/suwook2/project-musicgen/model"
	"github.com/suwook2/project-musicgen/repository"
	"github.com/suwook2/project-musicgen/storage"

	"github.com/google/uuid"
)

// Service orchestrates the generate-and-persist workflow.
type Service struct {
	musicRepo repository.MusicRepository
	userRepo  repository.UserRepository
	genreRepo repository.GenreRepository
	synth     musicgen.Synthesizer
	artifacts *storage.ArtifactStore
}

// NewService creates the orchestrator.
func NewService(
	musicRepo repository.MusicRepository,
	userRepo repository.UserRepository,
	genreRepo repository.GenreRepository,
	synth musicgen.Synthesizer,
	artifacts *storage.ArtifactStore,
) *Service {
	return &Service{
		musicRepo: musicRepo,
		userRepo:  userRepo,
		genreRepo: genreRepo,
		synth:     synth,
		artifacts: artifacts,
	}
}

// CreateRequest carries the fields of a create-music request.
type CreateRequest struct {
	UserID  int64
	Title   string
	GenreID int64
	Prompt  string
}

// Create runs the create-music workflow: validate, check title uniqueness,
// synthesize, write the artifact, then insert the row in a transaction. If
// the insert fails after the file was written, the file is deleted again so
// a row exists iff its artifact exists.
//
// The title pre-check avoids paying for generation on an obvious duplicate;
// the unique index remains the source of truth, so a concurrent duplicate
// that slips past the pre-check still comes back as a conflict.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Music, error) {
	if req.UserID == 0 || req.Title == "" || req.GenreID == 0 || req.Prompt == "" {
		return nil, errs.InvalidInputf("user_id, title, genre_id and prompt are required")
	}

	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	genre, err := s.genreRepo.GetGenreByID(ctx, req.GenreID)
	if err != nil {
		return nil, err
	}

	exists, err := s.musicRepo.TitleExists(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("music title %q: %w", req.Title, errs.ErrConflict)
	}

	audio, err := s.synth.Synthesize(ctx, req.Prompt)
	if err != nil {
		// Nothing has been written yet, no cleanup needed.
		return nil, err
	}

	id := uuid.NewString()
	path, err := s.artifacts.Put(id, audio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailed, err)
	}

	music := &model.Music{
		UserID:             req.UserID,
		UUID:               id,
		Title:              req.Title,
		GenreID:            req.GenreID,
		Prompt:             req.Prompt,
		GeneratedAudioPath: path,
	}
	if err := s.musicRepo.CreateMusic(ctx, music); err != nil {
		// Compensate: the row insert failed after the file was written.
		if rmErr := s.artifacts.Remove(path); rmErr != nil {
			logger.Warn("failed to remove orphaned artifact",
				logger.String("path", path), logger.ErrorField(rmErr))
		}
		return nil, err
	}
	music.Genre = *genre

	cache.InvalidateGenreDistribution(ctx, req.UserID)

	logger.Info("music created",
		logger.Int64("musicID", music.ID),
		logger.Int64("userID", music.UserID),
		logger.String("title", music.Title),
	)
	return music, nil
}

// Delete removes a music row and its artifact file. File removal is
// idempotent; a row-delete failure after the file is gone is reported but
// leaves the row intact.
func (s *Service) Delete(ctx context.Context, id int64) error {
	music, err := s.musicRepo.GetMusicByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.artifacts.Remove(music.GeneratedAudioPath); err != nil {
		logger.Warn("failed to remove artifact",
			logger.String("path", music.GeneratedAudioPath), logger.ErrorField(err))
	}

	if err := s.musicRepo.DeleteMusic(ctx, id); err != nil {
		return err
	}

	cache.InvalidateGenreDistribution(ctx, music.UserID)

	logger.Info("music deleted",
		logger.Int64("musicID", id), logger.String("title", music.Title))
	return nil
}

// DeleteUser removes a user. The foreign key cascades the delete to the
// user's music rows; their artifact files are removed here, best-effort,
// after the rows are gone.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	owned, err := s.musicRepo.ListMusicByUser(ctx, userID, "")
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	for _, m := range owned {
		if err := s.artifacts.Remove(m.GeneratedAudioPath); err != nil {
			logger.Warn("failed to remove artifact of deleted user",
				logger.String("path", m.GeneratedAudioPath), logger.ErrorField(err))
		}
	}

	cache.InvalidateGenreDistribution(ctx, userID)

	logger.Info("user deleted", logger.Int64("userID", userID),
		logger.Int("musicRemoved", len(owned)))
	return nil
}

// List returns a user's music, optionally filtered by a case-insensitive
// title substring.
func (s *Service) List(ctx context.Context, userID int64, titleFilter string) ([]model.Music, error) {
	if userID == 0 {
		return nil, errs.InvalidInputf("user_id is required")
	}
	return s.musicRepo.ListMusicByUser(ctx, userID, titleFilter)
}

// GenreDistribution returns the count of a user's music grouped by genre
// name. The user must exist; a user with no music gets an empty list.
func (s *Service) GenreDistribution(ctx context.Context, userID int64) ([]model.GenreCount, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	if counts, ok := cache.GetGenreDistribution(ctx, userID); ok {
		return counts, nil
	}

	counts, err := s.musicRepo.CountByGenre(ctx, userID)
	if err != nil {
		return nil, err
	}
	cache.SetGenreDistribution(ctx, userID, counts)
	return counts, nil
}
