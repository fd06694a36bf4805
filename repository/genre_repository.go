package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/model"

	"gorm.io/gorm"
)

// GenreRepository defines the interface for genre data operations.
type GenreRepository interface {
	CreateGenre(ctx context.Context, genre *model.Genre) error
	GetGenreByID(ctx context.Context, id int64) (*model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
}

// gormGenreRepository implements GenreRepository over GORM.
type gormGenreRepository struct {
	db *gorm.DB
}

// NewGormGenreRepository creates a new gormGenreRepository.
func NewGormGenreRepository(db *gorm.DB) GenreRepository {
	return &gormGenreRepository{db: db}
}

// CreateGenre adds a new genre. A duplicate name yields errs.ErrConflict.
func (r *gormGenreRepository) CreateGenre(ctx context.Context, genre *model.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("genre %q: %w", genre.Name, errs.ErrConflict)
		}
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

// GetGenreByID retrieves a genre by id, or errs.ErrNotFound.
func (r *gormGenreRepository) GetGenreByID(ctx context.Context, id int64) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("genre %d: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get genre %d: %w", id, err)
	}
	return &genre, nil
}

// ListGenres returns all genres.
func (r *gormGenreRepository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	genres := []model.Genre{}
	if err := r.db.WithContext(ctx).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}
