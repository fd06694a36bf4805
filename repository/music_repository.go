package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/model"

	"gorm.io/gorm"
)

// MusicRepository defines the interface for music data operations.
type MusicRepository interface {
	CreateMusic(ctx context.Context, music *model.Music) error
	GetMusicByID(ctx context.Context, id int64) (*model.Music, error)
	TitleExists(ctx context.Context, title string) (bool, error)
	ListMusicByUser(ctx context.Context, userID int64, titleFilter string) ([]model.Music, error)
	DeleteMusic(ctx context.Context, id int64) error
	CountByGenre(ctx context.Context, userID int64) ([]model.GenreCount, error)
}

// gormMusicRepository implements MusicRepository over GORM.
type gormMusicRepository struct {
	db *gorm.DB
}

// NewGormMusicRepository creates a new gormMusicRepository.
func NewGormMusicRepository(db *gorm.DB) MusicRepository {
	return &gormMusicRepository{db: db}
}

// CreateMusic inserts a music row within a transaction. The unique index on
// title is the source of truth for uniqueness: a violation, including one
// from a race that slipped past the orchestrator's pre-check, yields
// errs.ErrConflict. Any other failure yields errs.ErrPersistenceFailed.
func (r *gormMusicRepository) CreateMusic(ctx context.Context, music *model.Music) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(music).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("music title %q: %w", music.Title, errs.ErrConflict)
		}
		return fmt.Errorf("failed to create music row: %w: %v", errs.ErrPersistenceFailed, err)
	}
	return nil
}

// GetMusicByID retrieves a music row by id, or errs.ErrNotFound.
func (r *gormMusicRepository) GetMusicByID(ctx context.Context, id int64) (*model.Music, error) {
	var music model.Music
	if err := r.db.WithContext(ctx).Preload("Genre").First(&music, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("music %d: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get music %d: %w", id, err)
	}
	return &music, nil
}

// TitleExists reports whether any music row already has the given title.
func (r *gormMusicRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Music{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check title %q: %w", title, err)
	}
	return count > 0, nil
}

// ListMusicByUser returns a user's music, optionally filtered by a
// case-insensitive title substring. No ordering is guaranteed.
func (r *gormMusicRepository) ListMusicByUser(ctx context.Context, userID int64, titleFilter string) ([]model.Music, error) {
	q := r.db.WithContext(ctx).Preload("Genre").Where("user_id = ?", userID)
	if titleFilter != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(titleFilter)+"%")
	}

	music := []model.Music{}
	if err := q.Find(&music).Error; err != nil {
		return nil, fmt.Errorf("failed to list music for user %d: %w", userID, err)
	}
	return music, nil
}

// DeleteMusic removes a music row within a transaction. A missing row yields
// errs.ErrNotFound; any other failure errs.ErrPersistenceFailed.
func (r *gormMusicRepository) DeleteMusic(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Music{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("music %d: %w", id, errs.ErrNotFound)
		}
		return fmt.Errorf("failed to delete music %d: %w: %v", id, errs.ErrPersistenceFailed, err)
	}
	return nil
}

// CountByGenre returns the count of a user's music rows grouped by genre
// name. A user with no music yields an empty slice.
func (r *gormMusicRepository) CountByGenre(ctx context.Context, userID int64) ([]model.GenreCount, error) {
	counts := []model.GenreCount{}
	err := r.db.WithContext(ctx).
		Model(&model.Music{}).
		Select("genres.name AS genre, COUNT(music.id) AS count").
		Joins("JOIN genres ON genres.id = music.genre_id").
		Where("music.user_id = ?", userID).
		Group("genres.name").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count music by genre for user %d: %w", userID, err)
	}
	return counts, nil
}
