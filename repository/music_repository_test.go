package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/db"
	"github.com/suwook2/project-musicgen/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory sqlite database with the schema applied.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// seedUserAndGenre inserts one user and one genre and returns their ids.
func seedUserAndGenre(t *testing.T, gdb *gorm.DB, userName, genreName string) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{Name: userName}
	if err := NewGormUserRepository(gdb).CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	genre := &model.Genre{Name: genreName}
	if err := NewGormGenreRepository(gdb).CreateGenre(ctx, genre); err != nil {
		t.Fatalf("failed to seed genre: %v", err)
	}
	return user.ID, genre.ID
}

func newMusic(userID, genreID int64, uuid, title string) *model.Music {
	return &model.Music{
		UserID:             userID,
		UUID:               uuid,
		Title:              title,
		GenreID:            genreID,
		Prompt:             "a calm piano piece",
		GeneratedAudioPath: "generated_music/" + uuid + ".wav",
	}
}

func TestMusicRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, genreID := seedUserAndGenre(t, gdb, "alice", "lofi")
		repo := NewGormMusicRepository(gdb)

		m := newMusic(userID, genreID, "u-1", "dream1")
		if err := repo.CreateMusic(ctx, m); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}
		if m.ID == 0 {
			t.Error("music ID should be set after creation")
		}

		got, err := repo.GetMusicByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("failed to get music: %v", err)
		}
		if got.Title != "dream1" {
			t.Errorf("expected title dream1, got %s", got.Title)
		}
		if got.Genre.Name != "lofi" {
			t.Errorf("expected genre lofi, got %s", got.Genre.Name)
		}
	})

	t.Run("DuplicateTitleIsConflict", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, genreID := seedUserAndGenre(t, gdb, "alice", "lofi")
		repo := NewGormMusicRepository(gdb)

		if err := repo.CreateMusic(ctx, newMusic(userID, genreID, "u-1", "dream1")); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		err := repo.CreateMusic(ctx, newMusic(userID, genreID, "u-2", "dream1"))
		if !errors.Is(err, errs.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("TitleExists", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, genreID := seedUserAndGenre(t, gdb, "alice", "lofi")
		repo := NewGormMusicRepository(gdb)

		exists, err := repo.TitleExists(ctx, "dream1")
		if err != nil {
			t.Fatalf("title check failed: %v", err)
		}
		if exists {
			t.Error("title should not exist yet")
		}

		if err := repo.CreateMusic(ctx, newMusic(userID, genreID, "u-1", "dream1")); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		exists, err = repo.TitleExists(ctx, "dream1")
		if err != nil {
			t.Fatalf("title check failed: %v", err)
		}
		if !exists {
			t.Error("title should exist after creation")
		}
	})

	t.Run("ListByUserWithTitleFilter", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, genreID := seedUserAndGenre(t, gdb, "alice", "lofi")
		otherID, _ := seedUserAndGenre(t, gdb, "bob", "jazz")
		repo := NewGormMusicRepository(gdb)

		for _, m := range []*model.Music{
			newMusic(userID, genreID, "u-1", "Dream One"),
			newMusic(userID, genreID, "u-2", "dream two"),
			newMusic(userID, genreID, "u-3", "night walk"),
			newMusic(otherID, genreID, "u-4", "dreamless"),
		} {
			if err := repo.CreateMusic(ctx, m); err != nil {
				t.Fatalf("failed to create music %q: %v", m.Title, err)
			}
		}

		all, err := repo.ListMusicByUser(ctx, userID, "")
		if err != nil {
			t.Fatalf("failed to list music: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 rows, got %d", len(all))
		}

		// Substring match is case-insensitive.
		filtered, err := repo.ListMusicByUser(ctx, userID, "DREAM")
		if err != nil {
			t.Fatalf("failed to list music: %v", err)
		}
		if len(filtered) != 2 {
			t.Errorf("expected 2 rows, got %d", len(filtered))
		}
	})

	t.Run("DeleteMusic", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, genreID := seedUserAndGenre(t, gdb, "alice", "lofi")
		repo := NewGormMusicRepository(gdb)

		m := newMusic(userID, genreID, "u-1", "dream1")
		if err := repo.CreateMusic(ctx, m); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		if err := repo.DeleteMusic(ctx, m.ID); err != nil {
			t.Fatalf("failed to delete music: %v", err)
		}
		if _, err := repo.GetMusicByID(ctx, m.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		if err := repo.DeleteMusic(ctx, m.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound for second delete, got %v", err)
		}
	})

	t.Run("CountByGenre", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, lofiID := seedUserAndGenre(t, gdb, "alice", "lofi")
		genreRepo := NewGormGenreRepository(gdb)
		jazz := &model.Genre{Name: "jazz"}
		if err := genreRepo.CreateGenre(ctx, jazz); err != nil {
			t.Fatalf("failed to seed genre: %v", err)
		}
		repo := NewGormMusicRepository(gdb)

		for _, m := range []*model.Music{
			newMusic(userID, lofiID, "u-1", "one"),
			newMusic(userID, lofiID, "u-2", "two"),
			newMusic(userID, jazz.ID, "u-3", "three"),
		} {
			if err := repo.CreateMusic(ctx, m); err != nil {
				t.Fatalf("failed to create music %q: %v", m.Title, err)
			}
		}

		counts, err := repo.CountByGenre(ctx, userID)
		if err != nil {
			t.Fatalf("failed to count by genre: %v", err)
		}
		got := map[string]int64{}
		for _, c := range counts {
			got[c.Genre] = c.Count
		}
		if got["lofi"] != 2 || got["jazz"] != 1 {
			t.Errorf("unexpected distribution: %v", got)
		}
	})

	t.Run("CountByGenreEmptyUser", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, _ := seedUserAndGenre(t, gdb, "alice", "lofi")
		repo := NewGormMusicRepository(gdb)

		counts, err := repo.CountByGenre(ctx, userID)
		if err != nil {
			t.Fatalf("failed to count by genre: %v", err)
		}
		if len(counts) != 0 {
			t.Errorf("expected empty distribution, got %v", counts)
		}
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateNameIsConflict", func(t *testing.T) {
		gdb := setupTestDB(t)
		repo := NewGormUserRepository(gdb)

		if err := repo.CreateUser(ctx, &model.User{Name: "alice"}); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		err := repo.CreateUser(ctx, &model.User{Name: "alice"})
		if !errors.Is(err, errs.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("DeleteCascadesToMusic", func(t *testing.T) {
		gdb := setupTestDB(t)
		userID, genreID := seedUserAndGenre(t, gdb, "alice", "lofi")
		userRepo := NewGormUserRepository(gdb)
		musicRepo := NewGormMusicRepository(gdb)

		m := newMusic(userID, genreID, "u-1", "dream1")
		if err := musicRepo.CreateMusic(ctx, m); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		if err := userRepo.DeleteUser(ctx, userID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := musicRepo.GetMusicByID(ctx, m.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected music row to be cascaded away, got %v", err)
		}
	})

	t.Run("DeleteMissingUser", func(t *testing.T) {
		gdb := setupTestDB(t)
		repo := NewGormUserRepository(gdb)

		if err := repo.DeleteUser(ctx, 42); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGenreRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateNameIsConflict", func(t *testing.T) {
		gdb := setupTestDB(t)
		repo := NewGormGenreRepository(gdb)

		if err := repo.CreateGenre(ctx, &model.Genre{Name: "lofi"}); err != nil {
			t.Fatalf("failed to create genre: %v", err)
		}
		err := repo.CreateGenre(ctx, &model.Genre{Name: "lofi"})
		if !errors.Is(err, errs.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("GetMissingGenre", func(t *testing.T) {
		gdb := setupTestDB(t)
		repo := NewGormGenreRepository(gdb)

		if _, err := repo.GetGenreByID(ctx, 7); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
