package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suwook2/project-musicgen/config"
	"github.com/suwook2/project-musicgen/core/music"
	"github.com/suwook2/project-musicgen/core/musicgen"
	"github.com/suwook2/project-musicgen/db"
	"github.com/suwook2/project-musicgen/logger"
	"github.com/suwook2/project-musicgen/repository"
	"github.com/suwook2/project-musicgen/storage"

	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP router for the given handler and artifact
// directory.
func NewRouter(apiHandler *APIHandler, artifactDir string) *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.HandleFunc("/api/health", apiHandler.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/users", apiHandler.CreateUserHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/users", apiHandler.ListUsersHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", apiHandler.DeleteUserHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/users/{id}/genre_distribution", apiHandler.GenreDistributionHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/genres", apiHandler.CreateGenreHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/genres", apiHandler.ListGenresHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/music", apiHandler.CreateMusicHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/music", apiHandler.ListMusicHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/music/{id}", apiHandler.DeleteMusicHandler).Methods(http.MethodDelete)

	// Generated artifacts are served straight from the artifact directory.
	artifactServer := http.FileServer(http.Dir(artifactDir))
	router.PathPrefix(storage.PublicPrefix).Handler(http.StripPrefix(storage.PublicPrefix, artifactServer))

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start initializes all dependencies and runs the HTTP server until
// interrupted.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutput,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	})

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrate(db.GormDB); err != nil {
		logger.Fatal("failed to migrate database", logger.ErrorField(err))
	}

	// The server runs without redis; the distribution cache just stays cold.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("redis unavailable, genre distribution cache disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	artifacts, err := storage.NewArtifactStore(cfg.GeneratedMusicDir)
	if err != nil {
		logger.Fatal("failed to initialize artifact store", logger.ErrorField(err))
	}

	userRepo := repository.NewGormUserRepository(db.GormDB)
	genreRepo := repository.NewGormGenreRepository(db.GormDB)
	musicRepo := repository.NewGormMusicRepository(db.GormDB)

	synth := musicgen.NewClient(cfg.MusicgenURL, cfg.MusicgenTimeout)
	musicSvc := music.NewService(musicRepo, userRepo, genreRepo, synth, artifacts)

	apiHandler := NewAPIHandler(userRepo, genreRepo, musicSvc)

	server := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     NewRouter(apiHandler, artifacts.Dir()),
		ReadTimeout: 30 * time.Second,
		// Generation holds the response open; the write timeout must outlive
		// the sidecar timeout.
		WriteTimeout: cfg.MusicgenTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			logger.String("addr", cfg.ListenAddr),
			logger.String("artifactDir", artifacts.Dir()),
			logger.String("musicgenURL", cfg.MusicgenURL),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}
