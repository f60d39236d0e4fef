package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"langleague/database"
	"langleague/internal/ai"
	"langleague/internal/cache"
	"langleague/internal/config"
	"langleague/internal/http-api/handler"
	"langleague/internal/http-api/middleware"
	"langleague/internal/http-api/repository"
	"langleague/internal/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Cache is best-effort. A dead Redis must not keep the API down.
	var completionCache *cache.CompletionCache
	if cfg.CacheEnabled {
		completionCache, err = cache.NewCompletionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			logger.Warn("completion cache unavailable, serving without it", "error", err)
			completionCache = nil
		} else {
			defer completionCache.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	appUserRepo := repository.NewAppUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepo(db)
	chapterRepo := repository.NewChapterRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	vocabRepo := repository.NewVocabularyRepo(db)
	grammarRepo := repository.NewGrammarRepo(db)
	exerciseRepo := repository.NewExerciseRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	noteRepo := repository.NewNoteRepo(db)
	progressRepo := repository.NewChapterProgressRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, appUserRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo)
	chapterService := service.NewChapterService(chapterRepo, bookRepo)
	unitService := service.NewUnitService(unitRepo, bookRepo)
	vocabService := service.NewVocabularyService(vocabRepo, chapterRepo)
	grammarService := service.NewGrammarService(grammarRepo, chapterRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, chapterRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, appUserRepo, bookRepo)
	noteService := service.NewNoteService(noteRepo, appUserRepo, unitRepo)
	progressService := service.NewProgressService(progressRepo, appUserRepo, chapterRepo, completionCache, logger)

	geminiClient := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, logger)

	go sweepExpiredTokens(refreshTokenRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	chapterHandler := handler.NewChapterHandler(chapterService)
	unitHandler := handler.NewUnitHandler(unitService)
	vocabHandler := handler.NewVocabularyHandler(vocabService)
	grammarHandler := handler.NewGrammarHandler(grammarService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	noteHandler := handler.NewNoteHandler(noteService)
	progressHandler := handler.NewProgressHandler(progressService)
	aiHandler := handler.NewAIHandler(geminiClient)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(authService), middleware.RequireAdmin())

	bookHandler.RegisterRoutes(authed.Group("/books"), admin.Group("/books"))
	chapterHandler.RegisterRoutes(authed.Group("/chapters"), admin.Group("/chapters"))
	unitHandler.RegisterRoutes(authed.Group("/units"), admin.Group("/units"))
	vocabHandler.RegisterRoutes(authed.Group("/vocabularies"), admin.Group("/vocabularies"))
	grammarHandler.RegisterRoutes(authed.Group("/grammars"), admin.Group("/grammars"))
	exerciseHandler.RegisterRoutes(authed.Group("/exercises"), admin.Group("/exercises"))
	enrollmentHandler.RegisterRoutes(authed.Group("/enrollments"))
	noteHandler.RegisterRoutes(authed.Group("/notes"))
	progressHandler.RegisterRoutes(authed.Group("/chapter-progresses"))
	aiHandler.RegisterRoutes(authed.Group("/ai"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr, "env", cfg.GoEnv)
	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// sweepExpiredTokens deletes expired refresh tokens once an hour.
func sweepExpiredTokens(repo repository.RefreshTokenRepository, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := repo.DeleteExpired(ctx)
		cancel()
		if err != nil {
			logger.Warn("refresh token sweep failed", "error", err)
			continue
		}
		if deleted > 0 {
			logger.Info("swept expired refresh tokens", "deleted", deleted)
		}
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
