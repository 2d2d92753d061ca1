package main

import (
	"log"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pantryledger/pantryledger/internal/auth"
	"github.com/pantryledger/pantryledger/internal/config"
	"github.com/pantryledger/pantryledger/internal/db"
	"github.com/pantryledger/pantryledger/internal/imagegen"
	"github.com/pantryledger/pantryledger/internal/imagegen/openai"
	"github.com/pantryledger/pantryledger/internal/logging"
	"github.com/pantryledger/pantryledger/internal/recipegen"
	"github.com/pantryledger/pantryledger/internal/recipegen/claude"
	"github.com/pantryledger/pantryledger/internal/recipegen/ollama"
	"github.com/pantryledger/pantryledger/internal/service"
	"github.com/pantryledger/pantryledger/internal/store"
	"github.com/pantryledger/pantryledger/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	userStore := store.NewUserStore(database)
	pantryStore := store.NewPantryStore(database)
	recipeStore := store.NewRecipeStore(database)
	sessionStore := store.NewSessionStore(database)

	text := newRecipeGenerator(cfg, logger)
	if text == nil {
		return
	}
	images, err := newImageGenerator(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize image generator", "error", err)
		return
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}
	issuer := auth.NewIssuer(secret, cfg.TokenTTL)

	pantryService := service.NewPantryService(pantryStore, userStore, logger)
	recipeService := service.NewRecipeService(recipeStore, sessionStore, pantryService, text, images, logger)
	authService := service.NewAuthService(userStore, issuer, logger)

	server := web.NewServer(pantryService, recipeService, authService, issuer, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newRecipeGenerator(cfg *config.Config, logger *slog.Logger) recipegen.Generator {
	switch cfg.RecipeBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when RECIPE_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude recipe backend", "model", cfg.ClaudeModel)
		return claude.NewClaudeGenerator(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		logger.Info("using Ollama recipe backend", "model", cfg.OllamaModel)
		return ollama.NewOllamaGenerator(cfg.OllamaHost, cfg.OllamaModel)
	}
}

// newImageGenerator returns a nil Generator when no key is configured, which
// turns recipe images off.
func newImageGenerator(cfg *config.Config, logger *slog.Logger) (imagegen.Generator, error) {
	if cfg.ImageAPIKey == "" {
		logger.Info("IMAGE_API_KEY is not set; recipe images are disabled")
		return nil, nil
	}
	cached, err := imagegen.NewCached(
		openai.NewImageGenerator(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImageModel),
		cfg.ImageCacheSize,
	)
	if err != nil {
		return nil, err
	}
	logger.Info("using image backend", "url", cfg.ImageAPIURL, "model", cfg.ImageModel)
	return cached, nil
}
