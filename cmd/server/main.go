package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"interview-core/internal/adapter/api"
	"interview-core/internal/adapter/client"
	"interview-core/internal/adapter/store"
	"interview-core/internal/config"
	"interview-core/internal/domain/repository"
	"interview-core/internal/logger"
	"interview-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLog.Sync()

	if !cfg.EnvFileLoaded {
		appLog.Warn(".env.dev file not found, using system environment variables")
	}
	ctx := context.Background()

	gemini, err := client.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.BaseURL, nil)
	if err != nil {
		appLog.Error("failed to init genai client", "error", err)
		os.Exit(1)
	}

	providers := []repository.TextProvider{
		client.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, nil),
		gemini,
		client.NewCohereClient(cfg.Cohere.APIKey, cfg.Cohere.BaseURL, nil),
		client.NewRegexResumeParser(),
	}
	transcribers := []repository.Transcriber{
		client.NewWhisperClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, nil),
		client.NewAssemblyAIClient(cfg.AssemblyAI.APIKey, cfg.AssemblyAI.BaseURL),
	}
	for _, p := range []struct {
		name string
		key  string
	}{
		{"openai", cfg.OpenAI.APIKey},
		{"gemini", cfg.Gemini.APIKey},
		{"cohere", cfg.Cohere.APIKey},
		{"assemblyai", cfg.AssemblyAI.APIKey},
	} {
		if p.key == "" {
			appLog.Warn("provider has no api key, it will be skipped", "provider", p.name)
		}
	}

	generator := usecase.NewGenerator(
		cfg.Policies,
		usecase.NewRetryExecutor(appLog),
		appLog,
		providers,
		transcribers,
	)

	// Redis for daily usage limits
	var limiter repository.UsageLimiter
	if cfg.Redis.Addr != "" && cfg.Redis.DailyLimit > 0 {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			appLog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		limiter = store.NewRedisLimiter(rdb, cfg.Redis.DailyLimit)
		appLog.Info("usage limits enabled", "daily_limit", cfg.Redis.DailyLimit)
	}

	// Initialize API Layer (Delivery Layer)
	app := fiber.New(fiber.Config{
		AppName:   "Interview Core",
		BodyLimit: 26 << 20,
	})

	handler := api.NewGenerationHandler(generator, limiter, appLog)
	api.SetupRouter(app, handler, cfg.Env, os.Getenv("APP_VERSION"))

	// Start Server
	addr := ":" + strconv.Itoa(cfg.Port)
	appLog.Info("server starting", "addr", addr, "env", cfg.Env)
	if err := app.Listen(addr); err != nil {
		appLog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
