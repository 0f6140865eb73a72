package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/extract"
	"policy-backend/internal/extractions"
	"policy-backend/internal/llm"
	openai "policy-backend/internal/llm/openai"
	"policy-backend/internal/ocr"
	"policy-backend/internal/pipeline"
	"policy-backend/internal/shared/config"
	"policy-backend/internal/shared/server"
	"policy-backend/internal/shared/server/respond"
	"policy-backend/internal/shared/storage/db"
	"policy-backend/internal/validate"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Repo     extractions.Repo
	Pipeline *pipeline.Pipeline
	Handler  *extractions.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo extractions.Repo
	if sqlDB != nil {
		repo = &extractions.PGRepo{DB: sqlDB}
	} else {
		repo = extractions.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	var vision extract.VisionClient
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		openaiClient, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		llmClient = openaiClient
		vision = openaiClient
	} else {
		log.Printf("bootstrap: OPENAI_API_KEY empty; field extraction disabled")
	}

	extractor, err := buildExtractor(cfg, vision)
	if err != nil {
		return nil, err
	}

	pipe := &pipeline.Pipeline{
		Policy:    validate.NewPolicy(cfg.AllowedExtensions, cfg.MaxUploadBytes),
		Extractor: extractor,
		LLM:       llmClient,
	}

	handler := extractions.NewHandler(pipe, repo, cfg.OpenAIModel, cfg.MaxUploadBytes)

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Repo:     repo,
		Pipeline: pipe,
		Handler:  handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Extractions: handler,
		Health:      healthHandler(cfg),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildExtractor(cfg config.Config, vision extract.VisionClient) (extract.TextExtractor, error) {
	switch cfg.TextExtractor {
	case "native":
		return &extract.NativeExtractor{Vision: vision}, nil
	default:
		var client extract.OCRClient
		if strings.TrimSpace(cfg.MistralAPIKey) != "" {
			ocrClient, err := ocr.NewClient(cfg.MistralAPIKey)
			if err != nil {
				return nil, fmt.Errorf("build ocr client: %w", err)
			}
			client = ocrClient
		} else {
			log.Printf("bootstrap: MISTRAL_API_KEY empty; OCR extraction disabled")
		}
		return &extract.OCRExtractor{Client: client}, nil
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		openaiConfigured := strings.TrimSpace(cfg.OpenAIAPIKey) != ""
		mistralConfigured := strings.TrimSpace(cfg.MistralAPIKey) != ""

		extractorReady := mistralConfigured
		if cfg.TextExtractor == "native" {
			extractorReady = true
		}

		status := "healthy"
		if !extractorReady || !openaiConfigured {
			status = "degraded"
		}

		respond.JSON(c, http.StatusOK, gin.H{
			"status":             status,
			"text_extractor":     cfg.TextExtractor,
			"mistral_configured": mistralConfigured,
			"openai_configured":  openaiConfigured,
			"supported_formats":  cfg.AllowedExtensions,
		})
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
