package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"policy-backend/internal/validate"
)

// Config holds application configuration. Everything the pipeline needs
// (provider keys, extractor strategy, allow-list, size limit) is supplied
// here at construction time.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	APIAuthToken    string

	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAITimeoutSeconds int64
	MistralAPIKey        string

	// TextExtractor selects the extraction strategy: "ocr" or "native".
	TextExtractor     string
	AllowedExtensions []string
	MaxUploadBytes    int64

	DatabaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local .env for dev convenience.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded .env file")
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	extractor := normalizeExtractor(getEnv("TEXT_EXTRACTOR", "ocr"))

	extensions := splitAndTrim(os.Getenv("ALLOWED_EXTENSIONS"))
	if len(extensions) == 0 {
		if extractor == "native" {
			extensions = validate.NativeFormats
		} else {
			extensions = validate.OCRFormats
		}
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  env,
		CORSAllowOrigin:      splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		APIAuthToken:         os.Getenv("API_AUTH_TOKEN"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeoutSeconds: getEnvInt64("OPENAI_TIMEOUT_SECONDS", 120),
		MistralAPIKey:        os.Getenv("MISTRAL_API_KEY"),
		TextExtractor:        extractor,
		AllowedExtensions:    extensions,
		MaxUploadBytes:       getEnvInt64("MAX_UPLOAD_BYTES", validate.MaxDocumentBytes),
		DatabaseURL:          dbURL,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid, using default: %q", key, raw)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeExtractor(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "native":
		return "native"
	default:
		return "ocr"
	}
}
