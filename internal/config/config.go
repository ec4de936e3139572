package config

import (
	"log"
	"os"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = use the mock even on GCP
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("BOOKWISE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("BOOKWISE_PORT", "8080"),

		GCPProjectID: getEnv("BOOKWISE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("BOOKWISE_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("BOOKWISE_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("BOOKWISE_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("BOOKWISE_USE_MOCK_LLM", mode == ModeLocal),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("BOOKWISE_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}
