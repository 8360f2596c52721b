package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	TemplatesSheet   string
	ResultTypesSheet string
	MappingsSheet    string

	TablesPath string
	OutputDir  string
	DBPath     string

	IDPrefix string
	IDWidth  int

	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		TemplatesSheet:   getEnv("TEMPLATES_SHEET", "All Templates"),
		ResultTypesSheet: getEnv("RESULT_TYPES_SHEET", "Result Types"),
		MappingsSheet:    getEnv("MAPPINGS_SHEET", "Mappings"),

		TablesPath: getEnv("TABLES_PATH", ""),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "data")),
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "runs.db")),

		IDPrefix: getEnv("ID_PREFIX", "T"),
		IDWidth:  getEnvInt("ID_WIDTH", 4),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.IDWidth <= 0 {
		cfg.IDWidth = 4
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
