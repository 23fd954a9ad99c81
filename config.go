package repojanitor

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ermos/dotenv"
)

// SourceType selects the artifact store backend.
type SourceType string

const (
	SourceNexus SourceType = "nexus"
	SourceS3    SourceType = "s3"
	SourceGCS   SourceType = "gcs"
)

// Config holds the full runtime configuration, loaded from the environment
// (with optional .env file support).
type Config struct {
	SourceType SourceType

	// Repository manager backend (nexus)
	ServerURL string
	Username  string
	Password  string

	// Repository name for nexus, bucket name for s3/gcs
	Repository string

	// Optional key prefix filter for s3/gcs listings
	SourcePrefix string

	RetentionCount   int
	PathDepth        int
	DryRun           bool
	KeepPathPatterns []*regexp.Regexp

	LogLevel slog.Level

	// Scheduling; empty CleanupCron means a single run
	CleanupCron    string
	CleanupOnStart bool
	CleanupTimeout int // minutes

	// S3 backend tuning
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool

	// GCS backend tuning; empty means application default credentials
	GCSCredentialsFile string
}

// LoadConfig reads the configuration from the environment and validates it.
// All validation happens here, before any network call.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = dotenv.Parse(".env")

	cfg := &Config{
		SourceType:         SourceType(envDefault("SOURCE_TYPE", string(SourceNexus))),
		ServerURL:          strings.TrimSuffix(os.Getenv("SERVER_URL"), "/"),
		Username:           os.Getenv("SERVER_USERNAME"),
		Password:           os.Getenv("SERVER_PASSWORD"),
		Repository:         os.Getenv("REPOSITORY"),
		SourcePrefix:       os.Getenv("SOURCE_PREFIX"),
		CleanupCron:        os.Getenv("CLEANUP_CRON"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3Region:           os.Getenv("S3_REGION"),
		S3AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("S3_SECRET_KEY"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
	}

	var err error
	if cfg.RetentionCount, err = positiveIntEnv("RETENTION_COUNT"); err != nil {
		return nil, err
	}
	if cfg.PathDepth, err = positiveIntEnv("PATH_DEPTH"); err != nil {
		return nil, err
	}
	if cfg.DryRun, err = boolEnv("DRY_RUN", true); err != nil {
		return nil, err
	}
	if cfg.CleanupOnStart, err = boolEnv("CLEANUP_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.S3PathStyle, err = boolEnv("S3_PATH_STYLE", false); err != nil {
		return nil, err
	}
	if cfg.CleanupTimeout, err = intEnvDefault("CLEANUP_TIMEOUT", 30); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = parseLogLevel(envDefault("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.KeepPathPatterns, err = parseKeepPatterns(os.Getenv("KEEP_PATH_PATTERNS")); err != nil {
		return nil, err
	}

	if cfg.Repository == "" {
		return nil, fmt.Errorf("REPOSITORY is required")
	}

	switch cfg.SourceType {
	case SourceNexus:
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("SERVER_URL is required for the nexus source")
		}
		if cfg.Username == "" || cfg.Password == "" {
			return nil, fmt.Errorf("SERVER_USERNAME and SERVER_PASSWORD are required for the nexus source")
		}
	case SourceS3, SourceGCS:
		// bucket name is carried by REPOSITORY, everything else is optional
	default:
		return nil, fmt.Errorf("SOURCE_TYPE must be one of nexus, s3, gcs (got %q)", cfg.SourceType)
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveIntEnv(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (got %d)", key, n)
	}
	return n, nil
}

func intEnvDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, v)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean (got %q)", key, v)
	}
	return b, nil
}

func parseLogLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", v)
	}
}

func parseKeepPatterns(v string) ([]*regexp.Regexp, error) {
	var patterns []*regexp.Regexp
	for _, raw := range strings.Split(v, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("KEEP_PATH_PATTERNS contains an invalid pattern %q: %w", raw, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}
