package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/trailimage/storyfmt/internal/format"
	"github.com/trailimage/storyfmt/internal/typography"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Rendering
	IconsFile  string
	Typography bool

	// Render cache; empty disables it
	CachePath string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentRender int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Render latency window
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("STORYFMT_API_KEY"),

		IconsFile:  os.Getenv("ICONS_FILE"),
		Typography: envBool("TYPOGRAPHY", false),

		CachePath: os.Getenv("CACHE_PATH"),

		WorkerCount:         envInt("WORKER_COUNT", 4),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentRender: envInt("MAX_CONCURRENT_RENDER", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentRender <= 0 {
		cfg.MaxConcurrentRender = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings the HTTP server cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("STORYFMT_API_KEY is required")
	}
	return nil
}

type iconsFile struct {
	Icons format.Icons `yaml:"icons"`
}

// LoadIcons reads the icon glyph file, or returns the defaults when none is
// configured. Glyphs missing from the file keep their defaults.
func (c Config) LoadIcons() (format.Icons, error) {
	icons := format.DefaultIcons()
	if c.IconsFile == "" {
		return icons, nil
	}
	data, err := os.ReadFile(c.IconsFile)
	if err != nil {
		return icons, fmt.Errorf("read icons file: %w", err)
	}
	f := iconsFile{Icons: icons}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return icons, fmt.Errorf("parse icons file %s: %w", c.IconsFile, err)
	}
	return f.Icons, nil
}

// Formatter builds the story formatter these settings describe.
func (c Config) Formatter() (*format.Formatter, error) {
	icons, err := c.LoadIcons()
	if err != nil {
		return nil, err
	}
	opts := format.Options{Icons: icons}
	if c.Typography {
		opts.Typography = typography.Normalize
	}
	return format.New(opts), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
