package config

import (
	"os"
	"strconv"
	"time"

	"github.com/vortex/docpipe/internal/geometry"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSizeMB int64
	UploadDir       string

	// DefaultPageSize is the page size of the blank section that
	// docpipe.CreateEmpty builds.
	DefaultPageSize geometry.Size
	// DefaultMargins are likewise the margins of that blank section.
	DefaultMargins geometry.Margins

	// FontFallbackDir, if non-empty, is scanned at startup for system
	// fonts to register as substitutes for document fonts the package
	// doesn't embed (§7 degrade policy). Left empty, font.NewCache's
	// bundled Go Sans family (internal/font/cache.go) is still available,
	// so rendering never fails outright for lack of a registered font —
	// this only adds closer substitutes (e.g. actual Arial/Calibri) ahead
	// of it in the fallback chain.
	FontFallbackDir string
	// FontCacheSize is read from FONT_CACHE_SIZE; no code reads it, and
	// font.Cache keeps every resolved Face without eviction.
	FontCacheSize int

	// JSONPretty indents the UnifiedLayout JSON export (§6.3) for
	// readability, at the cost of a larger payload.
	JSONPretty bool
}

// letterWidthPt/letterHeightPt and defaultMarginPt are 8.5x11in / 1in, matching the
// Normal.dotm defaults Word itself falls back to when a section has no
// explicit pgSz/pgMar.
const (
	letterWidthPt  = 612.0
	letterHeightPt = 792.0
	defaultMarginPt = 72.0
)

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:            envInt("PORT", 8080),
		ReadTimeout:     envDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    envDuration("WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxUploadSizeMB: int64(envInt("MAX_UPLOAD_SIZE_MB", 50)),
		UploadDir:       envString("UPLOAD_DIR", "/tmp/docx-uploads"),

		DefaultPageSize: geometry.Size{
			Width:  envFloat("DEFAULT_PAGE_WIDTH_PT", letterWidthPt),
			Height: envFloat("DEFAULT_PAGE_HEIGHT_PT", letterHeightPt),
		},
		DefaultMargins: geometry.Margins{
			Top:    envFloat("DEFAULT_MARGIN_TOP_PT", defaultMarginPt),
			Bottom: envFloat("DEFAULT_MARGIN_BOTTOM_PT", defaultMarginPt),
			Left:   envFloat("DEFAULT_MARGIN_LEFT_PT", defaultMarginPt),
			Right:  envFloat("DEFAULT_MARGIN_RIGHT_PT", defaultMarginPt),
		},

		FontFallbackDir: envString("FONT_FALLBACK_DIR", ""),
		FontCacheSize:   envInt("FONT_CACHE_SIZE", 64),
		JSONPretty:      envBool("JSON_PRETTY", false),
	}
}

func envString(key, fallback string) string {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
