// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// Every value ends up in one Config struct that main() passes explicitly into
// the storage, converter and handler constructors. Nothing reads the
// environment after startup, so tests can build a Config by hand and point it
// at temporary directories.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported conversion backends.
const (
	BackendPdf2Docx = "pdf2docx" // External pdf2docx CLI (layout-preserving)
	BackendNative   = "native"   // Pure-Go text-layer fallback
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Storage directories
	UploadDir    string // Incoming PDFs
	ConvertedDir string // Produced DOCX files

	// Upload allow-list (extensions without the leading dot)
	AllowedExtensions []string

	// Conversion settings
	ConverterBackend string
	Pdf2DocxPath     string        // Path to the pdf2docx binary
	XTolerance       float64       // Horizontal merge tolerance
	YTolerance       float64       // Vertical merge tolerance
	StrictLayout     bool          // pdf2docx keep_al
	OCR              bool          // Leave off unless Tesseract is installed
	ConvertTimeout   time.Duration // 0 = wait as long as the converter takes

	// Retention policy
	DeleteSourceAfterDownload bool          // Remove the uploaded PDF once its DOCX is served
	ConvertedRetention        time.Duration // 0 = keep converted files forever
	SweepInterval             time.Duration // How often the retention sweeper runs

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults
// and validates it.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration without validating it, so callers such as
// the CLI can apply overrides first. A .env file in the working directory is
// loaded when present; variables already set in the environment win over it.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Port:    getEnv("PORT", "5000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		ConvertedDir: getEnv("CONVERTED_DIR", "converted"),

		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", []string{"pdf"}),

		ConverterBackend: getEnv("CONVERTER_BACKEND", BackendPdf2Docx),
		Pdf2DocxPath:     getEnv("PDF2DOCX_PATH", findPdf2Docx()),
		XTolerance:       getEnvFloat("X_TOLERANCE", 0.25), // Fixes merged words
		YTolerance:       getEnvFloat("Y_TOLERANCE", 0.5),
		StrictLayout:     getEnvBool("STRICT_LAYOUT", true),
		OCR:              getEnvBool("OCR", false),
		ConvertTimeout:   getEnvDuration("CONVERT_TIMEOUT", 0),

		DeleteSourceAfterDownload: getEnvBool("DELETE_SOURCE_AFTER_DOWNLOAD", true),
		ConvertedRetention:        getEnvDuration("CONVERTED_RETENTION", 0),
		SweepInterval:             getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),

		AllowedOrigins: getEnvList("CORS_ORIGIN", []string{"*"}),
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.UploadDir == "" || c.ConvertedDir == "" {
		return fmt.Errorf("UPLOAD_DIR and CONVERTED_DIR must not be empty")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q (want debug, release or test)", c.GinMode)
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}
	if c.XTolerance <= 0 || c.YTolerance <= 0 {
		return fmt.Errorf("X_TOLERANCE and Y_TOLERANCE must be positive (got %g, %g)", c.XTolerance, c.YTolerance)
	}

	switch c.ConverterBackend {
	case BackendPdf2Docx:
		if c.Pdf2DocxPath == "" {
			return fmt.Errorf("pdf2docx not found; set PDF2DOCX_PATH or CONVERTER_BACKEND=native")
		}
	case BackendNative:
	default:
		return fmt.Errorf("unknown CONVERTER_BACKEND %q (want %s or %s)", c.ConverterBackend, BackendPdf2Docx, BackendNative)
	}

	if c.ConvertedRetention > 0 && c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive when CONVERTED_RETENTION is set")
	}
	return nil
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvFloat reads a float environment variable with a fallback.
func getEnvFloat(key string, fallback float64) float64 {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvBool accepts anything strconv.ParseBool does ("1", "true", "F", ...).
func getEnvBool(key string, fallback bool) bool {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvDuration reads a Go duration ("90s", "24h"). A bare integer is
// treated as seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	val, err := time.ParseDuration(str)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(str, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// findPdf2Docx checks common locations for the pdf2docx binary.
func findPdf2Docx() string {
	paths := []string{
		"/usr/local/bin/pdf2docx",
		"/usr/bin/pdf2docx",
		"/opt/venv/bin/pdf2docx",
		os.ExpandEnv("$HOME/.local/bin/pdf2docx"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
