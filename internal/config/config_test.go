package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here
	t.Setenv("CONVERTER_BACKEND", BackendNative)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "converted", cfg.ConvertedDir)
	assert.Equal(t, []string{"pdf"}, cfg.AllowedExtensions)
	assert.Equal(t, 0.25, cfg.XTolerance)
	assert.True(t, cfg.StrictLayout)
	assert.False(t, cfg.OCR)
	assert.Zero(t, cfg.ConvertTimeout)
	assert.True(t, cfg.DeleteSourceAfterDownload)
	assert.Zero(t, cfg.ConvertedRetention)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONVERTER_BACKEND", BackendNative)
	t.Setenv("UPLOAD_DIR", "/srv/in")
	t.Setenv("CONVERTED_DIR", "/srv/out")
	t.Setenv("X_TOLERANCE", "0.4")
	t.Setenv("DELETE_SOURCE_AFTER_DOWNLOAD", "false")
	t.Setenv("CONVERTED_RETENTION", "24h")
	t.Setenv("CONVERT_TIMEOUT", "90")
	t.Setenv("CORS_ORIGIN", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/in", cfg.UploadDir)
	assert.Equal(t, "/srv/out", cfg.ConvertedDir)
	assert.Equal(t, 0.4, cfg.XTolerance)
	assert.False(t, cfg.DeleteSourceAfterDownload)
	assert.Equal(t, 24*time.Hour, cfg.ConvertedRetention)
	assert.Equal(t, 90*time.Second, cfg.ConvertTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CONVERTER_BACKEND=native\nPORT=8088\nGIN_MODE=release\n"), 0o644))
	t.Setenv("PORT", "9000") // the environment wins over .env
	// Registers restores for the values godotenv is about to set.
	for _, key := range []string{"CONVERTER_BACKEND", "GIN_MODE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendNative, cfg.ConverterBackend)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "9000", cfg.Port)
}

func TestFromEnv_SkipsValidation(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONVERTER_BACKEND", "bogus")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "bogus", cfg.ConverterBackend)

	_, err = Load()
	assert.ErrorContains(t, err, "unknown CONVERTER_BACKEND")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GinMode:           "release",
			UploadDir:         "uploads",
			ConvertedDir:      "converted",
			AllowedExtensions: []string{"pdf"},
			ConverterBackend:  BackendNative,
			XTolerance:        0.25,
			YTolerance:        0.5,
			SweepInterval:     time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty upload dir", func(c *Config) { c.UploadDir = "" }, "must not be empty"},
		{"unknown gin mode", func(c *Config) { c.GinMode = "prod" }, "unknown GIN_MODE"},
		{"no extensions", func(c *Config) { c.AllowedExtensions = nil }, "ALLOWED_EXTENSIONS"},
		{"zero tolerance", func(c *Config) { c.XTolerance = 0 }, "must be positive"},
		{"unknown backend", func(c *Config) { c.ConverterBackend = "libreoffice" }, "unknown CONVERTER_BACKEND"},
		{"pdf2docx missing", func(c *Config) {
			c.ConverterBackend = BackendPdf2Docx
			c.Pdf2DocxPath = ""
		}, "pdf2docx not found"},
		{"retention without interval", func(c *Config) {
			c.ConvertedRetention = time.Hour
			c.SweepInterval = 0
		}, "SWEEP_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
