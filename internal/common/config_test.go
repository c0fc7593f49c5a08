package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SPECS_CONFIG", "")
	t.Setenv("ASSETS_ROOT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "src/assets", cfg.Assets.Root)
	assert.Equal(t, []string{"rugs", "placemat", "TableRunner", "cushion", "throw", "bedding"}, cfg.Assets.Categories)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 5, cfg.OCR.MaxEngineFailures)
	assert.Equal(t, int64(100), cfg.OCR.MinImageBytes)
	assert.Equal(t, "specs-issues.json", cfg.Audit.ReportPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specs.yaml")
	yml := `
assets:
  root: /data/assets
  categories: [rugs, throw]
ocr:
  timeout: 10s
  max_engine_failures: 3
ledger:
  dsn: none
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("SPECS_CONFIG", path)
	t.Setenv("OCR_MAX_ENGINE_FAILURES", "7")
	t.Setenv("SPEC_CATEGORIES", " cushion , bedding ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/data/assets", cfg.Assets.Root)
	assert.Equal(t, []string{"cushion", "bedding"}, cfg.Assets.Categories)
	assert.Equal(t, 10*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 7, cfg.OCR.MaxEngineFailures)
	assert.False(t, cfg.LedgerEnabled())
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assets: [unterminated"), 0o644))
	t.Setenv("SPECS_CONFIG", path)

	_, err := LoadConfig()
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown engine", func(c *Config) { c.OCR.Engine = "easyocr" }, "ocr.engine"},
		{"zero threshold", func(c *Config) { c.OCR.MaxEngineFailures = 0 }, "ocr.max_engine_failures"},
		{"no categories", func(c *Config) { c.Assets.Categories = nil }, "assets.categories"},
		{"blank root", func(c *Config) { c.Assets.Root = "  " }, "assets.root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidator_FailedFields(t *testing.T) {
	v := NewValidator().
		Field("a", "", Required).
		Field("b", "x", Required).
		Field("c", nil, Required).
		Field("a", "", Required)

	assert.Equal(t, []string{"a", "c"}, v.FailedFields())
	assert.Error(t, v.Error())
}

func TestLoadConfig_CanonicalCategories(t *testing.T) {
	t.Setenv("SPECS_CONFIG", "")
	t.Setenv("SPEC_CATEGORIES", "table-runner,Rug,Throws,lamps")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"TableRunner", "rugs", "throw", "lamps"}, cfg.Assets.Categories)
}
