package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/catalog-specs/constants"
)

// Config holds all application configuration
type Config struct {
	Assets AssetsConfig `yaml:"assets"`
	OCR    OCRConfig    `yaml:"ocr"`
	Audit  AuditConfig  `yaml:"audit"`
	Ledger LedgerConfig `yaml:"ledger"`
	Export ExportConfig `yaml:"export"`
	Watch  WatchConfig  `yaml:"watch"`
	Log    LogConfig    `yaml:"log"`
}

// AssetsConfig locates the category→slide tree
type AssetsConfig struct {
	Root       string   `yaml:"root"`
	Categories []string `yaml:"categories"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine            string        `yaml:"engine"`
	TesseractBin      string        `yaml:"tesseract_bin"`
	TessdataDir       string        `yaml:"tessdata_dir"`
	Language          string        `yaml:"language"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxEngineFailures int           `yaml:"max_engine_failures"`
	ItemDelay         time.Duration `yaml:"item_delay"`
	MinImageBytes     int64         `yaml:"min_image_bytes"`
}

// AuditConfig holds auditing pass configuration
type AuditConfig struct {
	ReportPath string `yaml:"report_path"`
}

// LedgerConfig holds the run ledger database configuration.
// DSN "none" disables the ledger.
type LedgerConfig struct {
	DSN         string        `yaml:"dsn"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// ExportConfig holds XLSX export configuration
type ExportConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig holds watch mode configuration
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	EngineTesseract = "tesseract"
	EngineGosseract = "gosseract"

	LedgerDisabled = "none"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Assets: AssetsConfig{
			Root:       "src/assets",
			Categories: constants.AsStringSlice(),
		},
		OCR: OCRConfig{
			Engine:            EngineTesseract,
			TesseractBin:      "tesseract",
			Language:          "eng",
			Timeout:           30 * time.Second,
			MaxEngineFailures: 5,
			ItemDelay:         100 * time.Millisecond,
			MinImageBytes:     100,
		},
		Audit:  AuditConfig{ReportPath: "specs-issues.json"},
		Ledger: LedgerConfig{DSN: "./tmp/specs-ledger.db", DialTimeout: 3 * time.Second},
		Export: ExportConfig{Path: "specs.xlsx"},
		Watch:  WatchConfig{Debounce: 500 * time.Millisecond},
		Log:    LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from .env, an optional YAML file named by
// SPECS_CONFIG, and environment variables, in that order of precedence (lowest first).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path := os.Getenv("SPECS_CONFIG"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.Assets.Categories = canonicalCategories(cfg.Assets.Categories)
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return NewAppError("CONFIG_ERROR", "read config file", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("parse %s", path), err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Assets.Root = getEnv("ASSETS_ROOT", c.Assets.Root)
	c.Assets.Categories = getEnvAsList("SPEC_CATEGORIES", c.Assets.Categories)

	c.OCR.Engine = strings.ToLower(getEnv("OCR_ENGINE", c.OCR.Engine))
	c.OCR.TesseractBin = getEnv("TESSERACT_BIN", c.OCR.TesseractBin)
	c.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", c.OCR.TessdataDir)
	c.OCR.Language = getEnv("OCR_LANG", c.OCR.Language)
	c.OCR.Timeout = getEnvAsDuration("OCR_TIMEOUT", c.OCR.Timeout)
	c.OCR.MaxEngineFailures = getEnvAsInt("OCR_MAX_ENGINE_FAILURES", c.OCR.MaxEngineFailures)
	c.OCR.ItemDelay = getEnvAsDuration("ITEM_DELAY", c.OCR.ItemDelay)
	c.OCR.MinImageBytes = int64(getEnvAsInt("MIN_IMAGE_BYTES", int(c.OCR.MinImageBytes)))

	c.Audit.ReportPath = getEnv("ISSUES_REPORT", c.Audit.ReportPath)
	c.Ledger.DSN = getEnv("LEDGER_DSN", c.Ledger.DSN)
	c.Ledger.DialTimeout = getEnvAsDuration("LEDGER_DIAL_TIMEOUT", c.Ledger.DialTimeout)
	c.Export.Path = getEnv("EXPORT_PATH", c.Export.Path)
	c.Watch.Debounce = getEnvAsDuration("WATCH_DEBOUNCE", c.Watch.Debounce)
	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// canonicalCategories maps loose names ("table-runner") onto the category
// directory names. Unknown names are kept as given.
func canonicalCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, name := range in {
		cat, _ := constants.Canonicalize(name)
		if cat != "" {
			out = append(out, string(cat))
		}
	}
	return out
}

// LedgerEnabled reports whether run outcomes should be recorded.
func (c *Config) LedgerEnabled() bool {
	dsn := strings.TrimSpace(c.Ledger.DSN)
	return dsn != "" && !strings.EqualFold(dsn, LedgerDisabled)
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("assets.root", c.Assets.Root, Required).
		Field("assets.categories", len(c.Assets.Categories), Positive).
		Field("ocr.engine", c.OCR.Engine, OneOf(EngineTesseract, EngineGosseract)).
		Field("ocr.timeout", int64(c.OCR.Timeout), Positive).
		Field("ocr.max_engine_failures", c.OCR.MaxEngineFailures, Positive).
		Field("ocr.min_image_bytes", c.OCR.MinImageBytes, Positive).
		Field("audit.report_path", c.Audit.ReportPath, Required)
	if c.OCR.Engine == EngineTesseract {
		v.Field("ocr.tesseract_bin", c.OCR.TesseractBin, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
