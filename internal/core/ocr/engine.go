package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const (
	// Whitelist is the table alphabet: A-Z, 0-9, hyphen, asterisk, quote, colon, comma, period, space.
	Whitelist = `ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-*":., `
	// PSMSingleBlock assumes a single uniform block of text.
	PSMSingleBlock = 6
)

var (
	ErrTimeout           = errors.New("ocr: recognition timed out")
	ErrEngineFault       = errors.New("ocr: engine fault")
	ErrEngineInit        = errors.New("ocr: engine initialization failed")
	ErrEngineUnavailable = errors.New("ocr: engine not available in this build")
)

// Engine is one live recognition handle. Implementations are not safe for
// concurrent use; the Session serializes access.
//
// Recognize must wrap ErrEngineFault when the engine itself failed on the image
// (crash, unreadable input it could not decode), so the session can count it.
type Engine interface {
	Recognize(ctx context.Context, path string) (string, error)
	Close() error
}

// EngineFactory creates a fully configured Engine.
type EngineFactory func(ctx context.Context) (Engine, error)

type Config struct {
	Engine      string // "tesseract" (CLI) or "gosseract" (in-process)
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string
}

// NewEngineFactory returns the factory for cfg.Engine. Every engine it builds
// is configured with Whitelist, PSMSingleBlock and preserved inter-word spaces.
func NewEngineFactory(cfg Config, runner Runner, logger *slog.Logger) (EngineFactory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}

	switch cfg.Engine {
	case "", "tesseract":
		return func(ctx context.Context) (Engine, error) {
			return NewTesseractEngine(ctx, cfg, runner, logger)
		}, nil
	case "gosseract":
		return func(ctx context.Context) (Engine, error) {
			return newGosseractEngine(ctx, cfg, logger)
		}, nil
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}
