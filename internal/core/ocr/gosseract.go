//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine keeps one in-process Tesseract API handle. Build with
// -tags gosseract; it needs the tesseract and leptonica development headers.
type GosseractEngine struct {
	client *gosseract.Client
	logger *slog.Logger
}

func newGosseractEngine(_ context.Context, cfg Config, logger *slog.Logger) (Engine, error) {
	client := gosseract.NewClient()
	if cfg.TessdataDir != "" {
		client.TessdataPrefix = cfg.TessdataDir
	}

	setup := []func() error{
		func() error { return client.SetLanguage(cfg.Language) },
		func() error { return client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK) },
		func() error { return client.SetWhitelist(Whitelist) },
		func() error { return client.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1") },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: gosseract: %v", ErrEngineInit, err)
		}
	}

	logger.Info("ocr.engine.ready", "engine", "gosseract", "version", gosseract.Version(), "lang", cfg.Language)
	return &GosseractEngine{client: client, logger: logger}, nil
}

// Recognize runs in the calling goroutine and cannot be interrupted; the
// session enforces the time budget around it.
func (e *GosseractEngine) Recognize(_ context.Context, path string) (string, error) {
	if err := e.client.SetImage(path); err != nil {
		return "", fmt.Errorf("%w: set image: %v", ErrEngineFault, err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngineFault, err)
	}
	return text, nil
}

func (e *GosseractEngine) Close() error {
	return e.client.Close()
}
