package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// TesseractEngine shells out to the tesseract CLI once per image.
type TesseractEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewTesseractEngine checks that the binary runs before returning the engine.
func NewTesseractEngine(ctx context.Context, cfg Config, runner Runner, logger *slog.Logger) (*TesseractEngine, error) {
	out, errb, err := runner.Run(ctx, cfg.Tesseract, logger, "--version")
	if err != nil {
		return nil, fmt.Errorf("%w: %s --version: %v: %s", ErrEngineInit, cfg.Tesseract, err, truncate(string(errb), 512))
	}
	version := firstLine(string(out))
	if version == "" {
		// older builds print the banner on stderr
		version = firstLine(string(errb))
	}
	logger.Info("ocr.engine.ready", "engine", "tesseract", "version", version, "lang", cfg.Language)
	return &TesseractEngine{cfg: cfg, runner: runner, logger: logger}, nil
}

func (e *TesseractEngine) args(path string) []string {
	// tesseract <file> stdout -l <lang> --psm 6 -c ...
	args := []string{
		path, "stdout",
		"-l", e.cfg.Language,
		"--psm", strconv.Itoa(PSMSingleBlock),
		"-c", "tessedit_char_whitelist=" + Whitelist,
		"-c", "preserve_interword_spaces=1",
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}

func (e *TesseractEngine) Recognize(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.logger, e.args(path)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: tesseract exit %d: %s", ErrEngineFault, exitErr.ExitCode(), truncate(strings.TrimSpace(string(errb)), 512))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}

// Close is a no-op; each Recognize call is its own process.
func (e *TesseractEngine) Close() error { return nil }

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
