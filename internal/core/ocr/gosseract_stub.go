//go:build !gosseract

package ocr

import (
	"context"
	"fmt"
	"log/slog"
)

func newGosseractEngine(_ context.Context, _ Config, _ *slog.Logger) (Engine, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags gosseract", ErrEngineUnavailable)
}
