package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/joseph-ayodele/catalog-specs/constants"
)

// Rejection reasons, in the order they are checked.
const (
	ReasonMissing     = "File does not exist"
	ReasonEmpty       = "File is empty"
	ReasonTooSmall    = "File too small (likely corrupted)"
	ReasonUnsupported = "Unsupported file format"
	ReasonError       = "Validation error"
)

// Validator is a cheap pre-filter run before OCR. It only stats the file; the
// image is never opened or decoded.
type Validator struct {
	minBytes int64
	logger   *slog.Logger
}

func NewValidator(minBytes int64, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if minBytes <= 0 {
		minBytes = 100
	}
	return &Validator{minBytes: minBytes, logger: logger}
}

// Validate checks existence, emptiness, minimum size, then extension. Stat
// failures are reported as a rejection, never returned as errors.
func (v *Validator) Validate(path string) Validation {
	res := v.check(path)
	if !res.Valid {
		v.logger.Debug("ingest.validate.rejected", "path", path, "reason", res.Reason)
	}
	return res
}

func (v *Validator) check(path string) Validation {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Validation{Reason: ReasonMissing}
		}
		return Validation{Reason: fmt.Sprintf("%s: %v", ReasonError, err)}
	}
	if info.IsDir() {
		return Validation{Reason: fmt.Sprintf("%s: %s is a directory", ReasonError, filepath.Base(path))}
	}

	size := info.Size()
	if size == 0 {
		return Validation{Reason: ReasonEmpty}
	}
	if size < v.minBytes {
		v.logger.Debug("ingest.validate.small",
			"path", path,
			"size", humanize.Bytes(uint64(size)),
			"min", humanize.Bytes(uint64(v.minBytes)),
		)
		return Validation{Reason: ReasonTooSmall}
	}

	ext := filepath.Ext(path)
	if !AllowedExt(ext) {
		return Validation{Reason: fmt.Sprintf("%s: %s", ReasonUnsupported, constants.NormalizeExtWithDot(ext))}
	}
	return Validation{Valid: true}
}
