package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

// SpecStore reads and writes the per-slide specs.json records. Each item owns
// its own file, so no locking is needed.
type SpecStore struct {
	logger *slog.Logger
}

func NewSpecStore(logger *slog.Logger) *SpecStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpecStore{logger: logger}
}

// Exists reports whether the item already has a record on disk.
func (s *SpecStore) Exists(item entity.Item) bool {
	_, err := os.Stat(item.SpecsPath)
	return err == nil
}

// Write serializes spec as indented JSON to the item's specs path. An existing
// file is left alone unless force is set; written reports which happened.
func (s *SpecStore) Write(item entity.Item, spec entity.ExtractedSpec, force bool) (written bool, err error) {
	if !force && s.Exists(item) {
		s.logger.Debug("specs.write.skip_existing", "item", item.Label(), "path", item.SpecsPath)
		return false, nil
	}
	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal specs for %s: %w", item.Label(), err)
	}
	if err := os.WriteFile(item.SpecsPath, b, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", item.SpecsPath, err)
	}
	s.logger.Debug("specs.write.done", "item", item.Label(), "path", item.SpecsPath, "bytes", len(b))
	return true, nil
}

// ReadRaw returns the record bytes. A missing file wraps fs.ErrNotExist.
func (s *SpecStore) ReadRaw(item entity.Item) ([]byte, error) {
	b, err := os.ReadFile(item.SpecsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", item.SpecsPath, err)
	}
	return b, nil
}

// Read decodes the item's record.
func (s *SpecStore) Read(item entity.Item) (*entity.ExtractedSpec, error) {
	b, err := s.ReadRaw(item)
	if err != nil {
		return nil, err
	}
	var spec entity.ExtractedSpec
	if err := json.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", item.SpecsPath, err)
	}
	return &spec, nil
}

// IsMissing reports whether err came from a record that does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
