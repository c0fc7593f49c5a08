package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

var reSlideDir = regexp.MustCompile(`^` + constants.SlideDirPrefix + `(\d+)$`)

// Scanner discovers items under the category→slide directory convention.
type Scanner struct {
	logger *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ScanCategory lists the immediate slide_<N> subdirectories of root sorted by
// slide number. Files and other folders are skipped. A missing root is not an
// error; it yields no slides.
func (s *Scanner) ScanCategory(root string) ([]SlideDir, DirStats, error) {
	var stats DirStats

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("ingest.scan.missing_root", "root", root)
			return nil, stats, nil
		}
		return nil, stats, fmt.Errorf("read category dir: %w", err)
	}

	var slides []SlideDir
	for _, e := range entries {
		stats.Scanned++
		if !e.IsDir() || IsHidden(e.Name()) {
			stats.Skipped++
			continue
		}
		m := reSlideDir.FindStringSubmatch(e.Name())
		if m == nil {
			stats.Skipped++
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			s.logger.Debug("ingest.scan.bad_slide_number", "dir", e.Name())
			stats.Skipped++
			continue
		}
		slides = append(slides, SlideDir{Path: filepath.Join(root, e.Name()), Number: n})
		stats.Matched++
	}

	// stable on equal numbers (slide_1 vs slide_01) so logs stay reproducible
	sort.SliceStable(slides, func(i, j int) bool { return slides[i].Number < slides[j].Number })

	s.logger.Debug("ingest.scan.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped,
	)
	return slides, stats, nil
}

// Items scans one category under assetsRoot and resolves every slide into an Item.
func (s *Scanner) Items(assetsRoot, category string) ([]entity.Item, error) {
	slides, _, err := s.ScanCategory(filepath.Join(assetsRoot, category))
	if err != nil {
		return nil, err
	}
	items := make([]entity.Item, 0, len(slides))
	for _, sd := range slides {
		items = append(items, NewItem(category, sd))
	}
	return items, nil
}

// NewItem builds the Item of a slide folder.
func NewItem(category string, sd SlideDir) entity.Item {
	return entity.Item{
		Category:  category,
		Slide:     sd.Number,
		Dir:       sd.Path,
		ImagePath: ResolveTableImage(sd.Path),
		SpecsPath: filepath.Join(sd.Path, constants.SpecsFileName),
	}
}

// ResolveTableImage returns the first existing table_01.<ext> in dir, probing the
// accepted formats in order, then any other table_01.* file so the validator can
// name its format. With nothing on disk it returns table_01.png.
func ResolveTableImage(dir string) string {
	for _, ext := range constants.ImageExtensions {
		p := filepath.Join(dir, constants.TableImageBase+"."+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if others, _ := filepath.Glob(filepath.Join(dir, constants.TableImageBase+".*")); len(others) > 0 {
		sort.Strings(others)
		return others[0]
	}
	return filepath.Join(dir, constants.TableImageBase+"."+constants.ImageExtensions[0])
}
