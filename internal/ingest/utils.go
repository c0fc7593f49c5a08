package ingest

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

// AllowedExt checks if a file extension is one of the accepted image formats.
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// IsTableImage reports whether path names a table_01.<ext> file of an accepted format.
func IsTableImage(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) == constants.TableImageBase && AllowedExt(ext)
}

// ItemFromImagePath maps <assetsRoot>/<category>/slide_<N>/table_01.<ext> back to
// its Item. ok is false for any other path.
func ItemFromImagePath(assetsRoot, path string) (entity.Item, bool) {
	if !IsTableImage(path) {
		return entity.Item{}, false
	}
	rel, err := filepath.Rel(assetsRoot, path)
	if err != nil {
		return entity.Item{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || parts[0] == ".." {
		return entity.Item{}, false
	}
	m := reSlideDir.FindStringSubmatch(parts[1])
	if m == nil {
		return entity.Item{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return entity.Item{}, false
	}
	item := NewItem(parts[0], SlideDir{Path: filepath.Dir(path), Number: n})
	item.ImagePath = path
	return item, true
}
