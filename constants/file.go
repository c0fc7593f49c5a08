package constants

import "strings"

const (
	// TableImageBase is the file name (without extension) of the spec table scan in a slide folder.
	TableImageBase = "table_01"
	// SpecsFileName is the per-slide output record.
	SpecsFileName = "specs.json"
	// SlideDirPrefix precedes the slide number in slide folder names.
	SlideDirPrefix = "slide_"
)

// ImageExtensions lists the accepted table image formats in probe order.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}

// AllowedExtensions holds the accepted image formats as a set.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// NormalizeExtWithDot lowercases an extension and guarantees a leading dot.
func NormalizeExtWithDot(ext string) string {
	if ext == "" {
		return ""
	}
	return "." + NormalizeExt(ext)
}
