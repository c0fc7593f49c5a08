package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
}

func TestScanCategory_SortsBySlideNumber(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"slide_3", "slide_1", "slide_10", "slide_x", "notes", ".slide_4", "slide_0"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	writeFile(t, filepath.Join(root, "slide_2"), 10)

	slides, stats, err := NewScanner(nil).ScanCategory(root)
	require.NoError(t, err)

	var got []int
	for _, s := range slides {
		got = append(got, s.Number)
	}
	assert.Equal(t, []int{1, 3, 10}, got)
	assert.Equal(t, filepath.Join(root, "slide_1"), slides[0].Path)
	assert.Equal(t, uint32(8), stats.Scanned)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(5), stats.Skipped)
}

func TestScanCategory_MissingRoot(t *testing.T) {
	slides, _, err := NewScanner(nil).ScanCategory(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestItems_ResolvesPaths(t *testing.T) {
	assets := t.TempDir()
	writeFile(t, filepath.Join(assets, "rugs", "slide_2", "table_01.jpg"), 200)
	writeFile(t, filepath.Join(assets, "rugs", "slide_5", "table_01.tiff"), 200)
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "rugs", "slide_7"), 0o755))

	items, err := NewScanner(nil).Items(assets, "rugs")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "rugs/slide_002", items[0].Label())
	assert.Equal(t, filepath.Join(assets, "rugs", "slide_2", "table_01.jpg"), items[0].ImagePath)
	assert.Equal(t, filepath.Join(assets, "rugs", "slide_2", "specs.json"), items[0].SpecsPath)
	assert.Equal(t, filepath.Join(assets, "rugs", "slide_5", "table_01.tiff"), items[1].ImagePath)
	assert.Equal(t, filepath.Join(assets, "rugs", "slide_7", "table_01.png"), items[2].ImagePath)
}

func TestValidator_Priority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty.tiff"), 0)
	writeFile(t, filepath.Join(dir, "tiny.png"), 42)
	writeFile(t, filepath.Join(dir, "big.tiff"), 500)
	writeFile(t, filepath.Join(dir, "table_01.PNG"), 500)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "folder.png"), 0o755))

	tests := []struct {
		file   string
		valid  bool
		reason string
	}{
		{"missing.png", false, "File does not exist"},
		{"empty.tiff", false, "File is empty"},
		{"tiny.png", false, "File too small (likely corrupted)"},
		{"big.tiff", false, "Unsupported file format: .tiff"},
		{"table_01.PNG", true, ""},
	}
	v := NewValidator(100, nil)
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res := v.Validate(filepath.Join(dir, tt.file))
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}

	res := v.Validate(filepath.Join(dir, "folder.png"))
	assert.False(t, res.Valid)
	assert.True(t, strings.HasPrefix(res.Reason, ReasonError))
}

func TestItemFromImagePath(t *testing.T) {
	assets := "/srv/assets"

	item, ok := ItemFromImagePath(assets, "/srv/assets/throw/slide_012/table_01.webp")
	require.True(t, ok)
	assert.Equal(t, "throw", item.Category)
	assert.Equal(t, 12, item.Slide)
	assert.Equal(t, "/srv/assets/throw/slide_012/table_01.webp", item.ImagePath)
	assert.Equal(t, "/srv/assets/throw/slide_012/specs.json", item.SpecsPath)

	for _, p := range []string{
		"/srv/assets/throw/slide_012/table_02.png",
		"/srv/assets/throw/slide_012/table_01.txt",
		"/srv/assets/throw/extra/slide_1/table_01.png",
		"/srv/assets/throw/gallery/table_01.png",
		"/elsewhere/throw/slide_1/table_01.png",
	} {
		_, ok := ItemFromImagePath(assets, p)
		assert.False(t, ok, p)
	}
}

func TestStartWatcher_EmitsTableImages(t *testing.T) {
	root := t.TempDir()
	slide := filepath.Join(root, "rugs", "slide_1")
	require.NoError(t, os.MkdirAll(slide, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	writeFile(t, filepath.Join(slide, "notes.txt"), 10)
	writeFile(t, filepath.Join(slide, "table_01.png"), 200)

	select {
	case p := <-events:
		assert.Equal(t, filepath.Join(slide, "table_01.png"), p)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
