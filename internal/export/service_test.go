package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
)

func TestWriteFile_SpecsSheet(t *testing.T) {
	root := t.TempDir()
	mk := func(category, slide, body string) {
		dir := filepath.Join(root, category, slide)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		if body != "" {
			require.NoError(t, os.WriteFile(filepath.Join(dir, constants.SpecsFileName), []byte(body), 0o644))
		}
	}
	mk("rugs", "slide_2", `{"styleNumber":"R-2","size":"90*90\""}`)
	mk("rugs", "slide_1", `{"styleNumber":"R-1","description":"BRAIDED RUG","country":"INDIA"}`)
	mk("rugs", "slide_3", "")
	mk("throw", "slide_1", `not json`)

	svc := NewService(Config{AssetsRoot: root, Categories: []string{"rugs", "throw"}}, repository.NewSpecStore(nil), nil)
	out := filepath.Join(t.TempDir(), "specs.xlsx")
	n, err := svc.WriteFile(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Specs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Category", "Slide", "Style #", "Description", "Technique", "Content", "Size", "Season", "Theme", "Country", "Specs Path"}, rows[0])
	assert.Equal(t, "R-1", rows[1][2])
	assert.Equal(t, "BRAIDED RUG", rows[1][3])
	assert.Equal(t, "INDIA", rows[1][9])
	assert.Equal(t, "R-2", rows[2][2])
	assert.Equal(t, `90*90"`, rows[2][6])
}
