package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
	"github.com/joseph-ayodele/catalog-specs/internal/ui"
)

const complete = `{"styleNumber":"A-1","description":"RUG","technique":"WOVEN","content":"JUTE","size":"90*90\"","season":"EVERYDAY"}`

func slide(t *testing.T, root, category string, n int, specs *string) {
	t.Helper()
	dir := filepath.Join(root, category, fmt.Sprintf("slide_%d", n))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if specs != nil {
		require.NoError(t, os.WriteFile(filepath.Join(dir, constants.SpecsFileName), []byte(*specs), 0o644))
	}
}

func ptr(s string) *string { return &s }

func newAuditor(t *testing.T, root string, categories ...string) *Auditor {
	t.Helper()
	a, err := NewAuditor(nil, Config{AssetsRoot: root, Categories: categories, Concurrency: 3}, repository.NewSpecStore(nil))
	require.NoError(t, err)
	return a
}

func TestClassify_CompletenessContract(t *testing.T) {
	a := newAuditor(t, t.TempDir())

	tests := []struct {
		name    string
		drop    []entity.Field
		blank   []entity.Field
		missing []string
	}{
		{name: "complete", missing: nil},
		{name: "one absent", drop: []entity.Field{entity.FieldSize}, missing: []string{"size"}},
		{name: "blank counts as absent", blank: []entity.Field{entity.FieldDescription}, missing: []string{"description"}},
		{name: "optional fields ignored", drop: []entity.Field{entity.FieldTheme, entity.FieldCountry}, missing: nil},
		{
			name:    "several",
			drop:    []entity.Field{entity.FieldStyleNumber, entity.FieldSeason},
			blank:   []entity.Field{entity.FieldContent},
			missing: []string{"styleNumber", "content", "season"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := map[string]string{}
			for _, f := range entity.AllFields {
				doc[string(f)] = "X"
			}
			for _, f := range tc.drop {
				delete(doc, string(f))
			}
			for _, f := range tc.blank {
				doc[string(f)] = "  "
			}
			b, err := json.Marshal(doc)
			require.NoError(t, err)

			dir := t.TempDir()
			item := entity.Item{Category: "rugs", Slide: 4, Dir: dir, SpecsPath: filepath.Join(dir, constants.SpecsFileName)}
			require.NoError(t, os.WriteFile(item.SpecsPath, b, 0o644))

			is := a.Classify(item)
			if tc.missing == nil {
				assert.Nil(t, is)
				return
			}
			require.NotNil(t, is)
			assert.Equal(t, constants.IssueMissingFields, is.Type)
			assert.Equal(t, tc.missing, is.MissingFields)
		})
	}
}

func TestClassify_ParseErrors(t *testing.T) {
	a := newAuditor(t, t.TempDir())
	for name, body := range map[string]string{
		"not json":        `{"styleNumber": `,
		"not an object":   `["A-1"]`,
		"non-string size": `{"styleNumber":"A-1","size":90}`,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			item := entity.Item{Category: "rugs", Slide: 1, SpecsPath: filepath.Join(dir, constants.SpecsFileName)}
			require.NoError(t, os.WriteFile(item.SpecsPath, []byte(body), 0o644))

			is := a.Classify(item)
			require.NotNil(t, is)
			assert.Equal(t, constants.IssueParseError, is.Type)
			assert.Empty(t, is.MissingFields)
		})
	}
}

func TestRun_ReportAndFile(t *testing.T) {
	root := t.TempDir()
	slide(t, root, "rugs", 10, ptr(complete))
	slide(t, root, "rugs", 2, nil)
	slide(t, root, "rugs", 1, ptr(`{"styleNumber":"A-1","description":"RUG"}`))
	slide(t, root, "cushion", 1, ptr(`oops`))

	a := newAuditor(t, root, "rugs", "placemat", "cushion")
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalSlides)
	assert.Equal(t, 3, report.TotalWithIssues)
	assert.Equal(t, 1, report.SlidesOK)
	assert.Equal(t, []string{"placemat"}, report.MissingCategories)
	require.Len(t, report.Issues, 3)
	assert.Equal(t, Issue{
		Category: "rugs", Slide: 1, Type: constants.IssueMissingFields,
		Message:       "Missing: technique, content, size, season",
		MissingFields: []string{"technique", "content", "size", "season"},
	}, report.Issues[0])
	assert.Equal(t, Issue{
		Category: "rugs", Slide: 2, Type: constants.IssueMissingFile,
		Message: "specs.json file does not exist",
	}, report.Issues[1])
	assert.Equal(t, "cushion", report.Issues[2].Category)
	assert.Equal(t, constants.IssueParseError, report.Issues[2].Type)

	path := filepath.Join(t.TempDir(), "specs-issues.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, WriteReport(path, report))

	var decoded map[string]any
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.EqualValues(t, 4, decoded["totalSlides"])
	assert.EqualValues(t, 1, decoded["slidesOk"])
	assert.Equal(t, report.RunID, decoded["runId"])
	issues := decoded["issues"].([]any)
	assert.Len(t, issues, 3)
	assert.NotContains(t, issues[1].(map[string]any), "missingFields")

	// audit is read-only
	b, _ = os.ReadFile(filepath.Join(root, "rugs", "slide_10", constants.SpecsFileName))
	assert.Equal(t, complete, string(b))
}

func TestWriteReport_EmptyIssuesIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, WriteReport(path, &Report{RunID: "x"}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"issues": []`)
}

func TestRender(t *testing.T) {
	report := &Report{
		TotalSlides: 3, TotalWithIssues: 2, SlidesOK: 1,
		Issues: []Issue{
			{Category: "rugs", Slide: 1, Type: constants.IssueMissingFields, Message: "Missing: size", MissingFields: []string{"size"}},
			{Category: "rugs", Slide: 2, Type: constants.IssueMissingFile, Message: "specs.json file does not exist"},
		},
	}
	var buf bytes.Buffer
	Render(ui.NewConsole(&buf, true), report, "specs-issues.json")
	out := buf.String()

	assert.Contains(t, out, "Total slides checked:  3")
	assert.Contains(t, out, "rugs/slide_002: specs.json file does not exist")
	assert.Contains(t, out, "Missing fields by category:")
	assert.Contains(t, out, "styleNumber")
	assert.Contains(t, out, "Issues exported to: specs-issues.json")

	gaps := report.Gaps()
	require.Len(t, gaps, 1)
	assert.Equal(t, 1, gaps[0].Missing["size"])
}
