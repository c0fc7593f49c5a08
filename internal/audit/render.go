package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/ui"
)

// FieldGaps counts, per category, how many slides miss each required field.
type FieldGaps struct {
	Category string
	Slides   int
	Missing  map[string]int
}

// Gaps aggregates missing_fields issues per category, in category order.
func (r *Report) Gaps() []FieldGaps {
	idx := make(map[string]int)
	var out []FieldGaps
	for _, is := range r.ByKind(constants.IssueMissingFields) {
		i, ok := idx[is.Category]
		if !ok {
			i = len(out)
			idx[is.Category] = i
			out = append(out, FieldGaps{Category: is.Category, Missing: make(map[string]int)})
		}
		out[i].Slides++
		for _, f := range is.MissingFields {
			out[i].Missing[f]++
		}
	}
	return out
}

// Render prints the summary, the per-category breakdown and the issue list.
func Render(c *ui.Console, r *Report, reportPath string) {
	for _, cat := range r.MissingCategories {
		c.Warning(cat, "category folder not found")
	}

	c.Summary("SUMMARY",
		ui.Stat{Label: "Total slides checked", Value: r.TotalSlides},
		ui.Stat{Label: "Slides with issues", Value: r.TotalWithIssues},
		ui.Stat{Label: "Slides OK", Value: r.SlidesOK},
	)

	if gaps := r.Gaps(); len(gaps) > 0 {
		fmt.Fprintln(c.Writer(), "\nMissing fields by category:")
		renderGaps(c.Writer(), gaps)
	}

	if len(r.Issues) == 0 {
		c.Success("audit", "all slides have all required fields")
		return
	}

	for _, kind := range []constants.IssueKind{constants.IssueMissingFile, constants.IssueParseError, constants.IssueMissingFields} {
		issues := r.ByKind(kind)
		if len(issues) == 0 {
			continue
		}
		c.Info("%s (%d)", kindTitle(kind), len(issues))
		for _, is := range issues {
			label := entity.Item{Category: is.Category, Slide: is.Slide}.Label()
			c.Warning(label, is.Message)
		}
	}

	c.Summary("QUICK FIX SUGGESTIONS",
		ui.Stat{Label: "1", Value: "Re-run extraction: specs extract --force"},
		ui.Stat{Label: "2", Value: "For slides missing description, check if it exists in the table image"},
		ui.Stat{Label: "3", Value: "Manually edit specs.json files for any remaining issues"},
	)
	if reportPath != "" {
		c.Info("Issues exported to: %s", reportPath)
	}
}

func renderGaps(w io.Writer, gaps []FieldGaps) {
	header := []string{"Category", "Slides"}
	for _, f := range entity.RequiredFields {
		header = append(header, string(f))
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	for _, g := range gaps {
		row := []string{g.Category, strconv.Itoa(g.Slides)}
		for _, f := range entity.RequiredFields {
			n := g.Missing[string(f)]
			cell := "-"
			if n > 0 {
				cell = strconv.Itoa(n)
			}
			row = append(row, cell)
		}
		table.Append(row)
	}
	table.Render()
}

func kindTitle(kind constants.IssueKind) string {
	switch kind {
	case constants.IssueMissingFile:
		return "Missing specs.json files"
	case constants.IssueParseError:
		return "Parse errors"
	case constants.IssueMissingFields:
		return "Missing required fields"
	default:
		return strings.ReplaceAll(string(kind), "_", " ")
	}
}
