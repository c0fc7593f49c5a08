package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/catalog-specs/constants"
)

// Issue is one finding. MissingFields is set only for missing_fields issues.
type Issue struct {
	Category      string              `json:"category"`
	Slide         int                 `json:"slide"`
	Type          constants.IssueKind `json:"type"`
	Message       string              `json:"message"`
	MissingFields []string            `json:"missingFields,omitempty"`
}

// Report is the issues file; it is regenerated in full on every audit.
type Report struct {
	Generated       time.Time `json:"generated"`
	RunID           string    `json:"runId"`
	TotalSlides     int       `json:"totalSlides"`
	TotalWithIssues int       `json:"totalWithIssues"`
	SlidesOK        int       `json:"slidesOk"`
	Issues          []Issue   `json:"issues"`

	// console-only details
	Categories        []string `json:"-"`
	MissingCategories []string `json:"-"`
}

// ByKind returns the issues of one kind in report order.
func (r *Report) ByKind(kind constants.IssueKind) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Type == kind {
			out = append(out, is)
		}
	}
	return out
}

// WriteReport overwrites path with the report as indented JSON.
func WriteReport(path string, r *Report) error {
	issues := r.Issues
	if issues == nil {
		issues = []Issue{}
	}
	out := *r
	out.Issues = issues
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
