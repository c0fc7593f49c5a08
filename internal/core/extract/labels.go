package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

// fieldLabels are the printed table labels of each field. DESC is the short form
// some tables use for DESCRIPTION; it is listed after it so the longer word wins.
var fieldLabels = map[entity.Field][]string{
	entity.FieldStyleNumber: {"STYLE"},
	entity.FieldDescription: {"DESCRIPTION", "DESC"},
	entity.FieldTechnique:   {"TECHNIQUE"},
	entity.FieldContent:     {"CONTENT"},
	entity.FieldSize:        {"SIZE"},
	entity.FieldSeason:      {"SEASON"},
	entity.FieldTheme:       {"THEME"},
	entity.FieldCountry:     {"COUNTRY"},
}

var allLabels = func() []string {
	var out []string
	for _, f := range entity.AllFields {
		out = append(out, fieldLabels[f]...)
	}
	return out
}()

var reLeadingLabel = regexp.MustCompile(`^(?:` + strings.Join(allLabels, "|") + `)`)

// startsWithLabel reports whether a line begins with any field label.
func startsWithLabel(line string) bool {
	return reLeadingLabel.MatchString(line)
}

// isLabel reports whether v is exactly a label word.
func isLabel(v string) bool {
	for _, l := range allLabels {
		if v == l {
			return true
		}
	}
	return false
}

// stopLabels returns every label except those of f.
func stopLabels(f entity.Field) []string {
	own := map[string]struct{}{}
	for _, l := range fieldLabels[f] {
		own[l] = struct{}{}
	}
	var out []string
	for _, l := range allLabels {
		if _, skip := own[l]; !skip {
			out = append(out, l)
		}
	}
	return out
}

// fieldPatterns holds the compiled matchers of one labelled field.
type fieldPatterns struct {
	trigger *regexp.Regexp // label present somewhere in the line
	capture *regexp.Regexp // label, optional colon, value up to the next label or EOL
	residue *regexp.Regexp // a stray label glued onto the captured value
}

func compileField(f entity.Field) fieldPatterns {
	own := `\b(?:` + strings.Join(fieldLabels[f], "|") + `)\b`
	stops := `(?:` + strings.Join(stopLabels(f), "|") + `)\b`
	return fieldPatterns{
		trigger: regexp.MustCompile(own),
		capture: regexp.MustCompile(own + `\s*:?\s*(.+?)(?:\s+` + stops + `|$)`),
		residue: regexp.MustCompile(`\s*\b` + stops + `.*$`),
	}
}

// value returns the trimmed span after the label, or ok=false when the line has
// no capturable value for this field.
func (p fieldPatterns) value(line string) (string, bool) {
	m := p.capture.FindStringSubmatch(line)
	if m == nil || m[1] == "" {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	v = strings.TrimSpace(p.residue.ReplaceAllString(v, ""))
	return v, true
}
