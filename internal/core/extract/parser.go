package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reTrailPunct = regexp.MustCompile(`[.,;:]+$`)
	reStyleValue = regexp.MustCompile(`\bSTYLE\b\s*#?\s*:?\s*([A-Z0-9-]+)`)
	reStyleChars = regexp.MustCompile(`[^A-Z0-9-]`)
	reLetters3   = regexp.MustCompile(`[A-Z]{3,}`)
	reLetters4   = regexp.MustCompile(`[A-Z]{4,}`)
)

// SplitLines breaks text into trimmed, non-empty lines in their original order.
func SplitLines(text string) []string {
	text = reCRLF.ReplaceAllString(text, "\n")
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// normalizeValue trims, collapses whitespace, upper-cases and drops trailing
// punctuation left behind by table borders.
func normalizeValue(v string) string {
	v = reSpaces.ReplaceAllString(strings.TrimSpace(v), " ")
	v = strings.ToUpper(v)
	return strings.TrimSpace(reTrailPunct.ReplaceAllString(v, ""))
}

// rule attempts one field on line i. consumed=true means the line belongs to
// this field even when value is empty (rejected); no later rule sees the line.
type rule struct {
	field entity.Field
	apply func(lines []string, i int, spec entity.ExtractedSpec) (value string, consumed bool)
}

// Parser turns one OCR text blob into an ExtractedSpec.
type Parser struct {
	logger *slog.Logger
	rules  []rule
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, rules: defaultRules()}
}

// Parse corrects the text, splits it into lines and folds the field rules over them.
// Each field is set at most once: the first line that satisfies it wins.
func (p *Parser) Parse(text string) entity.ExtractedSpec {
	lines := SplitLines(Correct(text))

	var spec entity.ExtractedSpec
	for i := range lines {
		spec = p.step(lines, i, spec)
	}

	p.logger.Debug("extract.parse.done",
		"lines", len(lines),
		"fields", len(entity.AllFields)-len(missingAll(spec)),
		"missing_required", entity.FieldNames(spec.Missing()),
	)
	return spec
}

// step runs the rules of still-empty fields against line i, in field order.
func (p *Parser) step(lines []string, i int, spec entity.ExtractedSpec) entity.ExtractedSpec {
	for _, r := range p.rules {
		if spec.Has(r.field) {
			continue
		}
		value, consumed := r.apply(lines, i, spec)
		if !consumed {
			continue
		}
		spec.SetOnce(r.field, value)
		return spec
	}
	return spec
}

func missingAll(spec entity.ExtractedSpec) []entity.Field {
	var out []entity.Field
	for _, f := range entity.AllFields {
		if !spec.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func defaultRules() []rule {
	styleTrigger := compileField(entity.FieldStyleNumber).trigger
	desc := compileField(entity.FieldDescription)
	technique := compileField(entity.FieldTechnique)
	content := compileField(entity.FieldContent)
	size := compileField(entity.FieldSize)
	season := compileField(entity.FieldSeason)
	theme := compileField(entity.FieldTheme)
	country := compileField(entity.FieldCountry)

	return []rule{
		{entity.FieldStyleNumber, func(lines []string, i int, _ entity.ExtractedSpec) (string, bool) {
			line := lines[i]
			if !styleTrigger.MatchString(line) {
				return "", false
			}
			m := reStyleValue.FindStringSubmatch(line)
			if m == nil {
				return "", false
			}
			return reStyleChars.ReplaceAllString(strings.ToUpper(m[1]), ""), true
		}},
		{entity.FieldDescription, func(lines []string, i int, spec entity.ExtractedSpec) (string, bool) {
			return describe(lines, i, spec, desc, styleTrigger)
		}},
		{entity.FieldTechnique, textRule(technique, 1, false)},
		{entity.FieldContent, textRule(content, 1, false)},
		{entity.FieldSize, func(lines []string, i int, _ entity.ExtractedSpec) (string, bool) {
			if !size.trigger.MatchString(lines[i]) {
				return "", false
			}
			raw, ok := size.value(lines[i])
			if !ok {
				return "", false
			}
			v, _ := NormalizeSize(raw)
			return v, true
		}},
		{entity.FieldSeason, textRule(season, 1, true)},
		{entity.FieldTheme, textRule(theme, 2, true)},
		{entity.FieldCountry, textRule(country, 2, true)},
	}
}

// textRule captures a labelled free-text value, corrects it and normalizes it.
// Values shorter than minLen, or equal to a label when rejectLabels is set, are
// dropped while the line still counts as consumed.
func textRule(p fieldPatterns, minLen int, rejectLabels bool) func([]string, int, entity.ExtractedSpec) (string, bool) {
	return func(lines []string, i int, _ entity.ExtractedSpec) (string, bool) {
		if !p.trigger.MatchString(lines[i]) {
			return "", false
		}
		raw, ok := p.value(lines[i])
		if !ok {
			return "", false
		}
		v := normalizeValue(Correct(raw))
		if len(v) < minLen || (rejectLabels && isLabel(v)) {
			return "", true
		}
		return v, true
	}
}

// describe tries the three description strategies in order: an explicit label,
// the prose line right after STYLE, then an early unlabelled block of text.
func describe(lines []string, i int, spec entity.ExtractedSpec, p fieldPatterns, styleTrigger *regexp.Regexp) (string, bool) {
	line := lines[i]

	if p.trigger.MatchString(line) {
		if v, ok := p.value(line); ok && len(v) > 2 {
			return normalizeValue(Correct(v)), true
		}
		if follow := collect(lines, i+1, i+5); len(follow) > 2 {
			return normalizeValue(Correct(follow)), true
		}
	}

	if styleTrigger.MatchString(line) && i+1 < len(lines) {
		next := lines[i+1]
		if !startsWithLabel(next) && reLetters3.MatchString(next) && len(next) > 5 {
			d := strings.TrimSpace(next + " " + collect(lines, i+2, i+4))
			if v := normalizeValue(Correct(d)); len(d) > 5 && len(v) > 5 {
				return v, true
			}
		}
	}

	if i < 3 && !startsWithLabel(line) && len(line) > 10 && reLetters4.MatchString(line) &&
		!spec.Has(entity.FieldStyleNumber) && !spec.Has(entity.FieldTechnique) {
		d := strings.TrimSpace(line + " " + collect(lines, i+1, i+3))
		if v := normalizeValue(Correct(d)); len(d) > 10 && len(v) > 10 {
			return v, true
		}
	}

	return "", false
}

// collect joins lines[from:to) with spaces, stopping at the first labelled line.
func collect(lines []string, from, to int) string {
	if to > len(lines) {
		to = len(lines)
	}
	var parts []string
	for j := from; j < to; j++ {
		if startsWithLabel(lines[j]) {
			break
		}
		parts = append(parts, lines[j])
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
