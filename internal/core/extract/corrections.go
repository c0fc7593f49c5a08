package extract

import (
	"regexp"
	"strings"
)

// Correction groups.
const (
	GroupMaterials = "materials"
	GroupSeasons   = "seasons"
	GroupLocations = "locations"
	GroupLabels    = "labels"
	GroupNumerics  = "numerics"
)

// Correction is one known OCR misreading and its canonical spelling.
type Correction struct {
	Group   string
	Pattern *regexp.Regexp
	Replace string
}

func fix(group, pattern, replace string) Correction {
	return Correction{Group: group, Pattern: regexp.MustCompile(`(?i)` + pattern), Replace: replace}
}

// Corrections is applied in order. Every pattern is anchored on word boundaries
// so it never rewrites the inside of a longer token.
var Corrections = []Correction{
	fix(GroupMaterials, `\bWOVEM\b`, "WOVEN"),
	fix(GroupMaterials, `\bCORTON\b`, "COTTON"),
	fix(GroupMaterials, `\bCOTTO\b`, "COTTON"),
	fix(GroupMaterials, `\bCOTTO\s*N\b`, "COTTON"),
	fix(GroupMaterials, `\bCOTTON\s*N\b`, "COTTON"),
	fix(GroupMaterials, `\bCOTTON\s*O\b`, "COTTON"),
	fix(GroupMaterials, `\bJUT\b`, "JUTE"),
	fix(GroupMaterials, `\bJUT\s*E\b`, "JUTE"),
	fix(GroupMaterials, `\bJUTE\s*E\b`, "JUTE"),
	fix(GroupMaterials, `\bJACQUARO\b`, "JACQUARD"),
	fix(GroupMaterials, `\bJACQUAR\s*D\b`, "JACQUARD"),
	fix(GroupMaterials, `\bLINEM\b`, "LINEN"),
	fix(GroupMaterials, `\bLINEN\s*N\b`, "LINEN"),
	fix(GroupMaterials, `\bACRYL\s*IC\b`, "ACRYLIC"),
	fix(GroupMaterials, `\bACRYL\s*1C\b`, "ACRYLIC"),
	fix(GroupMaterials, `\bPOLYEST\s*ER\b`, "POLYESTER"),
	fix(GroupMaterials, `\bPOLYEST\s*E\s*R\b`, "POLYESTER"),
	fix(GroupMaterials, `\bMICROFI\s*BER\b`, "MICROFIBER"),
	fix(GroupMaterials, `\bMICROFI\s*B\s*ER\b`, "MICROFIBER"),

	fix(GroupSeasons, `\bEVERY\s*DAY\b`, "EVERYDAY"),
	fix(GroupSeasons, `\bEVERY\s*OAY\b`, "EVERYDAY"),
	fix(GroupSeasons, `\bEVERY\s*DA\s*Y\b`, "EVERYDAY"),
	fix(GroupSeasons, `\bEVERY\s*O\s*AY\b`, "EVERYDAY"),
	fix(GroupSeasons, `\bTERY\s*EV\b`, "EVERYDAY"),
	fix(GroupSeasons, `\bCHRISTM\s*AS\b`, "CHRISTMAS"),
	fix(GroupSeasons, `\bCHRISTM\s*A\s*S\b`, "CHRISTMAS"),
	fix(GroupSeasons, `\bMODER\s*N\b`, "MODERN"),
	fix(GroupSeasons, `\bMODER\s*M\b`, "MODERN"),
	fix(GroupSeasons, `\bTRADITIO\s*NAL\b`, "TRADITIONAL"),
	fix(GroupSeasons, `\bTRADITIO\s*N\s*AL\b`, "TRADITIONAL"),

	fix(GroupLocations, `\bIN\s*DIA\b`, "INDIA"),
	fix(GroupLocations, `\bIN\s*D\s*IA\b`, "INDIA"),

	fix(GroupLabels, `\bSTYLE\s*#\b`, "STYLE #"),
	fix(GroupLabels, `\bSTYLE\s*#\s*:\s*`, "STYLE # "),
	fix(GroupLabels, `\bDESC\s*R\s*IPT\s*ION\b`, "DESCRIPTION"),
	fix(GroupLabels, `\bDESC\s*RIPT\s*ION\b`, "DESCRIPTION"),
	fix(GroupLabels, `\bDESC\s*R\s*IPT\s*I\s*ON\b`, "DESCRIPTION"),
	fix(GroupLabels, `\bTECHNI\s*QUE\b`, "TECHNIQUE"),
	fix(GroupLabels, `\bCON\s*TENT\b`, "CONTENT"),
	fix(GroupLabels, `\bS1ZE\b`, "SIZE"),
	fix(GroupLabels, `\bSEA\s*SON\b`, "SEASON"),

	// "90" read as letters; only as an isolated token.
	fix(GroupNumerics, `\bS[O0]\b`, "90"),
	fix(GroupNumerics, `\bS\s+O\b`, "90"),
}

// Correct upper-cases text and applies the correction table until the text stops
// changing, so Correct(Correct(s)) == Correct(s).
func Correct(text string) string {
	return CorrectWith(Corrections, text)
}

// CorrectWith is Correct over a caller supplied table.
func CorrectWith(table []Correction, text string) string {
	fixed := strings.ToUpper(text)
	// Every rule either shrinks the text or rewrites it into a canonical word
	// that no rule matches again, so the loop converges well before this bound.
	for pass := 0; pass <= len(fixed)+len(table); pass++ {
		next := applyOnce(table, fixed)
		if next == fixed {
			break
		}
		fixed = next
	}
	return fixed
}

func applyOnce(table []Correction, text string) string {
	for _, c := range table {
		text = c.Pattern.ReplaceAllLiteralString(text, c.Replace)
	}
	return text
}

// CorrectionsIn returns the table entries of one group.
func CorrectionsIn(group string) []Correction {
	var out []Correction
	for _, c := range Corrections {
		if c.Group == group {
			out = append(out, c)
		}
	}
	return out
}
