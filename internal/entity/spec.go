package entity

import "strings"

// Field names one attribute of a product spec. The value doubles as the JSON key.
type Field string

const (
	FieldStyleNumber Field = "styleNumber"
	FieldDescription Field = "description"
	FieldTechnique   Field = "technique"
	FieldContent     Field = "content"
	FieldSize        Field = "size"
	FieldSeason      Field = "season"
	FieldTheme       Field = "theme"
	FieldCountry     Field = "country"
)

// AllFields is the fixed output order of a record.
var AllFields = []Field{
	FieldStyleNumber,
	FieldDescription,
	FieldTechnique,
	FieldContent,
	FieldSize,
	FieldSeason,
	FieldTheme,
	FieldCountry,
}

// RequiredFields is the completeness contract; theme and country are optional.
var RequiredFields = []Field{
	FieldStyleNumber,
	FieldDescription,
	FieldTechnique,
	FieldContent,
	FieldSize,
	FieldSeason,
}

// ExtractedSpec is the specs.json record of one slide. Empty fields are omitted
// from the JSON document, never written as "".
type ExtractedSpec struct {
	StyleNumber string `json:"styleNumber,omitempty"`
	Description string `json:"description,omitempty"`
	Technique   string `json:"technique,omitempty"`
	Content     string `json:"content,omitempty"`
	Size        string `json:"size,omitempty"`
	Season      string `json:"season,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Country     string `json:"country,omitempty"`
}

func (s *ExtractedSpec) slot(f Field) *string {
	switch f {
	case FieldStyleNumber:
		return &s.StyleNumber
	case FieldDescription:
		return &s.Description
	case FieldTechnique:
		return &s.Technique
	case FieldContent:
		return &s.Content
	case FieldSize:
		return &s.Size
	case FieldSeason:
		return &s.Season
	case FieldTheme:
		return &s.Theme
	case FieldCountry:
		return &s.Country
	}
	return nil
}

// Get returns the value of f, or "" for an unknown field.
func (s ExtractedSpec) Get(f Field) string {
	if p := s.slot(f); p != nil {
		return *p
	}
	return ""
}

// Has reports whether f carries a non-blank value.
func (s ExtractedSpec) Has(f Field) bool {
	return strings.TrimSpace(s.Get(f)) != ""
}

// SetOnce stores v into f if f is still empty and v is non-empty.
// It reports whether the value was stored.
func (s *ExtractedSpec) SetOnce(f Field, v string) bool {
	p := s.slot(f)
	if p == nil || *p != "" || v == "" {
		return false
	}
	*p = v
	return true
}

// Missing returns the required fields that are absent or blank, in record order.
func (s ExtractedSpec) Missing() []Field {
	var out []Field
	for _, f := range RequiredFields {
		if !s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no field at all was extracted.
func (s ExtractedSpec) IsEmpty() bool {
	for _, f := range AllFields {
		if s.Has(f) {
			return false
		}
	}
	return true
}

// FieldNames converts fields to their string keys.
func FieldNames(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
