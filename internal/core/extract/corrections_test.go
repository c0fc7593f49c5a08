package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrect_KnownMisreads(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wovem", "WOVEN"},
		{"JACQUARO", "JACQUARD"},
		{"COTTO N JUT E", "COTTON JUTE"},
		{"POLYEST E R", "POLYESTER"},
		{"EVERY DAY", "EVERYDAY"},
		{"CHRISTM AS", "CHRISTMAS"},
		{"TRADITIO NAL", "TRADITIONAL"},
		{"MADE IN DIA", "MADE INDIA"},
		{"DESC RIPT ION", "DESCRIPTION"},
		{"TECHNI QUE", "TECHNIQUE"},
		{"SEA SON", "SEASON"},
		{"STYLE#: ABC", "STYLE # ABC"},
		{"SIZE SO X SO", "SIZE 90 X 90"},
		{"S0", "90"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Correct(tt.in))
		})
	}
}

func TestCorrect_LeavesLongerTokensAlone(t *testing.T) {
	assert.Equal(t, "ALSO SOFT", Correct("also soft"))
	assert.Equal(t, "JUTES", Correct("JUTES"))
	assert.Equal(t, "INDIANA", Correct("INDIANA"))
	assert.Equal(t, "S0XS0", Correct("S0XS0"))
}

func TestCorrect_Idempotent(t *testing.T) {
	corpus := []string{
		"",
		"COTTON N N N",
		"JUTE E E E E",
		"JUT",
		"TERY EV",
		"STYLE#",
		"STYLE # : : X",
		"S O S O",
		"EVERY DA Y CHRISTM A S",
		"DESCRIPTION RUG SO SOFT",
		"ACRYL 1C + POLYEST ER\nIN D IA",
		"STYLE # CHD-BD-1002\nDESCRIPTION STRIPED THROW\nTECHNIQUE WOVEN\nCONTENT COTTON\nSIZE 50X60\nSEASON EVERYDAY",
	}
	for _, c := range Corrections {
		corpus = append(corpus, c.Replace, c.Pattern.String())
	}
	for _, s := range corpus {
		once := Correct(s)
		assert.Equal(t, once, Correct(once), "input %q", s)
	}
}

func TestCorrectionsIn_EveryGroupPopulated(t *testing.T) {
	for _, g := range []string{GroupMaterials, GroupSeasons, GroupLocations, GroupLabels, GroupNumerics} {
		assert.NotEmpty(t, CorrectionsIn(g), g)
	}
}
