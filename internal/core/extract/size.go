package extract

import (
	"regexp"
	"strings"
)

var (
	reSizeNinetyPair = regexp.MustCompile(`S[O0]XS[O0]`)
	reSizeDigitRun   = regexp.MustCompile(`\d{4,}`)
	reSizeJunk       = regexp.MustCompile(`[^0-9*]`)
	reSizeStars      = regexp.MustCompile(`\*{2,}`)
	reSizeValid      = regexp.MustCompile(`^\d+(?:\*\d+)+$`)
)

// NormalizeSize rebuilds a W*H" dimension from a noisy capture. It reports false
// when no width/height separator can be recovered; callers must then leave the
// size unset rather than store a malformed value.
func NormalizeSize(raw string) (string, bool) {
	s := strings.Join(strings.Fields(strings.ToUpper(raw)), "")

	s = reSizeNinetyPair.ReplaceAllString(s, "90*90")
	s = replaceLoneNinety(s)
	s = fixDigitLookalikes(s)
	s = strings.ReplaceAll(s, "X", "*")

	if !strings.Contains(s, "*") {
		if loc := reSizeDigitRun.FindStringIndex(s); loc != nil {
			mid := loc[0] + (loc[1]-loc[0])/2
			s = s[:mid] + "*" + s[mid:]
		}
	}

	s = reSizeJunk.ReplaceAllString(s, "")
	s = reSizeStars.ReplaceAllString(s, "*")
	s = strings.Trim(s, "*")
	if !reSizeValid.MatchString(s) {
		return "", false
	}
	return s + `"`, true
}

// replaceLoneNinety rewrites SO/S0 to 90 when it is not part of a word. X is
// treated as a separator rather than a letter, so "SOX60" becomes "90X60".
func replaceLoneNinety(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 'S' && i+1 < len(s) && (s[i+1] == 'O' || s[i+1] == '0') &&
			!wordLetterAt(s, i-1) && !wordLetterAt(s, i+2) {
			b.WriteString("90")
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func wordLetterAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'A' && c <= 'Z' && c != 'X'
}

var lookalikes = map[byte]byte{'O': '0', 'I': '1', 'Z': '2'}

// fixDigitLookalikes turns O, I and Z into digits only when they touch a digit,
// '*', 'X' or '"'. It repeats until stable so runs like "OO5" resolve fully.
func fixDigitLookalikes(s string) string {
	b := []byte(s)
	for changed := true; changed; {
		changed = false
		for i, c := range b {
			d, ok := lookalikes[c]
			if !ok {
				continue
			}
			if sizeAnchor(b, i-1) || sizeAnchor(b, i+1) {
				b[i] = d
				changed = true
			}
		}
	}
	return string(b)
}

func sizeAnchor(b []byte, i int) bool {
	if i < 0 || i >= len(b) {
		return false
	}
	c := b[i]
	return (c >= '0' && c <= '9') || c == '*' || c == 'X' || c == '"'
}
