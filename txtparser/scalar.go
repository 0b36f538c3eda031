// This file implements scalar coercion (C3): classifying a raw token as a
// date, quoted string, boolean, integer, float, or bare string.
package txtparser

import (
	"strconv"
	"strings"

	"github.com/go-eu4/eu4hist/save"
)

// ParseToken classifies a trimmed, possibly-quoted token per spec.md §4.3
// and returns the coerced Go value: save.Date, string, bool, int64,
// float64, or string (the bare-string fallback). s is expected to already
// be whitespace-trimmed; ParseToken trims surrounding double quotes itself.
func ParseToken(s string) any {
	quoted := false
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		quoted = true
	}

	if d, ok := parseDate(s); ok {
		return d
	}
	if quoted {
		return s
	}
	switch s {
	case "yes":
		return true
	case "no":
		return false
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

// parseDate recognises "Y.M.D" where each part is a decimal integer and
// there are exactly two '.' separators.
func parseDate(s string) (save.Date, bool) {
	if strings.Count(s, ".") != 2 {
		return save.Date{}, false
	}
	parts := strings.SplitN(s, ".", 3)
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return save.Date{}, false
	}
	return save.Date{Y: y, M: m, D: d}, true
}
