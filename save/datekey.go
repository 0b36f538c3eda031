package save

import (
	"strconv"
	"strings"
)

// ParseDateKey parses a "Y.M.D" map key as found in history sub-maps
// (spec.md §4.7: "keeping only entries whose key parses as a date").
// This mirrors txtparser's own date recognition rule but lives here,
// since history keys arrive as map keys rather than tokens run through
// the tokenizer.
func ParseDateKey(s string) (Date, bool) {
	if strings.Count(s, ".") != 2 {
		return Date{}, false
	}
	parts := strings.SplitN(s, ".", 3)
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, false
	}
	return Date{Y: y, M: m, D: d}, true
}
