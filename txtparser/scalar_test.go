package txtparser

import (
	"testing"

	"github.com/go-eu4/eu4hist/save"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{`"Paris"`, "Paris"},
		{`1444.11.11`, save.Date{Y: 1444, M: 11, D: 11}},
		{`yes`, true},
		{`no`, false},
		{`3.5`, 3.5},
		{`42`, int64(42)},
		{`FRA`, "FRA"},
		{`"12"`, "12"}, // quoted integer-looking token stays a string
	}

	for _, c := range cases {
		got := ParseToken(c.in)
		if got != c.want {
			t.Errorf("ParseToken(%q): expected %#v (%T), got %#v (%T)", c.in, c.want, c.want, got, got)
		}
	}
}
