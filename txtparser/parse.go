// This file contains the top-level entry points, mirroring the teacher's
// parseProtected: parsing untrusted save data is wrapped in a recover()
// boundary so an implementation bug or unexpectedly malformed input never
// crashes the caller.
package txtparser

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"runtime"

	"github.com/go-eu4/eu4hist/save"
)

// ErrParsing indicates an unexpected panic occurred while parsing,
// typically due to a bug or a pathologically malformed input that slipped
// past the tokenizer's normal handling.
var ErrParsing = errors.New("txtparser: parsing error")

// HasHeader controls whether Parse strips a leading ASCII header line
// before handing the remainder to the object parser (spec.md §4.2's
// "Top-level parse": the save file has a one-line header; country, map
// metadata and province history files don't).
type HasHeader bool

const (
	// NoHeader parses data directly as a brace-format dict.
	NoHeader HasHeader = false
	// StripHeader discards everything up to and including the first
	// newline before parsing.
	StripHeader HasHeader = true
)

// Parse parses data as a top-level (file-scope) brace-format object,
// optionally stripping a one-line header first. It never returns a
// (*save.ParsedValue)(nil); a failed parse comes back as save.None along
// with a non-nil error only when a panic was recovered. Positional parse
// failures (malformed tokens, missing required fields) are represented by
// None values deeper in the tree, per spec.md §7's propagation policy:
// the parser itself never raises for those.
func Parse(data []byte, header HasHeader) (result *save.ParsedValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			log.Printf("txtparser: recovered panic: %v\n%s", r, buf[:n])
			result = save.None
			err = fmt.Errorf("%w: %v", ErrParsing, r)
		}
	}()

	if bool(header) {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			data = data[i+1:]
		} else {
			data = nil
		}
	}

	s := NewStream(data)
	return ParseObject(s, true), nil
}
