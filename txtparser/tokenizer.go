// This file implements the tokenizer (C1): a rewindable reader over an
// in-memory byte buffer holding one of the game's brace-delimited text
// files. Reading the whole file into memory up front (rather than chunked
// reads over an os.File) sidesteps the CRLF-translation rewind hazard
// spec.md §4.1/§9 calls out: a byte-exact seek-back is only reliable when
// the bytes themselves never get rewritten by the platform.
package txtparser

// marker describes how readToken should leave the stream position when it
// stops on a given terminating byte: at the terminator (rewind) or just
// past it.
type marker struct {
	present bool
	rewind  bool
}

// markerSet is a byte -> marker lookup, cheap to build as a fixed array
// since the format's terminators are all ASCII.
type markerSet [256]marker

func newMarkerSet(pairs ...struct {
	b      byte
	rewind bool
}) markerSet {
	var ms markerSet
	for _, p := range pairs {
		ms[p.b] = marker{present: true, rewind: p.rewind}
	}
	return ms
}

// Stream is a rewindable cursor over an in-memory byte buffer.
type Stream struct {
	b   []byte
	pos int
}

// NewStream wraps b for tokenizing. b is not copied; callers must not
// mutate it while the Stream is in use.
func NewStream(b []byte) *Stream {
	return &Stream{b: b}
}

// Pos returns the current read position, usable as a rewind point for the
// dict/array fallback in the object parser (spec.md §4.2).
func (s *Stream) Pos() int {
	return s.pos
}

// Seek moves the read position directly, used to rewind to a saved Pos().
func (s *Stream) Seek(pos int) {
	s.pos = pos
}

// AtEOF reports whether the stream is exhausted.
func (s *Stream) AtEOF() bool {
	return s.pos >= len(s.b)
}

// readToken accumulates bytes until it hits a byte in markers or EOF.
// It returns the accumulated bytes (excluding the terminator) and the
// terminating byte; eof is true and term is 0 on end of stream. Per
// spec.md §4.1, EOF is always treated as non-rewinding and the position is
// left at len(b) in that case; otherwise the position is left at the
// terminator (if its marker says rewind) or just past it.
func (s *Stream) readToken(markers markerSet) (token []byte, term byte, eof bool) {
	start := s.pos
	for s.pos < len(s.b) {
		c := s.b[s.pos]
		m := markers[c]
		if m.present {
			token = s.b[start:s.pos]
			term = c
			if m.rewind {
				// leave position at the terminator
			} else {
				s.pos++
			}
			return token, term, false
		}
		s.pos++
	}
	return s.b[start:s.pos], 0, true
}

var keyMarkers = newMarkerSet(
	struct {
		b      byte
		rewind bool
	}{'=', false},
	struct {
		b      byte
		rewind bool
	}{'{', true},
	struct {
		b      byte
		rewind bool
	}{'}', true},
)

var valueMarkers = newMarkerSet(
	struct {
		b      byte
		rewind bool
	}{'{', true},
	struct {
		b      byte
		rewind bool
	}{'}', true},
	struct {
		b      byte
		rewind bool
	}{'\n', false},
)

var arrayBodyMarkers = newMarkerSet(
	struct {
		b      byte
		rewind bool
	}{'=', true},
	struct {
		b      byte
		rewind bool
	}{'}', true},
)

// readKey reads up to the next '=' (not rewound), '{' or '}' (rewound),
// or EOF.
func (s *Stream) readKey() (key []byte, term byte, eof bool) {
	return s.readToken(keyMarkers)
}

// readValue reads up to the next '{' or '}' (rewound) or '\n' (not
// rewound), or EOF, skipping leading runs of blank newline-terminated
// tokens (spurious blank lines between entries).
func (s *Stream) readValue() (value []byte, term byte, eof bool) {
	for {
		value, term, eof = s.readToken(valueMarkers)
		if term == '\n' && len(trimSpace(value)) == 0 {
			continue
		}
		return value, term, eof
	}
}

// readArrayBody reads to the next '}' (the presence of an '=' before that
// signals the run is actually a dict, not an array; see parseObjectArray).
func (s *Stream) readArrayBody() (body []byte, term byte, eof bool) {
	return s.readToken(arrayBodyMarkers)
}

// trimSpace trims ASCII whitespace from both ends without allocating for
// the common all-whitespace or already-trimmed case.
func trimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpace(b[i]) {
		i++
	}
	for j > i && isSpace(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}
