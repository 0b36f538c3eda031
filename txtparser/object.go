// This file implements the object parser (C2): ParseObject commits to
// parsing a dict first, and falls back to parsing an array on failure,
// because the top level of every file in this format is a dict but the
// format itself decides dict-vs-array by content, not syntax (spec.md
// §4.2, §9).
package txtparser

import (
	"bytes"

	"github.com/go-eu4/eu4hist/save"
)

// dictStatus is the internal three-way outcome of parseObjectDict.
type dictStatus byte

const (
	dictSuccess dictStatus = iota
	// dictRetryArray means the content at this position isn't a dict;
	// the caller should rewind and try parseObjectArray.
	dictRetryArray
	// dictFail means the content is definitively corrupt (e.g. an
	// empty value before a closing brace); the result is None, not a
	// retry.
	dictFail
)

// ParseObject parses a tree rooted at the stream's current position.
// allowEOF must be true only for the top-level (file-scope) call; nested
// objects are always parsed with allowEOF=false, since arrays and
// unterminated dicts never legitimately occur at file scope (spec.md
// §4.2). It never panics past its own boundary in well-formed inputs; see
// Parse for the recover() guard used at the true entry point.
func ParseObject(s *Stream, allowEOF bool) *save.ParsedValue {
	start := s.Pos()
	v, status := parseObjectDict(s, allowEOF)
	switch status {
	case dictSuccess:
		return v
	case dictFail:
		return save.None
	default: // dictRetryArray
		s.Seek(start)
		return parseObjectArray(s)
	}
}

func parseObjectDict(s *Stream, allowEOF bool) (*save.ParsedValue, dictStatus) {
	result := save.NewMap()

	for {
		keyRaw, kterm, keof := s.readKey()
		key := string(trimSpace(keyRaw))

		switch {
		case keof && key == "":
			if !allowEOF {
				return nil, dictFail
			}
			if len(result.Keys()) == 0 {
				return nil, dictRetryArray
			}
			return result, dictSuccess

		case kterm == '}' && key == "":
			if len(result.Keys()) == 0 {
				return nil, dictRetryArray
			}
			return result, dictSuccess

		case kterm == '{' && key == "":
			// Extraneous empty-or-any object: parse and discard it.
			consumeOpeningBrace(s)
			ParseObject(s, false)
			consumeClosingBrace(s)
			continue

		case kterm == '=':
			valRaw, vterm, veof := s.readValue()
			trimmedVal := trimSpace(valRaw)

			switch {
			case vterm == '{':
				consumeOpeningBrace(s)
				child := ParseObject(s, false)
				consumeClosingBrace(s)
				result.Set(key, child)
				continue

			case (vterm == '}' || veof) && len(trimmedVal) == 0:
				return nil, dictFail

			default:
				result.Set(key, save.NewScalar(ParseToken(string(trimmedVal))))
				if vterm == '}' || veof {
					return result, dictSuccess
				}
				continue // terminator was '\n'; keep looping
			}

		default:
			// A non-empty key terminated by '}'/EOF/'{' without an
			// intervening '=' means this run is actually an array body,
			// not a dict.
			return nil, dictRetryArray
		}
	}
}

// parseObjectArray reads to the closing '}' of the containing object (an
// array never legitimately ends at EOF; that only happens at file scope,
// where arrays don't occur) and classifies the raw body: a list of quoted
// strings if every non-blank line is one, otherwise a list of
// whitespace-separated tokens.
func parseObjectArray(s *Stream) *save.ParsedValue {
	var raw []byte
	for {
		chunk, term, eof := s.readArrayBody()
		raw = append(raw, chunk...)
		if term == '}' {
			break // leave position at '}' for the caller to consume
		}
		if term == '=' {
			// Shouldn't occur once dict parsing has already been tried
			// and failed; tolerate it by keeping the '=' as body text
			// and continuing to scan for the real close brace.
			raw = append(raw, '=')
			s.pos++ // readArrayBody rewinds on '='; step past it
			continue
		}
		if eof {
			return save.None
		}
	}

	trimmed := trimSpace(raw)
	if len(trimmed) == 0 {
		return save.None
	}

	lines := bytes.Split(trimmed, []byte{'\n'})
	nonEmpty := make([][]byte, 0, len(lines))
	allQuoted := true
	for _, ln := range lines {
		ln = trimSpace(ln)
		if len(ln) == 0 {
			continue
		}
		nonEmpty = append(nonEmpty, ln)
		if !isQuotedToken(ln) {
			allQuoted = false
		}
	}

	if len(nonEmpty) > 0 && allQuoted {
		elems := make([]*save.ParsedValue, len(nonEmpty))
		for i, ln := range nonEmpty {
			elems[i] = save.NewScalar(ParseToken(string(ln)))
		}
		return save.NewList(elems)
	}

	fields := bytes.Fields(trimmed)
	if len(fields) == 0 {
		return save.None
	}
	elems := make([]*save.ParsedValue, len(fields))
	for i, f := range fields {
		elems[i] = save.NewScalar(ParseToken(string(f)))
	}
	return save.NewList(elems)
}

func isQuotedToken(b []byte) bool {
	return len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"'
}

// consumeClosingBrace advances past a '}' left unconsumed (by design) at
// the current position after a nested ParseObject call returns. A
// truncated file with no matching brace is tolerated: there's nothing to
// consume.
func consumeClosingBrace(s *Stream) {
	if !s.AtEOF() && s.b[s.pos] == '}' {
		s.pos++
	}
}

// consumeOpeningBrace advances past a '{' left unconsumed at the current
// position (readValue/readKey rewind on '{' rather than consuming it) so
// the recursive ParseObject call that follows starts on the child's
// content, not on the delimiter that introduces it.
func consumeOpeningBrace(s *Stream) {
	if !s.AtEOF() && s.b[s.pos] == '{' {
		s.pos++
	}
}
