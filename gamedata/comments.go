package gamedata

// stripComments removes '#' line comments (spec.md §4.4/§4.5: "'#'
// introduces a line comment") before handing data to the textual parser,
// which has no notion of comments of its own.
func stripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inComment := false
	for _, c := range data {
		switch {
		case c == '\n':
			inComment = false
			out = append(out, c)
		case c == '#':
			inComment = true
		case !inComment:
			out = append(out, c)
		}
	}
	return out
}
