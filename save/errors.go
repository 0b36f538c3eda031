package save

import "errors"

// ErrUnknownProvince is an InvalidInput error: an id referenced by a
// province-history file or a save is absent from the province table
// (spec.md §3, a fatal load-time invariant violation). gamedata and
// history both raise it from their own loading contexts; map metadata
// ids (lakes, sea_starts) are not checked against the table.
var ErrUnknownProvince = errors.New("save: unknown province id")
