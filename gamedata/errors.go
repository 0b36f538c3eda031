// Package gamedata loads the static game assets: the country tag index and
// country files (C4), the province definitions and initial history (C5),
// and the per-province pixel mask index built from the province bitmap
// (C6).
package gamedata

import (
	"errors"

	"github.com/go-eu4/eu4hist/save"
)

var (
	// ErrMissingFile is a MissingResource error: a referenced country or
	// province-history file could not be opened.
	ErrMissingFile = errors.New("gamedata: missing file")

	// ErrMissingColor is a MissingResource error: a country file has no
	// color entry. Tolerated at load time; it only becomes fatal if the
	// renderer later discovers the country actually owns a drawn
	// province (spec.md §4.4).
	ErrMissingColor = errors.New("gamedata: country has no display color")

	// ErrUnknownProvince is an InvalidInput error: an id referenced by
	// a province-history file or a save is absent from the province
	// table (spec.md §3, a fatal invariant violation). The lakes and
	// sea_starts ids read by LoadMapMeta are not checked against the
	// table.
	ErrUnknownProvince = save.ErrUnknownProvince

	// ErrDuplicateColor is an InvalidInput error: two provinces in
	// definition.csv share the same display RGB, which would make their
	// pixel masks ambiguous (spec.md §3).
	ErrDuplicateColor = errors.New("gamedata: duplicate province color")

	// ErrNoMaskIndex is an InvalidInput error: region indexing produced
	// an empty mask for a province that is supposed to be drawn.
	ErrNoMaskIndex = errors.New("gamedata: province has no pixel mask")
)
