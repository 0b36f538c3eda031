// Package provindex serialises and deserialises the province index C6
// produces, so a viewer need not re-decode the province bitmap on every
// startup (C9). The format is a YAML document, not a byte-exact cache
// format: self-describing enough for the loader to detect a stale
// version and force a rebuild (spec.md §4.9).
package provindex

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/go-eu4/eu4hist/save"
)

// formatVersion is bumped whenever the on-disk schema changes in a way
// that makes older files unreadable.
const formatVersion = 1

// ErrStaleIndex is a StaleCache error: the persisted index does not
// decode, its version does not match formatVersion, or an entry fails
// Load's checks (spec.md §7). The entries are not compared against the
// current bitmap or definition.csv.
var ErrStaleIndex = errors.New("provindex: stale or incompatible index")

// document is the on-disk shape. Field order matches doc struct-tag
// order, which yaml.v3 preserves on encode.
type document struct {
	Version   int             `yaml:"version"`
	Provinces []provinceEntry `yaml:"provinces"`
}

type provinceEntry struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Color rgbDoc `yaml:"color"`
	Rows  []int  `yaml:"mask_rows"`
	Cols  []int  `yaml:"mask_cols"`
}

type rgbDoc struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Save writes provinces to w, sorted by id for diffable output.
func Save(w io.Writer, provinces map[int]*save.Province) error {
	ids := make([]int, 0, len(provinces))
	for id := range provinces {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	doc := document{
		Version:   formatVersion,
		Provinces: make([]provinceEntry, 0, len(ids)),
	}
	for _, id := range ids {
		p := provinces[id]
		doc.Provinces = append(doc.Provinces, provinceEntry{
			ID:   p.ID,
			Name: p.Name,
			Color: rgbDoc{
				R: p.Color.R,
				G: p.Color.G,
				B: p.Color.B,
			},
			Rows: p.MaskRows,
			Cols: p.MaskCols,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

// Load reads a persisted province index back, rejecting an entry whose
// name is empty or whose mask_rows and mask_cols differ in length. Other
// absent fields (id, color, the mask arrays themselves) decode to zero
// values and are not rejected.
func Load(r io.Reader) (map[int]*save.Province, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding index: %v", ErrStaleIndex, err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrStaleIndex, doc.Version, formatVersion)
	}

	provinces := make(map[int]*save.Province, len(doc.Provinces))
	for _, e := range doc.Provinces {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: province %d missing name", ErrStaleIndex, e.ID)
		}
		if len(e.Rows) != len(e.Cols) {
			return nil, fmt.Errorf("%w: province %d has mismatched mask arrays", ErrStaleIndex, e.ID)
		}
		provinces[e.ID] = &save.Province{
			ID:       e.ID,
			Name:     e.Name,
			Color:    save.RGB{R: e.Color.R, G: e.Color.G, B: e.Color.B},
			MaskRows: e.Rows,
			MaskCols: e.Cols,
		}
	}

	return provinces, nil
}
