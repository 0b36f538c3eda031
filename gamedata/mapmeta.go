// This file loads the handful of map/default.map fields the renderer
// needs: the lakes and sea_starts province-id lists (spec.md §6).
package gamedata

import (
	"fmt"

	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/txtparser"
	"github.com/go-eu4/eu4hist/txtparser/txtsource"
)

const defaultMapPath = "map/default.map"

// LoadMapMeta parses map/default.map and extracts the lakes and
// sea_starts id lists.
func LoadMapMeta(opener txtsource.Opener, cfg LoadConfig) (save.MapMeta, error) {
	data, err := txtsource.ReadAll(opener, defaultMapPath)
	if err != nil {
		return save.MapMeta{}, fmt.Errorf("%w: %s: %v", ErrMissingFile, defaultMapPath, err)
	}

	tree, _ := txtparser.Parse(stripComments(data), txtparser.NoHeader)
	meta := save.MapMeta{
		Lakes:     intList(tree.Get("lakes")),
		SeaStarts: intList(tree.Get("sea_starts")),
	}
	if cfg.Debug {
		meta.Debug = tree
	}
	return meta, nil
}

func intList(v *save.ParsedValue) []int {
	elems := v.List()
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if n, ok := e.Int(); ok {
			out = append(out, n)
		}
	}
	return out
}
