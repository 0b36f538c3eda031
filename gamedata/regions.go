// This file implements pixel-mask indexing (C6): decoding map/provinces.bmp
// and bucketing its pixels by province color into coordinate arrays the
// renderer can redraw in O(province area) rather than O(map area).
package gamedata

import (
	"bytes"
	"fmt"
	"image"
	"sort"

	_ "golang.org/x/image/bmp"

	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/save/mapcore"
	"github.com/go-eu4/eu4hist/txtparser/txtsource"
)

const provincesBMPPath = "map/provinces.bmp"

// IndexRegions decodes map/provinces.bmp and fills in each province's
// MaskRows/MaskCols from the pixels matching its definition.csv color.
// Pixels whose color doesn't correspond to any known province are silently
// attributed to nothing (sea, lakes, and wasteland colors all fall in this
// bucket; spec.md §6 only requires indexing colors that ARE provinces).
// Every loaded province is drawn unconditionally by the renderer (spec.md
// §3's "maskIdxs is non-empty for any province that is supposed to be
// drawn"), so a province left with an empty mask after the scan is a
// fatal ErrNoMaskIndex, not a warning.
func IndexRegions(opener txtsource.Opener, provinces map[int]*save.Province, cfg LoadConfig) error {
	data, err := txtsource.ReadAll(opener, provincesBMPPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingFile, provincesBMPPath, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("gamedata: decoding %s: %w", provincesBMPPath, err)
	}

	byColor := make(map[uint32]*save.Province, len(provinces))
	for _, p := range provinces {
		byColor[p.Color.Packed()] = p
	}

	bounds := img.Bounds()
	unmatched := make(map[uint32]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rgb := mapcore.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			packed := rgb.Packed()

			p, ok := byColor[packed]
			if !ok {
				unmatched[packed]++
				continue
			}
			p.MaskRows = append(p.MaskRows, y)
			p.MaskCols = append(p.MaskCols, x)
		}
	}

	var maskless []int
	for id, p := range provinces {
		if !p.HasMask() {
			maskless = append(maskless, id)
		}
	}
	if len(maskless) > 0 {
		sort.Ints(maskless)
		return fmt.Errorf("%w: province ids %v matched no pixels in %s", ErrNoMaskIndex, maskless, provincesBMPPath)
	}

	logInfo(cfg.Logger, "indexed province bitmap", "width", bounds.Dx(), "height", bounds.Dy(), "unmatched_colors", len(unmatched))

	return nil
}
