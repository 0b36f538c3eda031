package gamedata

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/go-eu4/eu4hist/save"
)

func TestIndexRegions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	paris := color.RGBA{R: 100, G: 150, B: 200, A: 255}
	castile := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	img.SetRGBA(0, 0, paris)
	img.SetRGBA(1, 0, paris)
	img.SetRGBA(0, 1, castile)
	img.SetRGBA(1, 1, castile)

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("bmp.Encode: unexpected error: %v", err)
	}

	opener := memOpener{provincesBMPPath: buf.Bytes()}
	provinces := map[int]*save.Province{
		1: {ID: 1, Name: "Paris", Color: save.RGB{R: 100, G: 150, B: 200}},
		2: {ID: 2, Name: "Castile", Color: save.RGB{R: 10, G: 20, B: 30}},
	}

	if err := IndexRegions(opener, provinces, LoadConfig{}); err != nil {
		t.Fatalf("IndexRegions: unexpected error: %v", err)
	}

	if !provinces[1].HasMask() || len(provinces[1].MaskRows) != 2 {
		t.Errorf("province 1: expected 2 masked pixels, got %v", provinces[1].MaskRows)
	}
	if !provinces[2].HasMask() || len(provinces[2].MaskRows) != 2 {
		t.Errorf("province 2: expected 2 masked pixels, got %v", provinces[2].MaskRows)
	}
}

func TestIndexRegionsRejectsUnmatchedProvince(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 100, G: 150, B: 200, A: 255})

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("bmp.Encode: unexpected error: %v", err)
	}

	opener := memOpener{provincesBMPPath: buf.Bytes()}
	provinces := map[int]*save.Province{
		1: {ID: 1, Name: "Paris", Color: save.RGB{R: 100, G: 150, B: 200}},
		2: {ID: 2, Name: "Castile", Color: save.RGB{R: 10, G: 20, B: 30}}, // never appears in the bitmap
	}

	err := IndexRegions(opener, provinces, LoadConfig{})
	if !errors.Is(err, ErrNoMaskIndex) {
		t.Fatalf("expected ErrNoMaskIndex for a province with no matching pixels, got %v", err)
	}
}
