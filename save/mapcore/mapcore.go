// Package mapcore contains the small, dependency-free types shared by the
// save data model and the renderer: dates, colours, and points.
package mapcore

import "fmt"

// Date is a calendar day in the game's fixed 365-day calendar (no leap
// days; see AddDay), as it appears in every brace-format date literal
// ("YYYY.M.D").
type Date struct {
	Y, M, D int
}

// String returns the date in the game's own "Y.M.D" literal form.
func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Y, d.M, d.D)
}

// Before reports whether d comes strictly before o.
func (d Date) Before(o Date) bool {
	return d.compare(o) < 0
}

// After reports whether d comes strictly after o.
func (d Date) After(o Date) bool {
	return d.compare(o) > 0
}

// compare returns -1, 0 or 1 as d is before, equal to, or after o.
func (d Date) compare(o Date) int {
	switch {
	case d.Y != o.Y:
		return sign(d.Y - o.Y)
	case d.M != o.M:
		return sign(d.M - o.M)
	default:
		return sign(d.D - o.D)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// AddDay returns the date one calendar day after d.
// Month lengths use a fixed (non-leap) 365-day calendar, matching the
// source game's own simplified calendar.
func (d Date) AddDay() Date {
	dim := daysInMonth[d.M]
	if d.D < dim {
		return Date{d.Y, d.M, d.D + 1}
	}
	if d.M < 12 {
		return Date{d.Y, d.M + 1, 1}
	}
	return Date{d.Y + 1, 1, 1}
}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// RGB is a 24-bit display colour.
type RGB struct {
	R, G, B uint8
}

// Packed returns the colour packed into the low 24 bits of a uint32,
// suitable for use as a map key when bucketing pixels by colour (C6).
func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBFromPacked is the inverse of RGB.Packed.
func RGBFromPacked(p uint32) RGB {
	return RGB{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p)}
}

// Grey sentinel colour for unowned provinces, and the two fixed water
// colours painted over lake and sea provinces (spec.md §4.8).
var (
	GreyUnowned = RGB{110, 110, 110}
	LakeColour  = RGB{26, 96, 140}
	SeaColour   = RGB{15, 38, 68}
)

// Point is a pixel coordinate in the province bitmap.
type Point struct {
	Row, Col int
}
