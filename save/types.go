// This file contains the Province, Country and history types that make up
// the save data model (spec.md §3), mirroring how the teacher's rep package
// holds Replay/Header/Player alongside the repcore building blocks.
package save

import (
	"sort"

	"github.com/go-eu4/eu4hist/save/mapcore"
)

// Date is the calendar type used throughout the model; re-exported from
// mapcore so callers need only import this package for the common case.
type Date = mapcore.Date

// RGB is the display colour type; re-exported from mapcore.
type RGB = mapcore.RGB

// SameAsOwner is the sentinel controller value meaning "same as owner"
// (spec.md §3, the "---" marker used by the save format).
const SameAsOwner = "---"

// Province is a single coloured polygon on the game map, the atomic unit of
// ownership.
type Province struct {
	// ID is the province's positive integer identity.
	ID int

	// Name is the human-readable province name.
	Name string

	// Color is the display RGB triple used to find this province's
	// pixels in the province bitmap. Immutable after C5/C6.
	Color RGB

	// MaskRows and MaskCols are the ordered pair of equal-length row/column coordinate
	// arrays of every pixel of Color in the bitmap, built once by C6 (or
	// restored from the persisted index, C9).
	MaskRows []int
	MaskCols []int

	// Owner is the current owning country tag, or "" if unowned.
	Owner string

	// Controller is the current controlling country tag, "" if unowned,
	// or SameAsOwner meaning "same as Owner".
	Controller string

	// Debug holds the raw parsed history-file tree this province's
	// initial owner/controller was read from, populated only when
	// gamedata.LoadConfig.Debug is set.
	Debug *ProvinceDebug
}

// ProvinceDebug is the Debug-gated payload retained on a Province.
type ProvinceDebug struct {
	Tree *ParsedValue
}

// EffectiveController returns the tag that actually controls the province:
// Owner when Controller is empty, SameAsOwner, or equal to Owner.
func (p *Province) EffectiveController() string {
	if p.Controller == "" || p.Controller == SameAsOwner || p.Controller == p.Owner {
		return p.Owner
	}
	return p.Controller
}

// HasMask reports whether the province has any indexed pixels and can
// therefore be drawn.
func (p *Province) HasMask() bool {
	return len(p.MaskRows) > 0
}

// Country is a political entity that may own or control provinces.
type Country struct {
	// Tag is the short alphanumeric identity, e.g. "FRA".
	Tag string

	// Name is the display name.
	Name string

	// Color is the display colour. May be the zero RGB if the country's
	// file had no color entry (gamedata.ErrMissingColor is raised lazily,
	// only if the country turns out to own a drawn province).
	Color RGB

	// HasColor reports whether Color is a usable display colour: read
	// from the country file, inherited from an overlord, or black for a
	// dynamic country with no overlord. It is false only for a country
	// whose file is missing or has no color entry.
	HasColor bool

	// Debug holds the raw parsed country-file tree, populated only when
	// gamedata.LoadConfig.Debug is set.
	Debug *CountryDebug
}

// CountryDebug is the Debug-gated payload retained on a Country.
type CountryDebug struct {
	Tree *ParsedValue
}

// EventKind distinguishes the two dated-event payload shapes folded into
// the history structures.
type EventKind byte

const (
	// EventOwnerController carries an optional Owner/Controller change
	// for a single province.
	EventOwnerController EventKind = iota
	// EventTagChange carries a country tag-change event.
	EventTagChange
)

// ProvinceEvent is a single dated change to a province's owner/controller.
// Either field may be unset (HasOwner/HasCtrl false means "unset", not
// "cleared"); spec.md §4.7 drops events with neither field populated.
type ProvinceEvent struct {
	Date       Date
	HasOwner   bool
	Owner      string
	HasCtrl    bool
	Controller string
}

// CountryEvent is a single dated tag-change event for a country.
type CountryEvent struct {
	Date      Date
	Kind      EventKind
	SourceTag string
}

// ProvinceHistory maps a province id to its date-ordered event log.
type ProvinceHistory map[int][]ProvinceEvent

// CountryHistory maps a country tag to its date-ordered tag-change events.
type CountryHistory map[string][]CountryEvent

// DayEvents is the payload of DatesWithEvents for a single date: the
// provinces and countries with at least one event on that date.
type DayEvents struct {
	Provinces []int
	Countries []string
}

// DatesWithEvents is the inverted index from date to the provinces/
// countries with an event on that date; the hot-path structure during
// scrubbing (spec.md §4.8).
type DatesWithEvents map[Date]*DayEvents

// SortedDates returns the dates of d in ascending order.
func (d DatesWithEvents) SortedDates() []Date {
	out := make([]Date, 0, len(d))
	for dt := range d {
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Summary holds derived, on-demand statistics over the loaded save,
// mirroring the teacher's opt-in rep.Compute()/rep.Computed pattern rather
// than paying for these on every load.
type Summary struct {
	ProvinceCount      int
	CountryCount       int
	StartDate, EndDate Date
	ProvinceCountByTag map[string]int
}

// Summarize computes a Summary for the given state at whatever date it was
// last rendered to (owner/controller fields as they currently stand).
func Summarize(provinces map[int]*Province, countries map[string]*Country, dates DatesWithEvents, start Date) Summary {
	s := Summary{
		ProvinceCount:      len(provinces),
		CountryCount:       len(countries),
		StartDate:          start,
		EndDate:            start,
		ProvinceCountByTag: make(map[string]int),
	}
	for _, d := range dates.SortedDates() {
		if d.After(s.EndDate) {
			s.EndDate = d
		}
	}
	for _, p := range provinces {
		if p.Owner == "" {
			continue
		}
		s.ProvinceCountByTag[p.Owner]++
	}
	return s
}
