// Package render owns the live RGB image buffer and the date-scrubbing
// algorithm: maintaining a current date, a snapshot cache keyed by date,
// and redrawing only the provinces a date change actually touched (C8).
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/exp/slices"

	"github.com/go-eu4/eu4hist/gamedata"
	"github.com/go-eu4/eu4hist/history"
	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/save/mapcore"
)

// ErrNoSaveLoaded is a RuntimeMisuse error: a render call was made before
// a history Result was supplied.
var ErrNoSaveLoaded = errors.New("render: no save loaded")

// controllerStripeWidth is half the period of the diagonal stripe pattern
// drawProvince uses to interleave owner/controller colours (spec.md §4.8:
// "diagonal stripes of width 5").
const controllerStripeWidth = 5
const controllerStripePeriod = 2 * controllerStripeWidth

// MapMeta carries the small set of map/default.map fields the renderer
// consumes: lake and sea province ids, painted with fixed blues instead
// of any country colour. Loaded by gamedata.LoadMapMeta.
type MapMeta = save.MapMeta

// Config controls Renderer's ambient behaviour, mirroring
// gamedata.LoadConfig and history.BuildConfig. Debug retains the
// history.Result the renderer was built from, the way
// repparser.Config.Debug retains raw section bytes, so a bad render can
// be inspected without rebuilding the history from the save tree.
type Config struct {
	Logger *slog.Logger
	Debug  bool
}

// Tick is one of the scrub-step enumerations tick() accepts.
type Tick int

const (
	TickDay Tick = iota
	TickMonth
	TickYear
	TickDecade
)

var (
	lakeColour    = mapcore.LakeColour
	seaColour     = mapcore.SeaColour
	unownedColour = mapcore.GreyUnowned
)

// provinceSnapshot is one province's (owner, controller) pair, as stored
// in DateCache.
type provinceSnapshot struct {
	Owner      string
	Controller string
}

// Renderer is the C8 state owner.
type Renderer struct {
	provinces map[int]*save.Province
	countries map[string]*save.Country
	mapMeta   MapMeta
	hist      *history.Result

	img         *image.RGBA
	currentDate save.Date
	startDate   save.Date

	dateCache   map[save.Date]map[int]provinceSnapshot
	cachedDates []save.Date // kept sorted ascending; mirrors js-arias-earth's sorted-stage-slice pattern
	eventDates  []save.Date // sorted keys of hist.DatesIndex, computed once

	logger *slog.Logger

	// debugHist holds hist itself when cfg.Debug is set, the way
	// gamedata's Debug-gated fields retain a raw parsed tree for
	// troubleshooting without recomputing it.
	debugHist *history.Result
}

// compareDates orders two dates for slices.BinarySearchFunc/slices.Sort.
func compareDates(a, b save.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// recordCachedDate inserts d into cachedDates at its sorted position, if
// not already present.
func (r *Renderer) recordCachedDate(d save.Date) {
	pos, found := slices.BinarySearchFunc(r.cachedDates, d, compareDates)
	if found {
		return
	}
	r.cachedDates = slices.Insert(r.cachedDates, pos, d)
}

// New builds a Renderer over already-loaded provinces/countries/history,
// sized to the bitmap's bounds (inferred from the max mask coordinate
// across all provinces), and resets it to hist.StartDate.
func New(provinces map[int]*save.Province, countries map[string]*save.Country, mapMeta MapMeta, hist *history.Result, cfg Config) (*Renderer, error) {
	if hist == nil {
		return nil, ErrNoSaveLoaded
	}

	width, height := bounds(provinces)
	r := &Renderer{
		provinces:   provinces,
		countries:   countries,
		mapMeta:     mapMeta,
		hist:        hist,
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		currentDate: hist.StartDate,
		startDate:   hist.StartDate,
		dateCache:   make(map[save.Date]map[int]provinceSnapshot),
		eventDates:  hist.DatesIndex.SortedDates(),
		logger:      cfg.Logger,
	}
	if cfg.Debug {
		r.debugHist = hist
	}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// DebugHistory returns the history.Result the renderer was built from, or
// nil unless Config.Debug was set on New.
func (r *Renderer) DebugHistory() *history.Result {
	return r.debugHist
}

// bounds derives the image dimensions from the highest row/col seen in
// any province's pixel mask.
func bounds(provinces map[int]*save.Province) (int, int) {
	width, height := 1, 1
	for _, p := range provinces {
		for _, c := range p.MaskCols {
			if c+1 > width {
				width = c + 1
			}
		}
		for _, r := range p.MaskRows {
			if r+1 > height {
				height = r + 1
			}
		}
	}
	return width, height
}

// Image returns the live RGB image buffer. Callers must not mutate it.
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

// CurrentDate returns the date the buffer currently reflects.
func (r *Renderer) CurrentDate() save.Date {
	return r.currentDate
}

// Reset restores every province to its start-date snapshot, blacks the
// image, draws every province, then paints seas and lakes (spec.md
// §4.8's reset()). Every loaded province is drawn unconditionally, so a
// province failing drawProvince's invariant checks is fatal here too.
func (r *Renderer) Reset() error {
	startSnapshot := r.snapshotAtStart()
	for id, p := range r.provinces {
		snap := startSnapshot[id]
		p.Owner = snap.Owner
		p.Controller = snap.Controller
	}
	r.dateCache = map[save.Date]map[int]provinceSnapshot{
		r.startDate: startSnapshot,
	}
	r.cachedDates = []save.Date{r.startDate}
	r.currentDate = r.startDate

	black := color.RGBA{A: 255}
	bnd := r.img.Bounds()
	for y := bnd.Min.Y; y < bnd.Max.Y; y++ {
		for x := bnd.Min.X; x < bnd.Max.X; x++ {
			r.img.Set(x, y, black)
		}
	}

	for id := range r.provinces {
		if err := r.drawProvince(id); err != nil {
			return err
		}
	}
	r.paintWater()
	return nil
}

// snapshotAtStart folds every province's synthesised start-date event
// (the first event history.Build recorded for it) into a full snapshot.
func (r *Renderer) snapshotAtStart() map[int]provinceSnapshot {
	snap := make(map[int]provinceSnapshot, len(r.provinces))
	for id := range r.provinces {
		events := r.hist.Provinces[id]
		var s provinceSnapshot
		if len(events) > 0 && events[0].Date == r.startDate {
			if events[0].HasOwner {
				s.Owner = events[0].Owner
			}
			if events[0].HasCtrl {
				s.Controller = events[0].Controller
			}
		}
		snap[id] = s
	}
	return snap
}

// drawProvince implements spec.md §4.8's drawProvince(p): selects owner/
// controller colours and writes them into the mask pixels, interleaved
// by the diagonal controller-mask stripe pattern. Every loaded province
// is drawn unconditionally (Reset draws them all), so spec.md §3's "a
// province's maskIdxs is non-empty for any province that is supposed to
// be drawn" and §4.4's "the renderer reports this as fatal if such a
// country actually owns drawn provinces" apply here, not as warnings.
func (r *Renderer) drawProvince(id int) error {
	p, ok := r.provinces[id]
	if !ok {
		return nil
	}
	if !p.HasMask() {
		return fmt.Errorf("%w: province %d (%s)", gamedata.ErrNoMaskIndex, id, p.Name)
	}

	ownerCol, err := r.resolveColor(p.Owner)
	if err != nil {
		return fmt.Errorf("province %d (%s) owner %q: %w", id, p.Name, p.Owner, err)
	}

	controllerCol := ownerCol
	ctrl := p.EffectiveController()
	if ctrl != "" && ctrl != p.Owner {
		controllerCol, err = r.resolveColor(ctrl)
		if err != nil {
			return fmt.Errorf("province %d (%s) controller %q: %w", id, p.Name, ctrl, err)
		}
	}

	ownerRGBA := toRGBA(ownerCol)
	controllerRGBA := toRGBA(controllerCol)

	for i := range p.MaskRows {
		y, x := p.MaskRows[i], p.MaskCols[i]
		if controllerStripe(x, y) {
			r.img.SetRGBA(x, y, controllerRGBA)
		} else {
			r.img.SetRGBA(x, y, ownerRGBA)
		}
	}
	return nil
}

// resolveColor returns tag's display colour, or unownedColour if tag is
// empty (the province has no owner/controller yet). A non-empty tag that
// names a country with no usable colour is fatal: the province is drawn
// by a country the renderer cannot represent.
func (r *Renderer) resolveColor(tag string) (save.RGB, error) {
	if tag == "" {
		return unownedColour, nil
	}
	c, ok := r.countries[tag]
	if !ok || !c.HasColor {
		return save.RGB{}, gamedata.ErrMissingColor
	}
	return c.Color, nil
}

// controllerStripe reports whether (x, y) falls in the "controller"
// half of the diagonal stripe pattern: ((i+j) mod 10) < 5.
func controllerStripe(x, y int) bool {
	return ((x+y)%controllerStripePeriod+controllerStripePeriod)%controllerStripePeriod < controllerStripeWidth
}

// paintWater overpaints lake and sea provinces with their fixed colours,
// run after every province has been drawn with its political colour.
func (r *Renderer) paintWater() {
	for _, id := range r.mapMeta.Lakes {
		r.paintFixed(id, lakeColour)
	}
	for _, id := range r.mapMeta.SeaStarts {
		r.paintFixed(id, seaColour)
	}
}

func (r *Renderer) paintFixed(id int, c save.RGB) {
	p, ok := r.provinces[id]
	if !ok {
		return
	}
	rgba := toRGBA(c)
	for i := range p.MaskRows {
		r.img.SetRGBA(p.MaskCols[i], p.MaskRows[i], rgba)
	}
}

func toRGBA(c save.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
