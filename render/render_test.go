package render

import (
	"errors"
	"testing"

	"github.com/go-eu4/eu4hist/gamedata"
	"github.com/go-eu4/eu4hist/history"
	"github.com/go-eu4/eu4hist/save"
)

func newTestRenderer(t *testing.T) (*Renderer, map[int]*save.Province) {
	t.Helper()

	start := save.Date{Y: 1444, M: 11, D: 11}
	provinces := map[int]*save.Province{
		1: {ID: 1, Name: "Paris", Owner: "FRA", Controller: "FRA", MaskRows: []int{0}, MaskCols: []int{0}},
		2: {ID: 2, Name: "Castile", Owner: "CAS", Controller: "CAS", MaskRows: []int{1}, MaskCols: []int{1}},
	}
	countries := map[string]*save.Country{
		"FRA": {Tag: "FRA", Name: "France", Color: save.RGB{R: 10, G: 20, B: 30}, HasColor: true},
		"CAS": {Tag: "CAS", Name: "Castile", Color: save.RGB{R: 40, G: 50, B: 60}, HasColor: true},
	}

	hist := &history.Result{
		StartDate: start,
		Provinces: save.ProvinceHistory{
			1: {{Date: start, HasOwner: true, Owner: "FRA", HasCtrl: true, Controller: "FRA"}},
			2: {
				{Date: start, HasOwner: true, Owner: "CAS", HasCtrl: true, Controller: "CAS"},
				{Date: save.Date{Y: 1450, M: 1, D: 1}, HasOwner: true, Owner: "FRA"},
			},
		},
		Countries: save.CountryHistory{},
		DatesIndex: save.DatesWithEvents{
			save.Date{Y: 1450, M: 1, D: 1}: {Provinces: []int{2}},
		},
	}

	r, err := New(provinces, countries, save.MapMeta{}, hist, Config{})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	return r, provinces
}

func TestRenderAtDateForwardApplysEvents(t *testing.T) {
	r, provinces := newTestRenderer(t)

	target := save.Date{Y: 1450, M: 6, D: 1}
	if err := r.RenderAtDate(target); err != nil {
		t.Fatalf("RenderAtDate: unexpected error: %v", err)
	}

	if r.CurrentDate() != target {
		t.Errorf("CurrentDate: expected %v, got %v", target, r.CurrentDate())
	}
	if provinces[2].Owner != "FRA" {
		t.Errorf("province 2 owner: expected FRA after the 1450.1.1 event, got %q", provinces[2].Owner)
	}
	if provinces[1].Owner != "FRA" {
		t.Errorf("province 1 owner should be unaffected, got %q", provinces[1].Owner)
	}
}

func TestRenderAtDateBackwardRestoresStart(t *testing.T) {
	r, provinces := newTestRenderer(t)

	if err := r.RenderAtDate(save.Date{Y: 1450, M: 6, D: 1}); err != nil {
		t.Fatalf("RenderAtDate: unexpected error: %v", err)
	}
	if err := r.RenderAtDate(save.Date{Y: 1444, M: 11, D: 11}); err != nil {
		t.Fatalf("RenderAtDate: unexpected error: %v", err)
	}

	if provinces[2].Owner != "CAS" {
		t.Errorf("province 2 owner: expected CAS at start date, got %q", provinces[2].Owner)
	}
}

func TestRenderAtDateIsIdempotent(t *testing.T) {
	r, provinces := newTestRenderer(t)

	target := save.Date{Y: 1450, M: 6, D: 1}
	if err := r.RenderAtDate(target); err != nil {
		t.Fatalf("RenderAtDate: unexpected error: %v", err)
	}
	firstOwner := provinces[2].Owner
	if err := r.RenderAtDate(target); err != nil {
		t.Fatalf("RenderAtDate: unexpected error: %v", err)
	}

	if provinces[2].Owner != firstOwner {
		t.Errorf("re-rendering the same date changed state: %q -> %q", firstOwner, provinces[2].Owner)
	}
}

// TestRenderAtDateAppliesCountryTagChange drives a save.CountryEvent
// through RenderAtDate and checks that applyDay's tag-change branch
// rewrites every province owned/controlled by the source tag.
func TestRenderAtDateAppliesCountryTagChange(t *testing.T) {
	r, provinces := newTestRenderer(t)
	r.countries["ENG"] = &save.Country{Tag: "ENG", Name: "England", Color: save.RGB{R: 70, G: 80, B: 90}, HasColor: true}

	// Province 2's own history already moves its owner to FRA at 1450.1.1;
	// the tag change below rewrites FRA -> ENG afterward. hist.Countries is
	// keyed by the resulting (new) tag, per buildCountryHistory.
	changeDate := save.Date{Y: 1460, M: 3, D: 1}
	r.hist.Countries["ENG"] = []save.CountryEvent{
		{Date: changeDate, Kind: save.EventTagChange, SourceTag: "FRA"},
	}
	r.hist.DatesIndex[changeDate] = &save.DayEvents{Countries: []string{"ENG"}}
	r.eventDates = r.hist.DatesIndex.SortedDates()

	if err := r.RenderAtDate(changeDate); err != nil {
		t.Fatalf("RenderAtDate: unexpected error: %v", err)
	}

	if provinces[1].Owner != "ENG" || provinces[1].Controller != "ENG" {
		t.Errorf("expected FRA -> ENG tag change to rewrite province 1, got owner=%q controller=%q",
			provinces[1].Owner, provinces[1].Controller)
	}
	if provinces[2].Owner != "ENG" {
		t.Errorf("expected FRA -> ENG tag change to rewrite province 2's owner (set to FRA by its own history), got %q",
			provinces[2].Owner)
	}
	if entry, ok := r.hist.DatesIndex[changeDate]; !ok || len(entry.Countries) != 1 || entry.Countries[0] != "ENG" {
		t.Errorf("expected DatesIndex[%v].Countries to list ENG, got %+v", changeDate, entry)
	}
}

// TestDrawProvinceControllerStripePartition asserts drawProvince's output
// for an owner != controller province matches controllerStripe's
// partition pixel for pixel, across both halves of the stripe period.
func TestDrawProvinceControllerStripePartition(t *testing.T) {
	start := save.Date{Y: 1444, M: 11, D: 11}
	cols := make([]int, controllerStripePeriod)
	rows := make([]int, controllerStripePeriod)
	for i := range cols {
		cols[i] = i
	}

	provinces := map[int]*save.Province{
		1: {ID: 1, Name: "Paris", Owner: "FRA", Controller: "CAS", MaskRows: rows, MaskCols: cols},
	}
	countries := map[string]*save.Country{
		"FRA": {Tag: "FRA", Name: "France", Color: save.RGB{R: 10, G: 20, B: 30}, HasColor: true},
		"CAS": {Tag: "CAS", Name: "Castile", Color: save.RGB{R: 40, G: 50, B: 60}, HasColor: true},
	}
	hist := &history.Result{
		StartDate:  start,
		Provinces:  save.ProvinceHistory{1: {{Date: start, HasOwner: true, Owner: "FRA", HasCtrl: true, Controller: "CAS"}}},
		Countries:  save.CountryHistory{},
		DatesIndex: save.DatesWithEvents{},
	}

	r, err := New(provinces, countries, save.MapMeta{}, hist, Config{})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}

	fra := toRGBA(save.RGB{R: 10, G: 20, B: 30})
	cas := toRGBA(save.RGB{R: 40, G: 50, B: 60})

	var sawStripe, sawPlain bool
	for i := range cols {
		x, y := cols[i], rows[i]
		got := r.img.RGBAAt(x, y)
		want := fra
		if controllerStripe(x, y) {
			want = cas
			sawStripe = true
		} else {
			sawPlain = true
		}
		if got != want {
			t.Errorf("pixel (%d,%d): controllerStripe=%v, expected %v, got %v",
				x, y, controllerStripe(x, y), want, got)
		}
	}
	if !sawStripe || !sawPlain {
		t.Fatalf("test mask should cover both stripe halves: sawStripe=%v sawPlain=%v", sawStripe, sawPlain)
	}
}

// TestNewRejectsMasklessProvince asserts that a province with no indexed
// pixels is a fatal ErrNoMaskIndex, not silently skipped: Reset draws
// every loaded province unconditionally.
func TestNewRejectsMasklessProvince(t *testing.T) {
	start := save.Date{Y: 1444, M: 11, D: 11}
	provinces := map[int]*save.Province{
		1: {ID: 1, Name: "Paris", Owner: "FRA"}, // no MaskRows/MaskCols
	}
	countries := map[string]*save.Country{
		"FRA": {Tag: "FRA", Name: "France", Color: save.RGB{R: 10, G: 20, B: 30}, HasColor: true},
	}
	hist := &history.Result{
		StartDate:  start,
		Provinces:  save.ProvinceHistory{1: {{Date: start, HasOwner: true, Owner: "FRA"}}},
		Countries:  save.CountryHistory{},
		DatesIndex: save.DatesWithEvents{},
	}

	_, err := New(provinces, countries, save.MapMeta{}, hist, Config{})
	if !errors.Is(err, gamedata.ErrNoMaskIndex) {
		t.Fatalf("expected ErrNoMaskIndex for a maskless province, got %v", err)
	}
}

// TestNewRejectsColorlessOwner asserts that a country with no display
// colour owning a drawn province is a fatal ErrMissingColor.
func TestNewRejectsColorlessOwner(t *testing.T) {
	start := save.Date{Y: 1444, M: 11, D: 11}
	provinces := map[int]*save.Province{
		1: {ID: 1, Name: "Paris", Owner: "REB", MaskRows: []int{0}, MaskCols: []int{0}},
	}
	countries := map[string]*save.Country{
		"REB": {Tag: "REB", Name: "Rebels"}, // HasColor false
	}
	hist := &history.Result{
		StartDate:  start,
		Provinces:  save.ProvinceHistory{1: {{Date: start, HasOwner: true, Owner: "REB"}}},
		Countries:  save.CountryHistory{},
		DatesIndex: save.DatesWithEvents{},
	}

	_, err := New(provinces, countries, save.MapMeta{}, hist, Config{})
	if !errors.Is(err, gamedata.ErrMissingColor) {
		t.Fatalf("expected ErrMissingColor for a colourless owner of a drawn province, got %v", err)
	}
}

func TestTickMonthOverflow(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.currentDate = save.Date{Y: 1444, M: 11, D: 5}

	got := r.targetDate(TickMonth, 3)
	want := save.Date{Y: 1445, M: 2, D: 5}
	if got != want {
		t.Errorf("targetDate(TickMonth, 3): expected %v, got %v", want, got)
	}
}

func TestTickDecade(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.currentDate = save.Date{Y: 1444, M: 11, D: 11}

	got := r.targetDate(TickDecade, 1)
	want := save.Date{Y: 1454, M: 11, D: 11}
	if got != want {
		t.Errorf("targetDate(TickDecade, 1): expected %v, got %v", want, got)
	}
}
