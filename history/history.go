// Package history folds a parsed save tree into the three event
// structures the renderer scrubs over: per-province dated ownership
// events, per-country tag-change events, and the date-keyed inverted
// index that lets the renderer touch only dates that actually changed
// something (C7).
package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-eu4/eu4hist/save"
)

// ErrUnknownProvince is an InvalidInput error: the save references a
// province id absent from the province table (spec.md §3's load-time
// fatal invariant).
var ErrUnknownProvince = save.ErrUnknownProvince

// ErrMissingStartDate is an InvalidInput error: the save tree has no
// start_date field, so the campaign-start event every province history
// anchors to cannot be synthesised.
var ErrMissingStartDate = errors.New("history: save has no start_date")

// BuildConfig controls Build's ambient behaviour, mirroring
// gamedata.LoadConfig.
type BuildConfig struct {
	Logger *slog.Logger
}

// Result bundles the three structures History builds, ready to hand to
// render.New.
type Result struct {
	StartDate  save.Date
	Provinces  save.ProvinceHistory
	Countries  save.CountryHistory
	DatesIndex save.DatesWithEvents
}

// Build walks saveTree (the root of a parsed save file) and the already
// loaded province table, producing Result. The campaign-start date that
// anchors every province's synthesised first event is read from
// saveTree's own start_date field rather than taken as a parameter.
func Build(saveTree *save.ParsedValue, provinces map[int]*save.Province, cfg BuildConfig) (*Result, error) {
	startDate, ok := saveTree.Get("start_date").Date()
	if !ok {
		return nil, ErrMissingStartDate
	}

	res := &Result{
		StartDate:  startDate,
		Provinces:  make(save.ProvinceHistory),
		Countries:  make(save.CountryHistory),
		DatesIndex: make(save.DatesWithEvents),
	}

	if err := buildProvinceHistory(saveTree, provinces, startDate, res); err != nil {
		return nil, err
	}
	buildCountryHistory(saveTree, res)

	if cfg.Logger != nil {
		cfg.Logger.Info("built history",
			"provinces", len(res.Provinces),
			"countries", len(res.Countries),
			"dates", len(res.DatesIndex))
	}

	return res, nil
}

// buildProvinceHistory implements spec.md §4.7's province-history
// construction: save.provinces keys are negative province ids.
func buildProvinceHistory(saveTree *save.ParsedValue, provinces map[int]*save.Province, startDate save.Date, res *Result) error {
	saveProvinces := saveTree.Get("provinces")
	for _, key := range saveProvinces.Keys() {
		nID, ok := parseNegativeID(key)
		if !ok {
			continue
		}
		pID := -nID

		prov, known := provinces[pID]
		if !known {
			return fmt.Errorf("%w: save references province %d", ErrUnknownProvince, pID)
		}

		node := saveProvinces.Get(key)

		startEvent := save.ProvinceEvent{
			Date:       startDate,
			HasOwner:   prov.Owner != "",
			Owner:      prov.Owner,
			HasCtrl:    prov.Controller != "",
			Controller: prov.Controller,
		}
		res.Provinces[pID] = append(res.Provinces[pID], startEvent)
		res.addProvinceDate(startDate, pID)

		histNode := node.Get("history")
		for _, dateKey := range histNode.Keys() {
			date, ok := save.ParseDateKey(dateKey)
			if !ok {
				continue
			}
			entry := histNode.Get(dateKey)

			ev := save.ProvinceEvent{Date: date}
			if owner := entry.Get("owner"); !owner.IsNone() {
				ev.HasOwner = true
				ev.Owner = owner.String()
			}
			if ctrl := entry.Get("controller"); !ctrl.IsNone() {
				if nested := ctrl.Get("controller"); !nested.IsNone() {
					ev.HasCtrl = true
					ev.Controller = nested.String()
				} else if s, ok := ctrl.Scalar(); ok {
					ev.HasCtrl = true
					ev.Controller = fmt.Sprint(s)
				}
			}
			if !ev.HasOwner && !ev.HasCtrl {
				continue
			}

			res.Provinces[pID] = append(res.Provinces[pID], ev)
			res.addProvinceDate(date, pID)
		}
	}

	return nil
}

// buildCountryHistory implements spec.md §4.7's country-history
// construction: only dated entries whose payload contains
// changed_tag_from become TAG_CHANGE events.
func buildCountryHistory(saveTree *save.ParsedValue, res *Result) {
	saveCountries := saveTree.Get("countries")
	for _, tag := range saveCountries.Keys() {
		node := saveCountries.Get(tag)
		if node.Kind != save.KindMap {
			continue
		}
		histNode := node.Get("history")
		if histNode.IsNone() {
			continue
		}

		for _, dateKey := range histNode.Keys() {
			date, ok := save.ParseDateKey(dateKey)
			if !ok {
				continue
			}
			entry := histNode.Get(dateKey)
			sourceTag := entry.Get("changed_tag_from")
			if sourceTag.IsNone() {
				continue
			}

			res.Countries[tag] = append(res.Countries[tag], save.CountryEvent{
				Date:      date,
				Kind:      save.EventTagChange,
				SourceTag: sourceTag.String(),
			})
			res.addCountryDate(date, tag)
		}
	}
}

func (r *Result) addProvinceDate(d save.Date, id int) {
	entry := r.DatesIndex[d]
	if entry == nil {
		entry = &save.DayEvents{}
		r.DatesIndex[d] = entry
	}
	entry.Provinces = append(entry.Provinces, id)
}

func (r *Result) addCountryDate(d save.Date, tag string) {
	entry := r.DatesIndex[d]
	if entry == nil {
		entry = &save.DayEvents{}
		r.DatesIndex[d] = entry
	}
	entry.Countries = append(entry.Countries, tag)
}

// parseNegativeID parses a save.provinces key, which is a decimal
// integer with a leading '-' (spec.md §4.7: "province ids as negative
// integers in this section"), and returns that negative integer.
func parseNegativeID(key string) (int, bool) {
	if key == "" || key[0] != '-' {
		return 0, false
	}
	n := 0
	for i := 1; i < len(key); i++ {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 0, false
	}
	return -n, true
}
