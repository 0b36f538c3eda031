// This file implements the country loader (C4).
package gamedata

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/txtparser"
	"github.com/go-eu4/eu4hist/txtparser/txtsource"
)

// countryTagsDir is where the tag index files live, relative to the game
// directory (spec.md §6).
const countryTagsDir = "common/country_tags"

// LoadCountries scans common/country_tags/*.txt and parses every country
// file it references, extracting the display colour.
func LoadCountries(opener txtsource.Opener, cfg LoadConfig) (map[string]*save.Country, error) {
	lister, ok := opener.(txtsource.DirLister)
	if !ok {
		return nil, fmt.Errorf("gamedata: opener does not support directory listing for %s", countryTagsDir)
	}
	names, err := lister.ListDir(countryTagsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, countryTagsDir, err)
	}
	sort.Strings(names)

	logInfo(cfg.Logger, "loading country tag index", "files", len(names))

	countries := make(map[string]*save.Country)
	for _, name := range names {
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		relPath := path.Join(countryTagsDir, name)
		data, err := txtsource.ReadAll(opener, relPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, relPath, err)
		}

		tree, _ := txtparser.Parse(stripComments(data), txtparser.NoHeader)
		for _, tag := range tree.Keys() {
			filePath := tree.Get(tag).String()
			if filePath == "" {
				continue
			}
			c, err := loadCountryFile(opener, tag, filePath, cfg)
			if err != nil {
				return nil, err
			}
			countries[tag] = c
		}
	}

	return countries, nil
}

func loadCountryFile(opener txtsource.Opener, tag, relFilePath string, cfg LoadConfig) (*save.Country, error) {
	fullPath := path.Join("common", filepath_ToSlash(relFilePath))
	data, err := txtsource.ReadAll(opener, fullPath)
	if err != nil {
		logWarn(cfg.Logger, "country file missing, country created without color", "tag", tag, "path", fullPath)
		return &save.Country{Tag: tag, Name: tag}, nil
	}

	tree, _ := txtparser.Parse(stripComments(data), txtparser.NoHeader)
	c := &save.Country{Tag: tag, Name: tag}
	if cfg.Debug {
		c.Debug = &save.CountryDebug{Tree: tree}
	}

	colorNode := tree.Get("color")
	if rgb, ok := rgbFromList(colorNode); ok {
		c.Color = rgb
		c.HasColor = true
	} else {
		logWarn(cfg.Logger, "country has no display color", "tag", tag, "path", fullPath)
	}

	return c, nil
}

// rgbFromList reads a "{ R G B }" triple out of a 3-element list
// ParsedValue.
func rgbFromList(v *save.ParsedValue) (save.RGB, bool) {
	elems := v.List()
	if len(elems) != 3 {
		return save.RGB{}, false
	}
	r, ok1 := elems[0].Int()
	g, ok2 := elems[1].Int()
	b, ok3 := elems[2].Int()
	if !ok1 || !ok2 || !ok3 {
		return save.RGB{}, false
	}
	return save.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, true
}

// createDynamicCountries implements spec.md §4.4's createDynamicCountries:
// every tag named in save.dynamic_countries that isn't already present is
// created, with its colour inherited from its overlord (found by scanning
// existing countries' "subjects" lists) or black if no overlord is found.
func CreateDynamicCountries(saveTree *save.ParsedValue, countries map[string]*save.Country) {
	dyn := saveTree.Get("dynamic_countries")
	for _, elem := range dyn.List() {
		tag := elem.String()
		if tag == "" {
			continue
		}
		if _, exists := countries[tag]; exists {
			continue
		}

		// Black (the zero RGB) unless an overlord's colour is inherited.
		c := &save.Country{Tag: tag, Name: tag, HasColor: true}
		if overlord, ok := findOverlord(saveTree, tag); ok {
			if oc, ok := countries[overlord]; ok && oc.HasColor {
				c.Color = oc.Color
			}
		}
		countries[tag] = c
	}
}

// findOverlord scans save.countries[*].subjects for the given tag.
func findOverlord(saveTree *save.ParsedValue, tag string) (string, bool) {
	countriesNode := saveTree.Get("countries")
	for _, ownerTag := range countriesNode.Keys() {
		c := countriesNode.Get(ownerTag)
		subjects := c.Get("subjects")
		for _, s := range subjects.List() {
			if s.String() == tag {
				return ownerTag, true
			}
		}
	}
	return "", false
}

func logInfo(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

func logWarn(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// filepath_ToSlash normalizes a path taken from game data (which always
// uses forward slashes) for joining; named with an underscore to signal it
// is a narrow local helper, not an exported convention.
func filepath_ToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
