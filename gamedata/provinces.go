// This file implements the province loader (C5): definition.csv and the
// initial owner/controller recorded in history/provinces/<id>-*.txt.
package gamedata

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/txtparser"
	"github.com/go-eu4/eu4hist/txtparser/txtsource"
)

const (
	definitionCSVPath  = "map/definition.csv"
	provinceHistoryDir = "history/provinces"
)

// LoadProvinces parses map/definition.csv into the province table, then
// overlays each province's initial owner/controller from its history
// file, when one exists.
func LoadProvinces(opener txtsource.Opener, cfg LoadConfig) (map[int]*save.Province, error) {
	provinces, err := parseDefinitionCSV(opener)
	if err != nil {
		return nil, err
	}
	if err := ApplyInitialHistory(opener, provinces, cfg); err != nil {
		return nil, err
	}
	return provinces, nil
}

// ApplyInitialHistory overlays each province's initial owner/controller
// from history/provinces, when the opener supports directory listing.
// Exposed separately from LoadProvinces so a province table restored from
// a persisted index (C9, which does not persist owner/controller) can
// still pick up initial ownership without re-running the bitmap scan.
func ApplyInitialHistory(opener txtsource.Opener, provinces map[int]*save.Province, cfg LoadConfig) error {
	lister, ok := opener.(txtsource.DirLister)
	if !ok {
		logWarn(cfg.Logger, "opener cannot list history/provinces, initial ownership left unset")
		return nil
	}
	return applyInitialHistory(opener, lister, provinces, cfg)
}

// parseDefinitionCSV reads the semicolon-delimited province definitions:
// id;r;g;b;name;x (spec.md §6). The header line is skipped.
func parseDefinitionCSV(opener txtsource.Opener) (map[int]*save.Province, error) {
	data, err := txtsource.ReadAll(opener, definitionCSVPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, definitionCSVPath, err)
	}

	provinces := make(map[int]*save.Province)
	seenColors := make(map[uint32]int)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 5 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		r, err1 := strconv.Atoi(strings.TrimSpace(fields[1]))
		g, err2 := strconv.Atoi(strings.TrimSpace(fields[2]))
		b, err3 := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		name := decodeName([]byte(fields[4]))

		rgb := save.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
		if prior, dup := seenColors[rgb.Packed()]; dup {
			return nil, fmt.Errorf("%w: province %d and %d both use %v", ErrDuplicateColor, prior, id, rgb)
		}
		seenColors[rgb.Packed()] = id

		provinces[id] = &save.Province{
			ID:    id,
			Name:  name,
			Color: rgb,
		}
	}

	return provinces, nil
}

// applyInitialHistory sets each province's starting owner/controller from
// its history/provinces/<id> - <name>.txt file, when present. Files that
// don't parse to a recognizable id are skipped (spec.md §6: file naming is
// "<id> - <name>.txt" but only the leading id is load-bearing).
func applyInitialHistory(opener txtsource.Opener, lister txtsource.DirLister, provinces map[int]*save.Province, cfg LoadConfig) error {
	names, err := lister.ListDir(provinceHistoryDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingFile, provinceHistoryDir, err)
	}

	for _, name := range names {
		id, ok := leadingID(name)
		if !ok {
			continue
		}
		prov, known := provinces[id]
		if !known {
			return fmt.Errorf("%w: history file %s names province %d", ErrUnknownProvince, name, id)
		}

		relPath := path.Join(provinceHistoryDir, name)
		data, err := txtsource.ReadAll(opener, relPath)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMissingFile, relPath, err)
		}

		tree, _ := txtparser.Parse(stripComments(data), txtparser.NoHeader)
		if cfg.Debug {
			prov.Debug = &save.ProvinceDebug{Tree: tree}
		}
		if owner := tree.Get("owner").String(); owner != "" {
			prov.Owner = owner
		}
		if controller := tree.Get("controller").String(); controller != "" {
			prov.Controller = controller
		} else if prov.Owner != "" {
			prov.Controller = prov.Owner
		}
	}

	return nil
}

// leadingID extracts the integer id prefixing a history file name, e.g.
// "236 - Castile.txt" -> 236.
func leadingID(name string) (int, bool) {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(name[:i])
	if err != nil {
		return 0, false
	}
	return id, true
}
