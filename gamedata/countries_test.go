package gamedata

import (
	"bytes"
	"io"
	"sort"
	"testing"

	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/txtparser/txtsource"
)

// memOpener is an in-memory txtsource.Opener + DirLister used by these
// tests, the way a table-driven test over a file-backed format typically
// stubs its source with fixed fixture bytes rather than real files.
type memOpener map[string][]byte

func (m memOpener) Open(relPath string) (io.ReadCloser, error) {
	data, ok := m[relPath]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m memOpener) ListDir(relPath string) ([]string, error) {
	var names []string
	prefix := relPath + "/"
	for p := range m {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix && !bytesContain(p[len(prefix):], '/') {
			names = append(names, p[len(prefix):])
		}
	}
	sort.Strings(names)
	return names, nil
}

func bytesContain(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

var _ txtsource.Opener = memOpener{}
var _ txtsource.DirLister = memOpener{}

func TestLoadCountries(t *testing.T) {
	opener := memOpener{
		"common/country_tags/00_countries.txt": []byte(`FRA = "countries/France.txt"
CAS = "countries/Castile.txt"
`),
		"common/countries/France.txt": []byte(`
government = monarchy
color = { 36 88 180 }
`),
		"common/countries/Castile.txt": []byte(`
color = { 198 180 60 }
`),
	}

	countries, err := LoadCountries(opener, LoadConfig{})
	if err != nil {
		t.Fatalf("LoadCountries: unexpected error: %v", err)
	}
	if len(countries) != 2 {
		t.Fatalf("expected 2 countries, got %d", len(countries))
	}

	fra := countries["FRA"]
	if !fra.HasColor || fra.Color.R != 36 || fra.Color.G != 88 || fra.Color.B != 180 {
		t.Errorf("FRA color: expected {36 88 180}, got %+v (has=%v)", fra.Color, fra.HasColor)
	}
}

func TestLoadCountriesMissingFileToleratesNoColor(t *testing.T) {
	opener := memOpener{
		"common/country_tags/00_countries.txt": []byte(`FRA = "countries/France.txt"
`),
	}

	countries, err := LoadCountries(opener, LoadConfig{})
	if err != nil {
		t.Fatalf("LoadCountries: unexpected error: %v", err)
	}
	fra := countries["FRA"]
	if fra == nil {
		t.Fatal("expected FRA to still be created despite missing file")
	}
	if fra.HasColor {
		t.Error("expected HasColor false when the country file is missing")
	}
}

// buildTag wraps a string as a scalar ParsedValue, the way ParseToken
// would produce one from bare unquoted text.
func buildTag(tag string) *save.ParsedValue {
	return save.NewScalar(tag)
}

func TestCreateDynamicCountriesInheritsOverlordColor(t *testing.T) {
	overlordSubjects := save.NewList([]*save.ParsedValue{buildTag("CAS")})
	overlord := save.NewMap()
	overlord.Set("subjects", overlordSubjects)

	countriesNode := save.NewMap()
	countriesNode.Set("FRA", overlord)

	dynTags := save.NewList([]*save.ParsedValue{buildTag("CAS")})

	saveTree := save.NewMap()
	saveTree.Set("countries", countriesNode)
	saveTree.Set("dynamic_countries", dynTags)

	countries := map[string]*save.Country{
		"FRA": {Tag: "FRA", Name: "France", Color: save.RGB{R: 1, G: 2, B: 3}, HasColor: true},
	}

	CreateDynamicCountries(saveTree, countries)

	cas, ok := countries["CAS"]
	if !ok {
		t.Fatal("expected CAS to be created")
	}
	if !cas.HasColor || cas.Color != (save.RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("CAS color: expected to inherit FRA's color, got %+v (has=%v)", cas.Color, cas.HasColor)
	}
}

func TestCreateDynamicCountriesNoOverlordIsBlack(t *testing.T) {
	saveTree := save.NewMap()
	saveTree.Set("countries", save.NewMap())
	saveTree.Set("dynamic_countries", save.NewList([]*save.ParsedValue{buildTag("REB")}))

	countries := map[string]*save.Country{}
	CreateDynamicCountries(saveTree, countries)

	reb, ok := countries["REB"]
	if !ok {
		t.Fatal("expected REB to be created")
	}
	if !reb.HasColor || reb.Color != (save.RGB{}) {
		t.Errorf("expected black for REB with no overlord, got %+v (has=%v)", reb.Color, reb.HasColor)
	}
}

func TestCreateDynamicCountriesSkipsExisting(t *testing.T) {
	saveTree := save.NewMap()
	saveTree.Set("countries", save.NewMap())
	saveTree.Set("dynamic_countries", save.NewList([]*save.ParsedValue{buildTag("FRA")}))

	original := &save.Country{Tag: "FRA", Name: "France"}
	countries := map[string]*save.Country{"FRA": original}

	CreateDynamicCountries(saveTree, countries)

	if countries["FRA"] != original {
		t.Error("expected an already-present tag to be left untouched")
	}
}
