package txtparser

import "testing"

func TestParseSimpleDict(t *testing.T) {
	data := []byte(`color = { 100 200 50 }
owner = "FRA"
`)
	tree, err := Parse(data, NoHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}

	color := tree.Get("color").List()
	if len(color) != 3 {
		t.Fatalf("expected 3-element color list, got %d", len(color))
	}
	if n, _ := color[0].Int(); n != 100 {
		t.Errorf("color[0]: expected 100, got %v", n)
	}

	if got := tree.Get("owner").String(); got != "FRA" {
		t.Errorf("owner: expected FRA, got %q", got)
	}
}

func TestParseNestedDict(t *testing.T) {
	data := []byte(`provinces = {
	1 = {
		owner = "FRA"
		controller = "FRA"
	}
}
`)
	tree, err := Parse(data, NoHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}

	prov := tree.Get("provinces").Get("1")
	if prov.Get("owner").String() != "FRA" {
		t.Errorf("nested owner: expected FRA, got %q", prov.Get("owner").String())
	}
}

func TestParseArrayOfIntegers(t *testing.T) {
	data := []byte(`lakes = { 1 2 3 }
`)
	tree, err := Parse(data, NoHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	lakes := tree.Get("lakes").List()
	if len(lakes) != 3 {
		t.Fatalf("expected 3 lake ids, got %d", len(lakes))
	}
	for i, want := range []int64{1, 2, 3} {
		if n, _ := lakes[i].Scalar(); n != want {
			t.Errorf("lakes[%d]: expected %v, got %v", i, want, n)
		}
	}
}

func TestParseArrayOfQuotedStrings(t *testing.T) {
	data := []byte(`dynamic_countries = {
	"FRA"
	"CAS"
}
`)
	tree, err := Parse(data, NoHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	tags := tree.Get("dynamic_countries").List()
	if len(tags) != 2 || tags[0].String() != "FRA" || tags[1].String() != "CAS" {
		t.Errorf("expected [FRA CAS], got %v", tags)
	}
}

func TestParseDuplicateKeyMergeIntoList(t *testing.T) {
	data := []byte(`core = "FRA"
core = "CAS"
`)
	tree, err := Parse(data, NoHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	cores := tree.Get("core").List()
	if len(cores) != 2 {
		t.Fatalf("expected duplicate scalar keys to merge into a 2-element list, got %v", tree.Get("core"))
	}
}

func TestParseStripsHeaderLine(t *testing.T) {
	data := []byte("EU4txt\nowner = \"FRA\"\n")
	tree, err := Parse(data, StripHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if got := tree.Get("owner").String(); got != "FRA" {
		t.Errorf("owner: expected FRA, got %q", got)
	}
}

func TestParseCommentIsNotStrippedByParser(t *testing.T) {
	// txtparser itself has no comment handling (spec.md §4.2); stripping
	// is gamedata's job via stripComments before handing data to Parse.
	data := []byte("owner = \"FRA\" # inline comment\n")
	tree, err := Parse(data, NoHeader)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if tree.Get("owner").IsNone() {
		t.Fatalf("expected owner to still parse even with a trailing comment present")
	}
}
