package styles

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupFromText(t *testing.T) {
	text := `Some notes that are not a style.
>>>Retro
  retro photo of {$@}, faded colors

>>>'Film Noir'
black and white, {$@}, hard shadows
>::divider
>>>none
ignored
>>>
also ignored
`

	g := GroupFromText(CustomCategory, text)

	if g.Category() != CustomCategory {
		t.Errorf("Category() = %q, want %q", g.Category(), CustomCategory)
	}
	if diff := cmp.Diff([]string{"Retro", "'Film Noir'"}, g.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got := g.Template("retro"); got != "retro photo of {$@}, faded colors" {
		t.Errorf("Template(retro) = %q", got)
	}
	if got := g.Template("film noir"); got != "black and white, {$@}, hard shadows" {
		t.Errorf("Template(film noir) = %q", got)
	}
}

func TestGroup_CaseInsensitiveLookup(t *testing.T) {
	g := NewGroup("photo", Style{Name: "Retro", Template: "retro {$@}"})

	for _, name := range []string{"Retro", "retro", "RETRO", " 'Retro' ", `"rEtRo"`} {
		if got := g.Template(name); got != "retro {$@}" {
			t.Errorf("Template(%q) = %q", name, got)
		}
	}
	if g.Template("RETRO") != g.Template("retro") {
		t.Error("lookup is not case-insensitive")
	}
}

func TestGroup_InvalidLookups(t *testing.T) {
	g := NewGroup("photo", Style{Name: "Retro", Template: "retro {$@}"})

	for _, name := range []string{"", "-", "none", "Neon"} {
		if got := g.Template(name); got != "" {
			t.Errorf("Template(%q) = %q, want empty", name, got)
		}
		if g.Has(name) {
			t.Errorf("Has(%q) = true, want false", name)
		}
	}
}

func TestGroup_LastDuplicateWins(t *testing.T) {
	text := AppendStyleToText("", "Custom 1", "first {$@}")
	text = AppendStyleToText(text, "Custom 1", "second {$@}")

	if blocks := ParseBlocks(text); len(blocks) != 2 {
		t.Fatalf("expected two blocks in text, got %d", len(blocks))
	}

	g := GroupFromText(CustomCategory, text)
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
	if got := g.Template("Custom 1"); got != "second {$@}" {
		t.Errorf("Template = %q, want last definition", got)
	}

	got, err := GetStyleTemplate(g, "custom 1", "")
	if err != nil {
		t.Fatalf("GetStyleTemplate() error = %v", err)
	}
	if got != "second {$@}" {
		t.Errorf("GetStyleTemplate = %q, want last definition", got)
	}
}

func TestNewGroup_KeepsFirstPosition(t *testing.T) {
	g := NewGroup("other",
		Style{Name: "A", Template: "a1"},
		Style{Name: "B", Template: "b"},
		Style{Name: "a", Template: "a2"},
		Style{Name: "-", Template: "skipped"},
	)

	want := []Style{{Name: "a", Template: "a2"}, {Name: "B", Template: "b"}}
	if diff := cmp.Diff(want, g.Styles()); diff != "" {
		t.Errorf("Styles() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{`"a"`, `"B"`}, g.QuotedNames()); diff != "" {
		t.Errorf("QuotedNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_QuotedNamesNormalizeBack(t *testing.T) {
	g := NewGroup("photo", Style{Name: "Film Noir", Template: "noir {$@}"})

	for _, quoted := range g.QuotedNames() {
		if got := g.Template(quoted); got != "noir {$@}" {
			t.Errorf("Template(%s) = %q", quoted, got)
		}
	}
}
