package styles

import "strings"

// CustomCategory is the category given to groups parsed from user text.
const CustomCategory = "custom"

// Style is a named prompt template.
type Style struct {
	Name     string `yaml:"name" json:"name"`
	Template string `yaml:"template" json:"template"`
}

// Group is an ordered, immutable set of styles tagged with a category.
//
// Names keep the form they were written in; lookups normalize the requested
// name and compare case-insensitively. When two styles share a name the last
// one wins, keeping the position of the first.
type Group struct {
	category string
	styles   []Style
	index    map[string]int // nameKey(canonical name) -> position in styles
}

// NewGroup builds a group from a category label and a list of styles.
// Styles whose names are not valid are skipped.
func NewGroup(category string, styles ...Style) *Group {
	g := &Group{
		category: strings.TrimSpace(category),
		index:    make(map[string]int, len(styles)),
	}
	for _, s := range styles {
		g.add(s)
	}
	return g
}

// GroupFromText parses every style block in text into a new group.
//
// Templates are the block bodies with surrounding whitespace removed.
// Blocks with invalid names (empty, "-", "none") are skipped.
//
// Example:
//
//	g := GroupFromText(CustomCategory, ">>>Retro\nretro photo of {$@}\n")
//	g.Template("RETRO")  // "retro photo of {$@}"
func GroupFromText(category, text string) *Group {
	blocks := ParseBlocks(text)
	styles := make([]Style, 0, len(blocks))
	for _, b := range blocks {
		styles = append(styles, Style{Name: b.Name, Template: strings.TrimSpace(b.Body)})
	}
	return NewGroup(category, styles...)
}

func (g *Group) add(s Style) {
	canonical := NormalizeStyleName(s.Name)
	if canonical == "" {
		return
	}
	s.Name = strings.TrimSpace(s.Name)

	key := nameKey(canonical)
	if i, ok := g.index[key]; ok {
		g.styles[i] = s
		return
	}
	g.index[key] = len(g.styles)
	g.styles = append(g.styles, s)
}

// Category returns the category label of the group.
func (g *Group) Category() string {
	return g.category
}

// Len returns the number of styles in the group.
func (g *Group) Len() int {
	return len(g.styles)
}

// Template returns the template of the style called name, or "" when the
// name is not valid or not present.
func (g *Group) Template(name string) string {
	template, _ := g.Lookup(name)
	return template
}

// Has reports whether the group defines a style called name.
func (g *Group) Has(name string) bool {
	_, ok := g.Lookup(name)
	return ok
}

// Lookup implements Source.
func (g *Group) Lookup(name string) (string, bool) {
	canonical := NormalizeStyleName(name)
	if canonical == "" {
		return "", false
	}
	i, ok := g.index[nameKey(canonical)]
	if !ok {
		return "", false
	}
	return g.styles[i].Template, true
}

// Names returns the style names in group order.
func (g *Group) Names() []string {
	names := make([]string, len(g.styles))
	for i, s := range g.styles {
		names[i] = s.Name
	}
	return names
}

// QuotedNames returns the style names wrapped in double quotes, the form
// used by the combo widgets of the host UI.
func (g *Group) QuotedNames() []string {
	names := make([]string, len(g.styles))
	for i, s := range g.styles {
		names[i] = quoteName(s.Name)
	}
	return names
}

// Styles returns a copy of the styles in group order.
func (g *Group) Styles() []Style {
	return append([]Style(nil), g.styles...)
}
