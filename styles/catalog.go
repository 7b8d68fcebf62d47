package styles

import (
	"fmt"
	"slices"
)

// Source is anything a style template can be looked up in: a single *Group,
// an ordered Many of sources, or a *Catalog.
//
// The interface is sealed; the three implementations form a closed variant
// and lookup recurses over it depth-first.
type Source interface {
	resolve(canonical string) (string, error)
}

// Many is an ordered list of sources searched front to back. Earlier
// sources take precedence, so put custom groups before predefined ones.
type Many []Source

// GetStyleTemplate looks up the template of the style called name in src.
//
// The name is normalized once; an invalid name returns def immediately.
// Sources are searched depth-first and the first non-empty template wins.
// When no source defines the style, def is returned.
//
// A nil source anywhere on the search path is a caller error and is
// reported as ErrInvalidSource.
//
// Example:
//
//	custom := GroupFromText(CustomCategory, customization)
//	template, err := GetStyleTemplate(Many{custom, catalog}, "Retro", "")
func GetStyleTemplate(src Source, name, def string) (string, error) {
	canonical := NormalizeStyleName(name)
	if canonical == "" {
		return def, nil
	}
	if src == nil {
		return "", fmt.Errorf("%w: nil source", ErrInvalidSource)
	}

	template, err := src.resolve(canonical)
	if err != nil {
		return "", err
	}
	if template == "" {
		return def, nil
	}
	return template, nil
}

func (g *Group) resolve(canonical string) (string, error) {
	if g == nil {
		return "", fmt.Errorf("%w: nil group", ErrInvalidSource)
	}
	i, ok := g.index[nameKey(canonical)]
	if !ok {
		return "", nil
	}
	return g.styles[i].Template, nil
}

func (m Many) resolve(canonical string) (string, error) {
	for i, src := range m {
		if src == nil {
			return "", fmt.Errorf("%w: nil source at position %d", ErrInvalidSource, i)
		}
		template, err := src.resolve(canonical)
		if err != nil {
			return "", err
		}
		if template != "" {
			return template, nil
		}
	}
	return "", nil
}

// Catalog is the immutable set of predefined style groups.
//
// It is built once at startup and passed to every component that needs it.
// Derived name lists are computed at construction time.
type Catalog struct {
	groups     []*Group
	byCategory map[string]*Group
	categories []string
	allNames   []string
	quoted     map[string][]string
}

// NewCatalog builds a catalog from groups, in search order.
// Groups must be non-nil and have distinct, non-empty categories.
func NewCatalog(groups ...*Group) (*Catalog, error) {
	c := &Catalog{
		groups:     make([]*Group, 0, len(groups)),
		byCategory: make(map[string]*Group, len(groups)),
		categories: make([]string, 0, len(groups)),
		allNames:   []string{NoneStyle},
		quoted:     make(map[string][]string, len(groups)),
	}

	for i, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("%w: nil group at position %d", ErrInvalidGroup, i)
		}
		category := g.Category()
		if category == "" {
			return nil, fmt.Errorf("%w: group at position %d has no category", ErrInvalidGroup, i)
		}
		if _, exists := c.byCategory[category]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, category)
		}

		c.groups = append(c.groups, g)
		c.byCategory[category] = g
		c.categories = append(c.categories, category)
		quoted := g.QuotedNames()
		c.quoted[category] = quoted
		c.allNames = append(c.allNames, quoted...)
	}

	return c, nil
}

func (c *Catalog) resolve(canonical string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: nil catalog", ErrInvalidSource)
	}
	for _, g := range c.groups {
		if template, _ := g.resolve(canonical); template != "" {
			return template, nil
		}
	}
	return "", nil
}

// Template returns the first non-empty template for name across all groups.
func (c *Catalog) Template(name string) string {
	template, _ := GetStyleTemplate(c, name, "")
	return template
}

// Group returns the group registered under category.
func (c *Catalog) Group(category string) (*Group, bool) {
	g, ok := c.byCategory[category]
	return g, ok
}

// Groups returns the groups in search order.
func (c *Catalog) Groups() []*Group {
	return slices.Clone(c.groups)
}

// Categories returns the category labels in search order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// HasCategory reports whether category names a group of the catalog.
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.byCategory[category]
	return ok
}

// AllNames returns "none" followed by the quoted names of every group.
func (c *Catalog) AllNames() []string {
	return slices.Clone(c.allNames)
}

// QuotedNamesByCategory maps every category to the quoted names of its styles.
func (c *Catalog) QuotedNamesByCategory() map[string][]string {
	out := make(map[string][]string, len(c.quoted))
	for category, names := range c.quoted {
		out[category] = slices.Clone(names)
	}
	return out
}
