// Package presets provides the predefined style catalog.
//
// The catalog ships embedded in the binary as YAML and can be replaced at
// startup with a user supplied file of the same format:
//
//	- category: photo
//	  styles:
//	    - name: Retro
//	      template: "Retro photograph of {$@}."
//
// Groups are searched in file order.
package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"zimage_power/styles"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPresets is returned when preset data cannot be turned into a catalog.
var ErrInvalidPresets = errors.New("presets: invalid preset data")

//go:embed styles.yaml
var embeddedStyles []byte

// groupDoc is the YAML shape of one style group.
type groupDoc struct {
	Category string         `yaml:"category"`
	Styles   []styles.Style `yaml:"styles"`
}

// Default builds the catalog from the embedded preset data.
func Default() (*styles.Catalog, error) {
	return Parse(embeddedStyles)
}

// LoadFile builds the catalog from a YAML file on disk.
func LoadFile(path string) (*styles.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presets: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML preset data.
//
// Every style needs a valid name and a non-blank template; templates
// without the placeholder are accepted and appended to the prompt when used.
func Parse(data []byte) (*styles.Catalog, error) {
	var docs []groupDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresets, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no style groups", ErrInvalidPresets)
	}

	groups := make([]*styles.Group, 0, len(docs))
	for i, doc := range docs {
		if err := validateGroup(doc); err != nil {
			return nil, fmt.Errorf("%w: group %d: %v", ErrInvalidPresets, i, err)
		}
		groups = append(groups, styles.NewGroup(doc.Category, doc.Styles...))
	}

	catalog, err := styles.NewCatalog(groups...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresets, err)
	}
	return catalog, nil
}

func validateGroup(doc groupDoc) error {
	if strings.TrimSpace(doc.Category) == "" {
		return errors.New("missing category")
	}
	for j, s := range doc.Styles {
		if !styles.IsValidStyleName(s.Name) {
			return fmt.Errorf("style %d in %q has an invalid name %q", j, doc.Category, s.Name)
		}
		if strings.TrimSpace(s.Template) == "" {
			return fmt.Errorf("style %q in %q has an empty template", s.Name, doc.Category)
		}
	}
	return nil
}
