package nodes

import (
	"zimage_power/styles"
)

// TopStylesEditor builds the favourite styles list consumed by MyTopStyles.
type TopStylesEditor struct {
	options []string
}

// NewTopStylesEditor creates the editor node. The option list is computed
// once from the catalog.
func NewTopStylesEditor(catalog *styles.Catalog) (*TopStylesEditor, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	return &TopStylesEditor{options: catalog.AllNames()}, nil
}

// Options returns the choices offered in every slot: "none" followed by
// every predefined style name, quoted.
func (e *TopStylesEditor) Options() []string {
	return append([]string(nil), e.options...)
}

// Execute turns the slot selections into a favourites list.
//
// Names are normalized so quoted options become plain names; "none" and
// other invalid selections become empty slots. At most TopStylesCount
// slots are kept.
func (e *TopStylesEditor) Execute(selections []string) []string {
	n := min(len(selections), TopStylesCount)
	out := make([]string, n)
	for i, s := range selections[:n] {
		out[i] = styles.NormalizeStyleName(s)
	}
	return out
}
