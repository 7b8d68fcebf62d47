package nodes

import (
	"testing"

	"zimage_power/styles"
)

// newTestCatalog builds a small two-group catalog shared by the node tests.
func newTestCatalog(t *testing.T) *styles.Catalog {
	t.Helper()
	catalog, err := styles.NewCatalog(
		styles.NewGroup("photo",
			styles.Style{Name: "Retro", Template: "retro photo of {$@}"},
			styles.Style{Name: "Film Noir", Template: "noir, {$@}, hard shadows"},
		),
		styles.NewGroup("illustration",
			styles.Style{Name: "Watercolor", Template: "watercolor of {$@}"},
			styles.Style{Name: "Retro", Template: "retro poster of {$@}"},
		),
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog
}
