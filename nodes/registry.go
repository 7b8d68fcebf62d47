package nodes

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ProjectID is appended to every node class to build its host identifier.
const ProjectID = "//ZImagePowerNodes"

// DefaultMenu is the menu the nodes are listed under.
const DefaultMenu = "⚡Z-Image"

const deprecatedSubmenu = "/__deprecated"

// NodeInfo describes one node class.
type NodeInfo struct {
	Class       string
	Title       string
	Description string
	Deprecated  bool
}

// Registration is a NodeInfo resolved against a menu.
type Registration struct {
	NodeInfo
	ID          string
	DisplayName string
	Menu        string
}

// DefaultNodes lists the node classes implemented by this module.
func DefaultNodes() []NodeInfo {
	return []NodeInfo{
		{
			Class:       "StylePromptEncoder",
			Title:       "Style & Prompt Encoder",
			Description: "Applies the selected style to a prompt and encodes it with the text encoder.",
		},
		{
			Class:       "MyTop10Styles",
			Title:       "My Top-10 Styles",
			Description: "Selects a visual style from your personal top-10 list.",
		},
		{
			Class:       "MyTop10StylesEditor",
			Title:       "My Top-10 Style Editor",
			Description: "Builds your personal list of top-10 visual styles.",
		},
		{
			Class:       "EmptyZImageLatentImage",
			Title:       "Empty Z-Image Latent Image",
			Description: "Creates an empty latent sized for Z-Image from an aspect ratio and scale.",
		},
		{
			Class:       "ZSamplerTurbo",
			Title:       "Z-Sampler Turbo",
			Description: "Samples Z-Image Turbo in three stages with a fixed sigma schedule.",
		},
		{
			Class:       "SaveImage",
			Title:       "Save Image",
			Description: "Saves images with prompt and workflow metadata.",
		},
	}
}

// Registry is the immutable set of registered nodes, built once at startup.
type Registry struct {
	byID  map[string]Registration
	order []string
}

// NewRegistry registers infos under menu. Classes registered twice keep
// their first registration and a warning is logged. Deprecated nodes are
// moved to a "/__deprecated" submenu and their titles are marked.
func NewRegistry(logger *zap.Logger, menu string, infos ...NodeInfo) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{byID: make(map[string]Registration, len(infos))}

	for _, info := range infos {
		id := NodeID(info.Class)
		if _, exists := r.byID[id]; exists {
			logger.Warn("node already registered, skipping", zap.String("class", info.Class))
			continue
		}
		reg := Registration{
			NodeInfo:    info,
			ID:          id,
			DisplayName: info.Title,
			Menu:        menu,
		}
		if info.Deprecated {
			reg.Menu = menu + deprecatedSubmenu
			reg.DisplayName = "❌" + info.Title + " [Deprecated]"
		}
		r.byID[id] = reg
		r.order = append(r.order, id)
	}

	logger.Info("nodes registered", zap.Int("count", len(r.order)))
	return r
}

// NodeID returns the host identifier of a node class.
// This is a pure function with no side effects.
func NodeID(class string) string {
	return strings.TrimSpace(class) + " " + ProjectID
}

// Lookup returns the registration with the given id.
func (r *Registry) Lookup(id string) (Registration, bool) {
	reg, ok := r.byID[id]
	return reg, ok
}

// Nodes returns the registrations in registration order.
func (r *Registry) Nodes() []Registration {
	out := make([]Registration, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// DisplayNames maps node ids to display names, as the host expects.
func (r *Registry) DisplayNames() map[string]string {
	out := make(map[string]string, len(r.byID))
	for id, reg := range r.byID {
		out[id] = reg.DisplayName
	}
	return out
}

// IDs returns the node ids sorted alphabetically.
func (r *Registry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}
