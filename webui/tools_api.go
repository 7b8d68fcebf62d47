package webui

import (
	"errors"
	"net/http"
	"strconv"

	"zimage_power/latent"
	"zimage_power/zsampler"
)

func (s *Server) handleLatentOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ratios":       latent.Ratios(),
		"orientations": latent.Orientations(),
		"sizes":        latent.Sizes(),
		"defaults": map[string]string{
			"ratio":       latent.DefaultRatio,
			"orientation": latent.DefaultOrientation,
			"size":        latent.DefaultSize,
		},
	})
}

// handleLatent computes the empty latent shape for the query parameters
// ratio, orientation, size and batch. Missing parameters use the node
// defaults.
func (s *Server) handleLatent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	param := func(key, def string) string {
		if v := q.Get(key); v != "" {
			return v
		}
		return def
	}

	batch := 1
	if v := q.Get("batch"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "batch must be an integer")
			return
		}
		batch = n
	}

	shape, err := latent.Compute(
		param("ratio", latent.DefaultRatio),
		param("orientation", latent.DefaultOrientation),
		param("size", latent.DefaultSize),
		batch,
	)
	if errors.Is(err, latent.ErrInvalidBatch) {
		writeError(w, http.StatusBadRequest, "invalid_batch", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "latent_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shape)
}

// handleSamplerPlan returns the Turbo stages for ?seed=N. Seed -1 or a
// missing seed picks a random one.
func (s *Server) handleSamplerPlan(w http.ResponseWriter, r *http.Request) {
	seed := zsampler.RandomSeedValue
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "seed must be an integer")
			return
		}
		seed = n
	}
	seed = zsampler.ResolveSeed(seed)
	writeJSON(w, http.StatusOK, map[string]any{
		"seed":   seed,
		"stages": zsampler.TurboPlan(seed),
	})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	type node struct {
		ID          string `json:"id"`
		Class       string `json:"class"`
		DisplayName string `json:"display_name"`
		Menu        string `json:"menu"`
		Description string `json:"description"`
		Deprecated  bool   `json:"deprecated"`
	}
	regs := s.registry.Nodes()
	out := make([]node, 0, len(regs))
	for _, reg := range regs {
		out = append(out, node{
			ID:          reg.ID,
			Class:       reg.Class,
			DisplayName: reg.DisplayName,
			Menu:        reg.Menu,
			Description: reg.Description,
			Deprecated:  reg.Deprecated,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
