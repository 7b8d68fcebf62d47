package webui

import (
	"errors"
	"net/http"

	"zimage_power/nodes"
)

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.catalog.Categories(),
		"styles":     s.catalog.AllNames(),
	})
}

// handleQuotedStylesByCategory serves the lists the encoder widget uses to
// refill its style combo when the category changes.
func (s *Server) handleQuotedStylesByCategory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.QuotedNamesByCategory())
}

func (s *Server) handleCategoryStyles(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if err := s.encoder.ValidateInputs(category); err != nil {
		writeError(w, http.StatusNotFound, "unknown_category", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"styles":   s.encoder.StyleNames(category),
	})
}

func (s *Server) handleTopStylesOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"options":  s.editor.Options(),
		"slots":    nodes.TopStylesCount,
		"channels": nodes.Channels(),
	})
}

// ApplyRequest is the body of POST /zi_power/apply.
type ApplyRequest struct {
	Text          string `json:"text"`
	Category      string `json:"category"`
	Style         string `json:"style"`
	Customization string `json:"customization"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	prompt, err := s.encoder.ApplyStyle(nodes.EncodeRequest{
		Customization: req.Customization,
		Category:      req.Category,
		Style:         req.Style,
		Text:          req.Text,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "apply_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}

// InjectRequest is the body of POST /zi_power/inject.
type InjectRequest struct {
	Input    string `json:"input"`
	Style    string `json:"style"`
	OutputTo string `json:"output_to"`
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req InjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	output, err := s.topStyles.Inject(req.Input, req.Style, req.OutputTo)
	switch {
	case errors.Is(err, nodes.ErrUnknownStyle):
		writeError(w, http.StatusNotFound, "unknown_style", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "inject_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}

// SelectRequest is the body of POST /zi_power/select, the full input set
// of the My Top-10 Styles node.
type SelectRequest struct {
	Input     string   `json:"input"`
	TopStyles []string `json:"top_styles"`
	Selected  []bool   `json:"selected"`
	OutputTo  string   `json:"output_to"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	output := s.topStyles.Execute(nodes.TopStylesRequest{
		Input:     req.Input,
		TopStyles: req.TopStyles,
		Selected:  req.Selected,
		OutputTo:  req.OutputTo,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"output":   output,
		"selected": nodes.SelectedName(req.TopStyles, req.Selected),
	})
}
