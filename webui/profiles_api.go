package webui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"zimage_power/db"
)

// ProfileStore persists favourites and customization text per profile.
// *db.Repository satisfies it.
type ProfileStore interface {
	SaveTopStyles(ctx context.Context, profile string, names []string) error
	LoadTopStyles(ctx context.Context, profile string) ([]string, error)
	SaveCustomization(ctx context.Context, profile, text string) error
	LoadCustomization(ctx context.Context, profile string) (db.Customization, bool, error)
	DeleteProfile(ctx context.Context, profile string) (int64, error)
}

// TopStylesBody is the body of GET and PUT /zi_power/top_styles/{profile}.
type TopStylesBody struct {
	Profile   string   `json:"profile,omitempty"`
	TopStyles []string `json:"top_styles"`
}

// CustomizationBody is the body of GET and PUT /zi_power/customization/{profile}.
type CustomizationBody struct {
	Profile   string     `json:"profile,omitempty"`
	Text      string     `json:"text"`
	Found     bool       `json:"found"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// storeError maps repository errors to responses.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrInvalidProfile), errors.Is(err, db.ErrTooManyStyles):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.internalError(w, r, "store_failed", "could not access the profile store", err)
	}
}

func (s *Server) handleGetTopStyles(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	names, err := s.profiles.LoadTopStyles(r.Context(), profile)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TopStylesBody{Profile: profile, TopStyles: names})
}

// handlePutTopStyles stores the editor selections. Quoted and "none"
// entries are normalized the same way the editor node does it.
func (s *Server) handlePutTopStyles(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	var body TopStylesBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if len(body.TopStyles) > db.MaxTopStyles {
		writeError(w, http.StatusBadRequest, "invalid_request", "at most 10 top styles can be stored")
		return
	}

	names := s.editor.Execute(body.TopStyles)
	if err := s.profiles.SaveTopStyles(r.Context(), profile, names); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TopStylesBody{Profile: profile, TopStyles: names})
}

func (s *Server) handleGetCustomization(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	c, found, err := s.profiles.LoadCustomization(r.Context(), profile)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	body := CustomizationBody{Profile: profile, Found: found}
	if found {
		body.Text = c.Text
		updated := c.UpdatedAt
		body.UpdatedAt = &updated
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePutCustomization(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	var body CustomizationBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := s.profiles.SaveCustomization(r.Context(), profile, body.Text); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CustomizationBody{Profile: profile, Text: body.Text, Found: true})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	n, err := s.profiles.DeleteProfile(r.Context(), profile)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile, "deleted": n})
}
