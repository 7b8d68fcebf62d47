package webui

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"zimage_power/imagesave"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxUploadBytes bounds a save request, images included.
const maxUploadBytes = 256 << 20

// SaveResponse is the body returned by POST /zi_power/save.
type SaveResponse struct {
	Images []imagesave.Location `json:"images"`
}

// handleSave stores uploaded images with their generation metadata.
//
// The request is multipart/form-data with one or more "image" files (PNG,
// JPEG, WebP or BMP) and the optional fields "prefix", "prompt",
// "workflow" and "extra" (a JSON object). Images are re-encoded as PNG.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "expected multipart/form-data: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	meta, err := metadataFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	files := r.MultipartForm.File["image"]
	images := make([]image.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		img, format, err := image.Decode(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_image", fmt.Sprintf("%s: %v", fh.Filename, err))
			return
		}
		s.logger.Debug("Decoded upload", zap.String("format", format), zap.String("name", fh.Filename))
		images = append(images, img)
	}

	locations, err := s.saver.Save(r.Context(), images, r.FormValue("prefix"), meta)
	switch {
	case errors.Is(err, imagesave.ErrNoImages):
		writeError(w, http.StatusBadRequest, "no_images", err.Error())
		return
	case errors.Is(err, imagesave.ErrOutsideOutputDir):
		writeError(w, http.StatusBadRequest, "invalid_prefix", err.Error())
		return
	case err != nil:
		s.internalError(w, r, "save_failed", "could not save the images", err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Images: locations})
}

func metadataFromForm(r *http.Request) (imagesave.Metadata, error) {
	var meta imagesave.Metadata
	parse := func(field string, dst *any) error {
		raw := r.FormValue(field)
		if raw == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return fmt.Errorf("%s is not valid JSON: %w", field, err)
		}
		return nil
	}
	if err := parse("prompt", &meta.Prompt); err != nil {
		return meta, err
	}
	if err := parse("workflow", &meta.Workflow); err != nil {
		return meta, err
	}
	if raw := r.FormValue("extra"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta.Extra); err != nil {
			return meta, fmt.Errorf("extra must be a JSON object: %w", err)
		}
	}
	return meta, nil
}

// handleFilename previews the expansion of ?pattern= with the current time.
func (s *Server) handleFilename(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	writeJSON(w, http.StatusOK, map[string]string{
		"pattern":  pattern,
		"filename": imagesave.SolveFilenameVariables(pattern, time.Now()),
	})
}
