package webui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"zimage_power/imagesave"

	"go.uber.org/zap/zaptest"
	"golang.org/x/image/bmp"
)

type upload struct {
	name string
	data []byte
}

func encodeTestImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	var err error
	switch format {
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string]string, files []upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("image", f.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(f.data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/zi_power/save", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_Save(t *testing.T) {
	outDir := t.TempDir()
	saver := imagesave.NewSaver(outDir, zaptest.NewLogger(t))
	h := newTestServer(t, Dependencies{Saver: saver})

	req := multipartRequest(t,
		map[string]string{
			"prefix": "tests/shot_%width%x%height%",
			"prompt": `{"3":{"class_type":"ZSamplerTurbo"}}`,
			"extra":  `{"seed":7}`,
		},
		[]upload{
			{"a.png", encodeTestImage(t, "png")},
			{"b.bmp", encodeTestImage(t, "bmp")},
		},
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	resp := decode[SaveResponse](t, rec)
	if len(resp.Images) != 2 {
		t.Fatalf("saved %d images, want 2", len(resp.Images))
	}
	first := resp.Images[0]
	if first.Filename != "shot_4x3_00001_.png" || first.Subfolder != "tests" || first.Type != "output" {
		t.Errorf("first location = %+v", first)
	}

	data, err := os.ReadFile(filepath.Join(outDir, first.Subfolder, first.Filename))
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := imagesave.ReadTextChunks(data)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, c := range chunks {
		got[c.Keyword] = c.Text
	}
	if got["prompt"] != `{"3":{"class_type":"ZSamplerTurbo"}}` || got["seed"] != "7" {
		t.Errorf("chunks = %v", got)
	}
}

func TestServer_SaveErrors(t *testing.T) {
	h := newTestServer(t, Dependencies{Saver: imagesave.NewSaver(t.TempDir(), nil)})

	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
		code   string
	}{
		{"no images", nil, nil, "no_images"},
		{"not an image", nil, []upload{{"x.png", []byte("nope")}}, "invalid_image"},
		{"bad prompt json", map[string]string{"prompt": "{"}, []upload{{"a.png", encodeTestImage(t, "png")}}, "bad_request"},
		{"escaping prefix", map[string]string{"prefix": "../../etc/x"}, []upload{{"a.png", encodeTestImage(t, "png")}}, "invalid_prefix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, multipartRequest(t, tt.fields, tt.files))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if got := decode[ErrorResponse](t, rec).Error; got != tt.code {
				t.Errorf("error code = %q, want %q", got, tt.code)
			}
		})
	}

	rec := do(t, h, http.MethodPost, "/zi_power/save", `{"json":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-multipart status = %d", rec.Code)
	}
}

func TestServer_SaveDisabled(t *testing.T) {
	h := newTestServer(t, Dependencies{})
	if rec := do(t, h, http.MethodPost, "/zi_power/save", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a saver", rec.Code)
	}
}

func TestServer_Filename(t *testing.T) {
	h := newTestServer(t, Dependencies{})
	rec := do(t, h, http.MethodGet, "/zi_power/filename?pattern=img_%25%25_plain", nil)
	if got := decode[map[string]string](t, rec)["filename"]; got != "img_%_plain" {
		t.Errorf("filename = %q", got)
	}
}
