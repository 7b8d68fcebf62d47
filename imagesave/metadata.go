package imagesave

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"sort"
)

// ErrInvalidPNG is returned when encoded PNG data has an unexpected layout.
var ErrInvalidPNG = errors.New("imagesave: invalid png data")

// pngSignature is the fixed 8-byte header of every PNG file.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Metadata is the generation information embedded into saved images.
type Metadata struct {
	// Prompt is the host's prompt graph, stored as the "prompt" chunk.
	Prompt any

	// Workflow is the editor workflow, stored as the "workflow" chunk.
	// When nil, Extra["workflow"] is used.
	Workflow any

	// Extra holds additional entries, each stored as its own chunk.
	// The keys "parameters", "prompt" and "workflow" are skipped.
	Extra map[string]any
}

// TextChunk is one PNG tEXt entry.
type TextChunk struct {
	Keyword string
	Text    string
}

// TextChunks returns the metadata as JSON encoded text chunks: prompt,
// workflow, then the extra entries sorted by key.
func (m Metadata) TextChunks() ([]TextChunk, error) {
	var chunks []TextChunk
	add := func(keyword string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s metadata: %w", keyword, err)
		}
		chunks = append(chunks, TextChunk{Keyword: keyword, Text: string(data)})
		return nil
	}

	if m.Prompt != nil {
		if err := add("prompt", m.Prompt); err != nil {
			return nil, err
		}
	}

	workflow := m.Workflow
	if workflow == nil {
		workflow = m.Extra["workflow"]
	}
	if workflow != nil {
		if err := add("workflow", workflow); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		switch k {
		case "parameters", "prompt", "workflow":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := add(k, m.Extra[k]); err != nil {
			return nil, err
		}
	}
	return chunks, nil
}

// EncodePNG writes img as PNG with chunks inserted as tEXt entries right
// after the IHDR header.
func EncodePNG(w io.Writer, img image.Image, chunks []TextChunk) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	data := buf.Bytes()

	// signature + IHDR (length, type, 13 data bytes, crc)
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || !bytes.Equal(data[:8], pngSignature) || string(data[12:16]) != "IHDR" {
		return ErrInvalidPNG
	}

	if _, err := w.Write(data[:ihdrEnd]); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := writeTextChunk(w, c); err != nil {
			return err
		}
	}
	_, err := w.Write(data[ihdrEnd:])
	return err
}

func writeTextChunk(w io.Writer, c TextChunk) error {
	if len(c.Keyword) == 0 || len(c.Keyword) > 79 {
		return fmt.Errorf("%w: tEXt keyword %q must be 1-79 bytes", ErrInvalidPNG, c.Keyword)
	}

	body := make([]byte, 0, len(c.Keyword)+1+len(c.Text))
	body = append(body, c.Keyword...)
	body = append(body, 0)
	body = append(body, c.Text...)

	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(body)))
	copy(header[4:], "tEXt")

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(body)

	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	for _, b := range [][]byte{header[:], body, footer[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// ReadTextChunks returns the tEXt entries of PNG data in file order.
func ReadTextChunks(data []byte) ([]TextChunk, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], pngSignature) {
		return nil, ErrInvalidPNG
	}

	var chunks []TextChunk
	for pos := 8; pos+12 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		kind := string(data[pos+4 : pos+8])
		end := pos + 12 + length
		if length < 0 || end > len(data) {
			return nil, ErrInvalidPNG
		}
		if kind == "tEXt" {
			body := data[pos+8 : pos+8+length]
			if i := bytes.IndexByte(body, 0); i > 0 {
				chunks = append(chunks, TextChunk{Keyword: string(body[:i]), Text: string(body[i+1:])})
			}
		}
		if kind == "IEND" {
			break
		}
		pos = end
	}
	return chunks, nil
}
