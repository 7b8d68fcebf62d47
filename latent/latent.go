// Package latent computes the shape of empty Z-Image latents from a named
// aspect ratio, an orientation and a relative size.
package latent

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidBatch is returned when the batch size is out of range.
var ErrInvalidBatch = errors.New("latent: invalid batch size")

// Latent geometry of the Z-Image model.
const (
	GridSize  = 32 // image sides are rounded down to a multiple of this
	Channels  = 16
	BlockSize = 8 // pixels per latent cell side

	MinBatch = 1
	MaxBatch = 4096
)

// Defaults offered by the node.
const (
	DefaultRatio       = "3:2  (photo)"
	DefaultOrientation = "portrait"
	DefaultSize        = "medium (recommended)"
)

// Ratio is a named aspect ratio with its landscape base size in pixels.
type Ratio struct {
	Name   string
	Width  float64
	Height float64
}

var ratios = []Ratio{
	{"1:1  (square)", 1024.0, 1024.0},
	{"4:3  (retro tv)", 1182.4, 886.8},
	{"3:2  (photo)", 1252.8, 837.0},
	{"16:10  (monitor)", 1295.3, 809.5},
	{"16:9  (widescreen)", 1365.3, 768.0},
	{"2:1  (univisium)", 1448.2, 724.0},
	{"21:9  (ultrawide)", 1564.2, 670.4},
	{"12:5  (anamorphic)", 1586.4, 661.0},
	{"70:27  (cinerama)", 1648.8, 636.0},
	{"32:9  (super wide)", 1930.9, 543.0},
}

var orientations = []string{"landscape", "portrait"}

type scale struct {
	name   string
	factor float64
}

var scales = []scale{
	{"small", 1.0},
	{"medium (recommended)", 1.3},
	{"large", 1.6},
}

// Ratios returns the ratio names in display order.
func Ratios() []string {
	names := make([]string, len(ratios))
	for i, r := range ratios {
		names[i] = r.Name
	}
	return names
}

// Orientations returns the orientation names.
func Orientations() []string {
	return append([]string(nil), orientations...)
}

// Sizes returns the size names in display order.
func Sizes() []string {
	names := make([]string, len(scales))
	for i, s := range scales {
		names[i] = s.name
	}
	return names
}

// Shape is the size of an empty latent batch together with the image size
// it decodes to.
type Shape struct {
	Batch    int `json:"batch"`
	Channels int `json:"channels"`
	Height   int `json:"height"`
	Width    int `json:"width"`

	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
}

// Compute returns the latent shape for the given node inputs.
//
// Unknown ratios fall back to 1024x1024 and unknown sizes to a scale of 1.
// Any orientation other than "landscape..." is treated as portrait and
// swaps the sides. Image sides are rounded down to the grid.
// This is a pure function with no side effects.
func Compute(ratio, orientation, size string, batch int) (Shape, error) {
	if batch < MinBatch || batch > MaxBatch {
		return Shape{}, fmt.Errorf("%w: %d must be between %d and %d",
			ErrInvalidBatch, batch, MinBatch, MaxBatch)
	}

	w, h := 1024.0, 1024.0
	for _, r := range ratios {
		if r.Name == ratio {
			w, h = r.Width, r.Height
			break
		}
	}

	factor := 1.0
	for _, s := range scales {
		if s.name == size {
			factor = s.factor
			break
		}
	}

	w, h = w*factor, h*factor
	if !strings.HasPrefix(orientation, "landscape") {
		w, h = h, w
	}

	imageWidth := snap(w)
	imageHeight := snap(h)

	return Shape{
		Batch:       batch,
		Channels:    Channels,
		Height:      imageHeight / BlockSize,
		Width:       imageWidth / BlockSize,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	}, nil
}

func snap(v float64) int {
	return int(math.Floor(v/GridSize)) * GridSize
}
