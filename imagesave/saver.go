package imagesave

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Save errors.
var (
	// ErrNoImages is returned when Save is called with an empty batch.
	ErrNoImages = errors.New("imagesave: no images to save")

	// ErrOutsideOutputDir is returned when a prefix resolves outside the
	// output directory.
	ErrOutsideOutputDir = errors.New("imagesave: path is outside the output directory")
)

// DefaultPrefix is the filename prefix used when none is given.
const DefaultPrefix = "ZImage"

// Location identifies a saved image relative to the output directory.
type Location struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// Saver writes image batches into OutputDir.
type Saver struct {
	// OutputDir is the root directory for saved images.
	OutputDir string

	// Type is reported in every Location ("output" or "temp").
	Type string

	// Logger receives one entry per saved file. Nil disables logging.
	Logger *zap.Logger

	// Now returns the time used for filename variables. Nil means time.Now.
	Now func() time.Time
}

// NewSaver creates a Saver for outputDir reporting the "output" type.
func NewSaver(outputDir string, logger *zap.Logger) *Saver {
	return &Saver{OutputDir: outputDir, Type: "output", Logger: logger}
}

// Save writes images as "<name>_<counter>_.png", numbering after the files
// already present for the same prefix.
//
// The prefix may contain filename variables (see SolveFilenameVariables),
// %width% and %height% of the first image, %batch_num% for the position in
// the batch, and a relative subfolder.
func (s *Saver) Save(ctx context.Context, images []image.Image, prefix string, meta Metadata) ([]Location, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}

	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	bounds := images[0].Bounds()
	prefix = SolveFilenameVariables(prefix, now())
	target, err := resolveSavePath(s.OutputDir, prefix, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(target.folder, 0755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	chunks, err := meta.TextChunks()
	if err != nil {
		return nil, err
	}

	locations := make([]Location, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return locations, err
		}

		batchName := strings.ReplaceAll(target.name, batchNumVar, strconv.Itoa(i))
		filename := fmt.Sprintf("%s_%05d_.png", batchName, target.counter+i)
		path := filepath.Join(target.folder, filename)

		if err := writePNGFile(path, img, chunks); err != nil {
			return locations, err
		}
		logger.Debug("image saved", zap.String("path", path))

		locations = append(locations, Location{
			Filename:  filename,
			Subfolder: target.subfolder,
			Type:      s.Type,
		})
	}

	logger.Info("images saved",
		zap.Int("count", len(locations)),
		zap.String("folder", target.folder))
	return locations, nil
}

func writePNGFile(path string, img image.Image, chunks []TextChunk) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, img, chunks); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

type savePath struct {
	folder    string
	name      string
	subfolder string
	counter   int
}

// resolveSavePath splits prefix into subfolder and file name, checks that the
// folder stays inside outputDir and finds the next free counter.
func resolveSavePath(outputDir, prefix string, width, height int) (savePath, error) {
	prefix = strings.ReplaceAll(prefix, "%width%", strconv.Itoa(width))
	prefix = strings.ReplaceAll(prefix, "%height%", strconv.Itoa(height))

	subfolder := filepath.Dir(filepath.FromSlash(prefix))
	if subfolder == "." {
		subfolder = ""
	}
	name := filepath.Base(filepath.FromSlash(prefix))

	root, err := filepath.Abs(outputDir)
	if err != nil {
		return savePath{}, fmt.Errorf("resolve output dir: %w", err)
	}
	folder := filepath.Join(root, subfolder)
	if rel, err := filepath.Rel(root, folder); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return savePath{}, fmt.Errorf("%w: %s", ErrOutsideOutputDir, prefix)
	}

	return savePath{
		folder:    folder,
		name:      name,
		subfolder: filepath.ToSlash(subfolder),
		counter:   nextCounter(folder, name),
	}, nil
}

// batchNumVar is replaced per image with its position in the batch.
const batchNumVar = "%batch_num%"

// nextCounter returns one more than the highest counter among files named
// "<name>_<digits>..." in folder, or 1 when there are none. A %batch_num%
// in name matches any number, so batches saved under the same prefix keep
// counting instead of overwriting each other.
func nextCounter(folder, name string) int {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return 1
	}

	quoted := strings.ReplaceAll(regexp.QuoteMeta(name), regexp.QuoteMeta(batchNumVar), `\d+`)
	pattern := regexp.MustCompile(`^` + quoted + `_(\d+)(?:_.*)?$`)

	highest := 0
	for _, e := range entries {
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
