package preprocess

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// Register the webp decoder; imaging.Open falls through to image.Decode
	// for formats it does not handle natively.
	_ "golang.org/x/image/webp"
)

// ErrNotFound marks a source path that does not exist. It is checked before
// any decode attempt.
var ErrNotFound = errors.New("image file not found")

// WorkFile is the scratch PNG handed to a recognition backend. It is owned
// by exactly one in-flight request and must be released on every exit path.
type WorkFile struct {
	Path string
	// Resized reports whether the source exceeded the dimension cap.
	Resized bool
	// SourceFormat is the sniffed container format of the original file.
	SourceFormat Format
}

// Release deletes the scratch file. Releasing twice is harmless.
func (w *WorkFile) Release() error {
	if w == nil || w.Path == "" {
		return nil
	}
	err := os.Remove(w.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove scratch file: %w", err)
	}
	w.Path = ""
	return nil
}

// Preprocessor prepares source images for recognition.
type Preprocessor struct {
	scratchDir string
}

// NewPreprocessor builds a preprocessor writing scratch files under
// scratchDir. An empty scratchDir falls back to the system temp directory.
func NewPreprocessor(scratchDir string) *Preprocessor {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &Preprocessor{scratchDir: scratchDir}
}

// Resize returns img capped at maxDim on its longer side, preserving aspect
// ratio with floor rounding, and reports whether resampling happened. Images
// already within the cap are returned unchanged. A non-positive maxDim
// disables the cap.
func Resize(img image.Image, maxDim int) (image.Image, bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if maxDim <= 0 || longest <= maxDim {
		return img, false
	}
	scale := float64(maxDim) / float64(longest)
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return imaging.Resize(img, newW, newH, imaging.Lanczos), true
}

// Prepare decodes the image at path, applies the dimension cap, and writes
// the result as a lossless scratch PNG.
func (p *Preprocessor) Prepare(path string, maxDim int) (*WorkFile, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	resized, wasResized := Resize(img, maxDim)

	scratch := filepath.Join(p.scratchDir, scratchName())
	if err := imaging.Save(resized, scratch); err != nil {
		return nil, fmt.Errorf("write scratch png: %w", err)
	}
	return &WorkFile{Path: scratch, Resized: wasResized, SourceFormat: format}, nil
}

// scratchName produces a collision-resistant file name. The timestamp keeps
// leaked files attributable during debugging.
func scratchName() string {
	return fmt.Sprintf("ocr-input-%d-%s.png", time.Now().UnixMicro(), uuid.NewString())
}
