package ocr

import "context"

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// VerticalCenter returns the midpoint between the region's top and bottom
// edges. Layout reconstruction orders lines by this value.
func (r Region) VerticalCenter() float64 { return (r.Y0 + r.Y1) / 2 }

// Line represents a single recognized text line.
type Line struct {
	Text string
	// Confidence is the backend's recognition confidence in [0, 1].
	Confidence float64
	// Box is the line's bounding box. Nil when the backend reports no
	// geometry; such lines keep their emission order during layout.
	Box *Region
}

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// Path is the filesystem location of the raster image. The preprocessor
	// guarantees an unambiguous format (PNG) before the backend sees it.
	Path string
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// backends can use to select trained data.
	Languages []string
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "psm" for Tesseract) without hard-coding them into the API surface.
	Metadata map[string]string
}

// Result captures recognition output for a single image. Exactly one of the
// two shapes is populated: line-detection backends fill Lines, generative
// backends fill Text with an opaque block containing its own line breaks.
type Result struct {
	Lines []Line
	Text  string
	// Structured reports which shape the backend produced. It is set by the
	// Lines/Text constructors rather than inferred from emptiness so that a
	// structured result with zero surviving lines stays distinguishable.
	Structured bool
}

// LinesResult builds a structured result from per-line detections.
func LinesResult(lines []Line) Result {
	return Result{Lines: lines, Structured: true}
}

// TextResult builds a free-text result from a generated block.
func TextResult(text string) Result {
	return Result{Text: text}
}

// Engine is the recognition backend contract: one image in, one result out.
// Recognize is invoked at most once per request, synchronously, with no
// partial or streaming results.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// Initializer is implemented by engines whose startup is expensive or can
// fail (model loading, native library probes). The worker runs Init once
// before accepting requests and treats a failure as fatal.
type Initializer interface {
	Init(ctx context.Context) error
}

// DimensionHinter lets an engine cap the resolution of images it is handed.
// Line-detection backends tolerate large pages while generative backends are
// memory-bound and want smaller inputs.
type DimensionHinter interface {
	MaxDimension() int
}
