// Package layout reconstructs reading-order paragraphs from raw recognition
// output. Structured results (lines with geometry) are ordered by vertical
// position and segmented at large vertical gaps; free-text results are
// normalized around the paragraph breaks the backend emitted.
package layout

import (
	"sort"
	"strings"

	"github.com/booktonote/ocrkit/ocr"
)

const (
	// DefaultGapThreshold is the vertical distance, in bounding-box units,
	// between consecutive line centers beyond which a new paragraph starts.
	DefaultGapThreshold = 40

	// DefaultMinConfidence drops detections at or below this confidence.
	DefaultMinConfidence = 0.5

	// fallbackLineSpacing synthesizes vertical keys for lines without
	// geometry, preserving the backend's emission order.
	fallbackLineSpacing = 10

	// ParagraphSeparator joins paragraphs into the full text.
	ParagraphSeparator = "\n\n"
)

// Reconstructor converts recognition results into canonical full text plus
// ordered paragraphs.
type Reconstructor struct {
	gapThreshold  float64
	minConfidence float64
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithGapThreshold sets the paragraph-break distance. The value is in the
// same coordinate units as the backend's bounding boxes, so callers feeding
// differently scaled images must supply their own.
func WithGapThreshold(gap float64) Option {
	return func(r *Reconstructor) { r.gapThreshold = gap }
}

// WithMinConfidence sets the exclusive lower confidence bound. Lines at
// exactly the bound are dropped.
func WithMinConfidence(c float64) Option {
	return func(r *Reconstructor) { r.minConfidence = c }
}

// NewReconstructor builds a reconstructor with the given options applied
// over the defaults.
func NewReconstructor(opts ...Option) *Reconstructor {
	r := &Reconstructor{
		gapThreshold:  DefaultGapThreshold,
		minConfidence: DefaultMinConfidence,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconstruct dispatches on the result shape. An empty paragraph list
// signals that no text was detected.
func (r *Reconstructor) Reconstruct(res ocr.Result) (string, []string) {
	if res.Structured {
		return r.FromLines(res.Lines)
	}
	return r.FromText(res.Text)
}

type keyedLine struct {
	y    float64
	text string
}

// FromLines orders detections top to bottom and groups them into paragraphs
// at vertical gaps exceeding the threshold.
func (r *Reconstructor) FromLines(lines []ocr.Line) (string, []string) {
	keyed := make([]keyedLine, 0, len(lines))
	for i, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" || line.Confidence <= r.minConfidence {
			continue
		}
		y := float64(i * fallbackLineSpacing)
		if line.Box != nil {
			y = line.Box.VerticalCenter()
		}
		keyed = append(keyed, keyedLine{y: y, text: text})
	}
	if len(keyed) == 0 {
		return "", nil
	}

	// Ties keep their prior relative order; the synthetic fallback keys are
	// already monotonic with emission index.
	sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].y < keyed[j].y })

	var paragraphs []string
	var current []string
	lastY := 0.0
	haveLast := false
	for _, line := range keyed {
		if haveLast && line.y-lastY > r.gapThreshold && len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
		current = append(current, line.text)
		lastY = line.y
		haveLast = true
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return strings.Join(paragraphs, ParagraphSeparator), paragraphs
}

// FromText normalizes a generated block around its paragraph breaks. Blocks
// without blank-line separators are split on single newlines instead.
func (r *Reconstructor) FromText(text string) (string, []string) {
	fragments := strings.Split(text, ParagraphSeparator)
	if len(fragments) == 1 {
		fragments = strings.Split(text, "\n")
	}

	var paragraphs []string
	for _, fragment := range fragments {
		cleaned := strings.Join(strings.Fields(fragment), " ")
		if cleaned != "" {
			paragraphs = append(paragraphs, cleaned)
		}
	}
	if len(paragraphs) == 0 {
		return "", nil
	}
	return strings.Join(paragraphs, ParagraphSeparator), paragraphs
}
