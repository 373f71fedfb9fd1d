package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/booktonote/ocrkit/ocr"
)

func init() {
	ocr.SetDefaultEngine(NewEngine())
}

// maxDimension caps input resolution for line detection. Pages larger than
// this gain no accuracy and slow recognition down.
const maxDimension = 2200

// Engine implements ocr.Engine using the gosseract client as a structured
// (line-detection) backend.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed recognition engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// MaxDimension implements ocr.DimensionHinter.
func (e *Engine) MaxDimension() int { return maxDimension }

// Init verifies that the native Tesseract installation is usable. It
// implements ocr.Initializer; the worker treats a failure here as fatal.
func (e *Engine) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("probe tesseract: %w", err)
	}
	if len(langs) == 0 {
		return fmt.Errorf("probe tesseract: no trained language data installed")
	}
	return nil
}

// Recognize performs OCR on a single image and reports per-line detections
// with confidence and bounding boxes.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(in.Path); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	// Text runs the recognition pass; the box query below reuses its result.
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// Geometry is unavailable but recognition succeeded. Degrade to the
		// free-text shape rather than failing the request.
		return ocr.TextResult(text), nil
	}
	lines := make([]ocr.Line, 0, len(boxes))
	for _, b := range boxes {
		region := ocr.Region{
			X0: float64(b.Box.Min.X),
			Y0: float64(b.Box.Min.Y),
			X1: float64(b.Box.Max.X),
			Y1: float64(b.Box.Max.Y),
		}
		lines = append(lines, ocr.Line{
			Text:       b.Word,
			Confidence: b.Confidence / 100.0,
			Box:        &region,
		})
	}
	return ocr.LinesResult(lines), nil
}
