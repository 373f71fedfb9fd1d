// Package worker runs the persistent request loop: one JSON request per
// input line, one JSON response per output line, strictly in order. The
// recognition backend is initialized once and reused; every per-request
// failure is isolated so the loop survives anything short of a failed
// initialization.
package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/booktonote/ocrkit/layout"
	"github.com/booktonote/ocrkit/observability"
	"github.com/booktonote/ocrkit/ocr"
	"github.com/booktonote/ocrkit/preprocess"
	"github.com/booktonote/ocrkit/scripting"
)

// DefaultMaxDimension caps preprocessing resolution for engines that do not
// hint their own.
const DefaultMaxDimension = 2200

// maxRequestLine bounds a single protocol line.
const maxRequestLine = 1 << 20

// Worker ties the preprocessor, recognition backend, and layout
// reconstruction together. It processes requests strictly one at a time.
type Worker struct {
	engine ocr.Engine
	pre    *preprocess.Preprocessor
	rec    *layout.Reconstructor
	post   *scripting.PostProcessor
	log    observability.Logger
	maxDim int
	inputs []ocr.InputOption
}

// Option configures a Worker.
type Option func(*Worker)

// WithPreprocessor substitutes the image preprocessor.
func WithPreprocessor(p *preprocess.Preprocessor) Option {
	return func(w *Worker) { w.pre = p }
}

// WithReconstructor substitutes the layout reconstructor.
func WithReconstructor(r *layout.Reconstructor) Option {
	return func(w *Worker) { w.rec = r }
}

// WithPostProcessor installs a script hook applied after reconstruction.
func WithPostProcessor(p *scripting.PostProcessor) Option {
	return func(w *Worker) { w.post = p }
}

// WithLogger sets the diagnostic logger. Diagnostics never touch the
// response stream.
func WithLogger(log observability.Logger) Option {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}

// WithMaxDimension overrides the preprocessing resolution cap for all
// requests, taking precedence over the engine's own hint.
func WithMaxDimension(maxDim int) Option {
	return func(w *Worker) {
		if maxDim > 0 {
			w.maxDim = maxDim
		}
	}
}

// WithInputOptions applies recognition input options (languages, engine
// variables) to every request.
func WithInputOptions(opts ...ocr.InputOption) Option {
	return func(w *Worker) { w.inputs = opts }
}

// New builds a worker around the given recognition engine.
func New(engine ocr.Engine, opts ...Option) *Worker {
	w := &Worker{
		engine: engine,
		pre:    preprocess.NewPreprocessor(""),
		rec:    layout.NewReconstructor(),
		log:    observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.maxDim == 0 {
		if hinter, ok := engine.(ocr.DimensionHinter); ok {
			w.maxDim = hinter.MaxDimension()
		} else {
			w.maxDim = DefaultMaxDimension
		}
	}
	return w
}

// Init runs the engine's expensive initialization when it declares one.
// A failure here is the only fatal error class.
func (w *Worker) Init(ctx context.Context) error {
	init, ok := w.engine.(ocr.Initializer)
	if !ok {
		return nil
	}
	w.log.Info("initializing recognition engine", observability.String("engine", w.engine.Name()))
	if err := init.Init(ctx); err != nil {
		return fmt.Errorf("initialize %s engine: %w", w.engine.Name(), err)
	}
	w.log.Info("recognition engine ready", observability.String("engine", w.engine.Name()))
	return nil
}

// Run consumes requests from in until it is drained, writing one response
// per request to out. It emits the readiness signal first and returns nil on
// a clean drain.
func (w *Worker) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(readySignal{Ready: true}); err != nil {
		return fmt.Errorf("emit readiness signal: %w", err)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := w.handleLine(ctx, line)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request stream: %w", err)
	}
	w.log.Info("request stream drained, terminating")
	return nil
}

func (w *Worker) handleLine(ctx context.Context, line string) Response {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		w.log.Warn("rejecting malformed request line", observability.Error("error", err))
		return failure(fmt.Sprintf("Invalid JSON: %v", err))
	}
	return w.Process(ctx, req)
}

// Process executes one request through the full pipeline. All failures are
// converted to failure responses; a panicking backend is contained the same
// way.
func (w *Worker) Process(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("recovered processing panic", observability.String("panic", fmt.Sprint(r)))
			resp = failure(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	if req.ImagePath == "" {
		return failure("Missing image_path")
	}
	if info, err := os.Stat(req.ImagePath); err != nil || info.IsDir() {
		return failure(fmt.Sprintf("File not found: %s", req.ImagePath))
	}

	work, err := w.pre.Prepare(req.ImagePath, w.maxDim)
	if err != nil {
		return failure(err.Error())
	}
	defer func() {
		if releaseErr := work.Release(); releaseErr != nil {
			w.log.Warn("scratch file not released", observability.Error("error", releaseErr))
		}
	}()

	result, err := w.engine.Recognize(ctx, ocr.NewInput(work.Path, w.inputs...))
	if err != nil {
		w.log.Warn("recognition failed",
			observability.String("image", req.ImagePath),
			observability.Error("error", err),
		)
		return failure(err.Error())
	}

	text, paragraphs := w.rec.Reconstruct(result)

	if w.post != nil {
		text, paragraphs, err = w.post.Apply(ctx, text, paragraphs)
		if err != nil {
			return failure(err.Error())
		}
	}

	if strings.TrimSpace(text) == "" {
		return failure("No text detected")
	}

	w.log.Debug("request processed",
		observability.String("image", req.ImagePath),
		observability.Bool("resized", work.Resized),
		observability.Int("paragraphs", len(paragraphs)),
	)
	return success(text, paragraphs)
}
