package ocr

import "context"

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the library's default recognition engine. Importing
// the tesseract subpackage replaces the initial no-op engine.
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the library's default recognition engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

type noopEngine struct{}

func (n noopEngine) Name() string {
	return "noop"
}

func (n noopEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	return Result{}, nil
}
