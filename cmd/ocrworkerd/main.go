// Command ocrworkerd is the persistent recognition worker. It initializes a
// backend once, signals readiness, and then answers line-delimited JSON
// requests on stdin with one JSON response per line on stdout until stdin
// closes. All diagnostics go to stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/booktonote/ocrkit/config"
	"github.com/booktonote/ocrkit/layout"
	"github.com/booktonote/ocrkit/observability"
	"github.com/booktonote/ocrkit/ocr"
	"github.com/booktonote/ocrkit/ocr/ollama"
	"github.com/booktonote/ocrkit/ocr/tesseract"
	"github.com/booktonote/ocrkit/preprocess"
	"github.com/booktonote/ocrkit/scripting"
	"github.com/booktonote/ocrkit/worker"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.Engine, "engine", cfg.Engine, "Recognition backend (tesseract, ollama)")
	flag.StringVar(&cfg.ScratchDir, "scratch", cfg.ScratchDir, "Directory for per-request working images")
	flag.IntVar(&cfg.MaxDimension, "max-dimension", cfg.MaxDimension, "Override the backend's resolution cap (0 = backend default)")
	flag.Float64Var(&cfg.GapThreshold, "gap-threshold", cfg.GapThreshold, "Vertical paragraph-break distance in box units")
	flag.StringVar(&cfg.ScriptPath, "script", cfg.ScriptPath, "Optional JavaScript post-processing hook")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Diagnostic log level")
	flag.Parse()

	log, err := observability.NewZapLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrworkerd: build logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("worker failed", observability.Error("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log observability.Logger) error {
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	opts := []worker.Option{
		worker.WithLogger(log),
		worker.WithPreprocessor(preprocess.NewPreprocessor(cfg.ScratchDir)),
		worker.WithReconstructor(layout.NewReconstructor(layout.WithGapThreshold(cfg.GapThreshold))),
		worker.WithMaxDimension(cfg.MaxDimension),
		worker.WithInputOptions(ocr.WithLanguages(cfg.Languages...)),
	}
	if cfg.ScriptPath != "" {
		post, err := scripting.LoadPostProcessor(scripting.NewEngine(), cfg.ScriptPath)
		if err != nil {
			return err
		}
		opts = append(opts, worker.WithPostProcessor(post))
	}

	w := worker.New(engine, opts...)

	ctx := context.Background()
	if err := w.Init(ctx); err != nil {
		return err
	}
	return w.Run(ctx, os.Stdin, os.Stdout)
}

func buildEngine(cfg *config.Config) (ocr.Engine, error) {
	switch cfg.Engine {
	case "tesseract", "":
		return tesseract.NewEngine(), nil
	case "ollama":
		return ollama.NewEngine(
			ollama.WithBaseURL(cfg.OllamaURL),
			ollama.WithModel(cfg.OllamaModel),
			ollama.WithPrompt(cfg.OllamaPrompt),
		), nil
	default:
		return nil, fmt.Errorf("unknown engine type: %s", cfg.Engine)
	}
}
