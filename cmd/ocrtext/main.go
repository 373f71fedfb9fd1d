// Command ocrtext extracts text from a single page image.
//
// Usage: ocrtext [flags] <image_path> [output_file]
//
// The full text is written to output_file when given, otherwise to stdout.
// Exit codes: 0 success, 1 no text detected, 2 input file not found,
// 3 usage or processing error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/booktonote/ocrkit/config"
	"github.com/booktonote/ocrkit/layout"
	"github.com/booktonote/ocrkit/ocr"
	"github.com/booktonote/ocrkit/ocr/ollama"
	"github.com/booktonote/ocrkit/ocr/tesseract"
	"github.com/booktonote/ocrkit/preprocess"
	"github.com/booktonote/ocrkit/worker"
)

const (
	exitSuccess         = 0
	exitNoText          = 1
	exitFileNotFound    = 2
	exitProcessingError = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ocrtext [flags] <image_path> [output_file]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&cfg.Engine, "engine", cfg.Engine, "Recognition backend (tesseract, ollama)")
	flag.IntVar(&cfg.MaxDimension, "max-dimension", cfg.MaxDimension, "Override the backend's resolution cap (0 = backend default)")
	flag.Float64Var(&cfg.GapThreshold, "gap-threshold", cfg.GapThreshold, "Vertical paragraph-break distance in box units")
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		return exitProcessingError
	}
	imagePath := flag.Arg(0)
	outputFile := flag.Arg(1)

	engine, err := buildEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrtext: %v\n", err)
		return exitProcessingError
	}

	ctx := context.Background()
	if init, ok := engine.(ocr.Initializer); ok {
		if err := init.Init(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "ocrtext: %v\n", err)
			return exitProcessingError
		}
	}

	text, err := extract(ctx, cfg, engine, imagePath)
	switch {
	case errors.Is(err, preprocess.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", imagePath)
		return exitFileNotFound
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error processing image: %v\n", err)
		return exitProcessingError
	case text == "":
		fmt.Fprintln(os.Stderr, "No text detected")
		return exitNoText
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			return exitProcessingError
		}
	} else {
		fmt.Println(text)
	}
	return exitSuccess
}

func extract(ctx context.Context, cfg *config.Config, engine ocr.Engine, imagePath string) (string, error) {
	maxDim := cfg.MaxDimension
	if maxDim <= 0 {
		maxDim = worker.DefaultMaxDimension
		if hinter, ok := engine.(ocr.DimensionHinter); ok {
			maxDim = hinter.MaxDimension()
		}
	}

	work, err := preprocess.NewPreprocessor(cfg.ScratchDir).Prepare(imagePath, maxDim)
	if err != nil {
		return "", err
	}
	defer work.Release()

	result, err := engine.Recognize(ctx, ocr.NewInput(work.Path, ocr.WithLanguages(cfg.Languages...)))
	if err != nil {
		return "", err
	}

	rec := layout.NewReconstructor(layout.WithGapThreshold(cfg.GapThreshold))
	text, _ := rec.Reconstruct(result)
	return strings.TrimSpace(text), nil
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
