package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/booktonote/ocrkit/ocr"
)

// Package defaults for the local Ollama daemon.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "qwen2-vl"

	// maxDimension caps input resolution. Vision models are memory-bound,
	// so the cap is far below the line-detection one.
	maxDimension = 1024
)

// DefaultPrompt asks the model for a plain transcription. The free-text
// layout pass relies on the paragraph breaks the model emits.
const DefaultPrompt = "Extract all the text from this book page. Output only the text, preserving paragraphs."

// Engine implements ocr.Engine against the Ollama /api/generate endpoint.
// The model's response is treated as one opaque text block; no geometry is
// available.
type Engine struct {
	baseURL string
	model   string
	prompt  string
	client  *http.Client
}

// Option configures an Engine.
type Option func(*Engine)

// WithBaseURL points the engine at a non-default Ollama daemon.
func WithBaseURL(url string) Option {
	return func(e *Engine) {
		if url != "" {
			e.baseURL = url
		}
	}
}

// WithModel selects the vision model to prompt.
func WithModel(model string) Option {
	return func(e *Engine) {
		if model != "" {
			e.model = model
		}
	}
}

// WithPrompt overrides the extraction prompt.
func WithPrompt(prompt string) Option {
	return func(e *Engine) {
		if prompt != "" {
			e.prompt = prompt
		}
	}
}

// WithHTTPClient substitutes the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.client = client
		}
	}
}

// NewEngine constructs a generative recognition engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		prompt:  DefaultPrompt,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return "ollama" }

// MaxDimension implements ocr.DimensionHinter.
func (e *Engine) MaxDimension() int { return maxDimension }

// Init pings the daemon so that a missing or unreachable Ollama install is
// reported before the worker signals readiness. It implements
// ocr.Initializer.
func (e *Engine) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("reach ollama at %s: %w", e.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama probe returned status %d", resp.StatusCode)
	}
	return nil
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Recognize sends the image to the model and returns its transcription as a
// free-text result.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	imageData, err := os.ReadFile(in.Path)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("read image: %w", err)
	}

	payload := generateRequest{
		Model:  e.model,
		Prompt: e.prompt,
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream: false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return ocr.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ocr.Result{}, fmt.Errorf("ollama request failed with status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("read response: %w", err)
	}
	var gen generateResponse
	if err := json.Unmarshal(raw, &gen); err != nil {
		return ocr.Result{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return ocr.TextResult(gen.Response), nil
}
