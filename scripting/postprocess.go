package scripting

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PostProcessor applies a user script to reconstructed recognition output.
// The script sees two globals, `text` (string) and `paragraphs` (array of
// strings), and its final value decides the replacement:
//
//   - a string replaces the full text; paragraphs are re-derived from its
//     blank-line separators
//   - an array of strings replaces the paragraphs; the full text is rejoined
//   - any other value (including undefined) leaves the result unchanged
type PostProcessor struct {
	engine Engine
	script string
}

// NewPostProcessor wraps a script source.
func NewPostProcessor(engine Engine, script string) *PostProcessor {
	return &PostProcessor{engine: engine, script: script}
}

// LoadPostProcessor reads the script from a file.
func LoadPostProcessor(engine Engine, path string) (*PostProcessor, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post-processing script: %w", err)
	}
	return NewPostProcessor(engine, string(src)), nil
}

// Apply runs the script over one result. A script error fails only the
// request it ran for.
func (p *PostProcessor) Apply(ctx context.Context, text string, paragraphs []string) (string, []string, error) {
	if err := p.engine.Bind("text", text); err != nil {
		return "", nil, fmt.Errorf("bind text: %w", err)
	}
	// Hand the script a native array rather than a wrapped Go slice.
	items := make([]interface{}, len(paragraphs))
	for i, paragraph := range paragraphs {
		items[i] = paragraph
	}
	if err := p.engine.Bind("paragraphs", items); err != nil {
		return "", nil, fmt.Errorf("bind paragraphs: %w", err)
	}

	val, err := p.engine.Execute(ctx, p.script)
	if err != nil {
		return "", nil, fmt.Errorf("post-processing script: %w", err)
	}

	switch out := val.(type) {
	case string:
		return out, splitParagraphs(out), nil
	case []interface{}:
		replaced := make([]string, 0, len(out))
		for _, item := range out {
			s, ok := item.(string)
			if !ok {
				return "", nil, fmt.Errorf("post-processing script: paragraph %T is not a string", item)
			}
			replaced = append(replaced, s)
		}
		return strings.Join(replaced, "\n\n"), replaced, nil
	case []string:
		return strings.Join(out, "\n\n"), out, nil
	default:
		return text, paragraphs, nil
	}
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, fragment := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}
