package scripting

import (
	"context"
	"reflect"
	"testing"
)

func TestPostProcessorStringResult(t *testing.T) {
	p := NewPostProcessor(NewEngine(), `text.replace(/teh/g, "the")`)
	text, paragraphs, err := p.Apply(context.Background(), "teh first\n\nteh second", []string{"teh first", "teh second"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if text != "the first\n\nthe second" {
		t.Fatalf("unexpected text: %q", text)
	}
	if !reflect.DeepEqual(paragraphs, []string{"the first", "the second"}) {
		t.Fatalf("unexpected paragraphs: %q", paragraphs)
	}
}

func TestPostProcessorArrayResult(t *testing.T) {
	p := NewPostProcessor(NewEngine(), `paragraphs.filter(function(p) { return p !== "noise"; })`)
	text, paragraphs, err := p.Apply(context.Background(), "keep\n\nnoise", []string{"keep", "noise"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if text != "keep" {
		t.Fatalf("unexpected text: %q", text)
	}
	if !reflect.DeepEqual(paragraphs, []string{"keep"}) {
		t.Fatalf("unexpected paragraphs: %q", paragraphs)
	}
}

func TestPostProcessorPassthrough(t *testing.T) {
	p := NewPostProcessor(NewEngine(), `undefined`)
	text, paragraphs, err := p.Apply(context.Background(), "unchanged", []string{"unchanged"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if text != "unchanged" || !reflect.DeepEqual(paragraphs, []string{"unchanged"}) {
		t.Fatalf("expected passthrough, got %q / %q", text, paragraphs)
	}
}

func TestPostProcessorScriptError(t *testing.T) {
	p := NewPostProcessor(NewEngine(), `throw new Error("boom")`)
	if _, _, err := p.Apply(context.Background(), "x", []string{"x"}); err == nil {
		t.Fatalf("expected script error")
	}
}
