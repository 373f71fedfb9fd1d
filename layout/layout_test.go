package layout

import (
	"reflect"
	"testing"

	"github.com/booktonote/ocrkit/ocr"
)

func box(y0, y1 float64) *ocr.Region {
	return &ocr.Region{X0: 0, Y0: y0, X1: 100, Y1: y1}
}

func line(text string, conf float64, b *ocr.Region) ocr.Line {
	return ocr.Line{Text: text, Confidence: conf, Box: b}
}

func TestFromLinesGroupsByVerticalGap(t *testing.T) {
	// Centers 0, 10, 20, 70, 80 with threshold 40: the 50-unit jump between
	// 20 and 70 starts a second paragraph.
	lines := []ocr.Line{
		line("first", 0.9, box(-5, 5)),
		line("line", 0.9, box(5, 15)),
		line("group", 0.9, box(15, 25)),
		line("second", 0.9, box(65, 75)),
		line("group", 0.9, box(75, 85)),
	}
	text, paragraphs := NewReconstructor().FromLines(lines)
	want := []string{"first line group", "second group"}
	if !reflect.DeepEqual(paragraphs, want) {
		t.Fatalf("paragraphs = %q, want %q", paragraphs, want)
	}
	if text != "first line group\n\nsecond group" {
		t.Fatalf("unexpected full text: %q", text)
	}
}

func TestFromLinesConfidenceBoundIsStrict(t *testing.T) {
	lines := []ocr.Line{
		line("kept", 0.51, box(0, 10)),
		line("dropped", 0.5, box(20, 30)),
		line("also dropped", 0.2, box(40, 50)),
	}
	_, paragraphs := NewReconstructor().FromLines(lines)
	if !reflect.DeepEqual(paragraphs, []string{"kept"}) {
		t.Fatalf("paragraphs = %q", paragraphs)
	}
}

func TestFromLinesDropsBlankText(t *testing.T) {
	lines := []ocr.Line{
		line("   ", 0.9, box(0, 10)),
		line("visible", 0.9, box(20, 30)),
	}
	_, paragraphs := NewReconstructor().FromLines(lines)
	if !reflect.DeepEqual(paragraphs, []string{"visible"}) {
		t.Fatalf("paragraphs = %q", paragraphs)
	}
}

func TestFromLinesSortsByVerticalCenter(t *testing.T) {
	lines := []ocr.Line{
		line("bottom", 0.9, box(195, 205)),
		line("top", 0.9, box(-5, 5)),
		line("middle", 0.9, box(95, 105)),
	}
	text, _ := NewReconstructor(WithGapThreshold(500)).FromLines(lines)
	if text != "top middle bottom" {
		t.Fatalf("unexpected order: %q", text)
	}
}

func TestFromLinesFallbackKeysPreserveEmissionOrder(t *testing.T) {
	// Lines without geometry get synthetic keys of index*10, so they stay in
	// emission order and a mixed gap threshold still applies.
	lines := []ocr.Line{
		line("one", 0.9, nil),
		line("two", 0.9, nil),
		line("three", 0.9, nil),
	}
	_, paragraphs := NewReconstructor().FromLines(lines)
	if !reflect.DeepEqual(paragraphs, []string{"one two three"}) {
		t.Fatalf("paragraphs = %q", paragraphs)
	}
}

func TestFromLinesStableOnEqualCenters(t *testing.T) {
	lines := []ocr.Line{
		line("left", 0.9, box(10, 20)),
		line("right", 0.9, box(10, 20)),
	}
	text, _ := NewReconstructor().FromLines(lines)
	if text != "left right" {
		t.Fatalf("tie order not preserved: %q", text)
	}
}

func TestFromLinesEmpty(t *testing.T) {
	text, paragraphs := NewReconstructor().FromLines(nil)
	if text != "" || paragraphs != nil {
		t.Fatalf("expected empty output, got %q / %q", text, paragraphs)
	}
}

func TestFromLinesCustomGapThreshold(t *testing.T) {
	lines := []ocr.Line{
		line("a", 0.9, box(-5, 5)),
		line("b", 0.9, box(25, 35)),
	}
	_, oneParagraph := NewReconstructor().FromLines(lines)
	if len(oneParagraph) != 1 {
		t.Fatalf("default threshold should keep one paragraph: %q", oneParagraph)
	}
	_, twoParagraphs := NewReconstructor(WithGapThreshold(20)).FromLines(lines)
	if len(twoParagraphs) != 2 {
		t.Fatalf("tight threshold should split: %q", twoParagraphs)
	}
}

func TestFromTextSplitsOnBlankLines(t *testing.T) {
	text, paragraphs := NewReconstructor().FromText("First  paragraph\nwith a wrap.\n\n Second\tparagraph. \n\n\n")
	want := []string{"First paragraph with a wrap.", "Second paragraph."}
	if !reflect.DeepEqual(paragraphs, want) {
		t.Fatalf("paragraphs = %q, want %q", paragraphs, want)
	}
	if text != "First paragraph with a wrap.\n\nSecond paragraph." {
		t.Fatalf("unexpected full text: %q", text)
	}
}

func TestFromTextFallsBackToSingleNewlines(t *testing.T) {
	_, paragraphs := NewReconstructor().FromText("one\ntwo\nthree")
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(paragraphs, want) {
		t.Fatalf("paragraphs = %q, want %q", paragraphs, want)
	}
}

func TestFromTextIdempotent(t *testing.T) {
	r := NewReconstructor()
	text1, paragraphs1 := r.FromText("  A messy\n\n\nblock \n of\ttext\n\nlast bit ")
	text2, paragraphs2 := r.FromText(text1)
	if text1 != text2 {
		t.Fatalf("text not stable: %q vs %q", text1, text2)
	}
	if !reflect.DeepEqual(paragraphs1, paragraphs2) {
		t.Fatalf("paragraphs not stable: %q vs %q", paragraphs1, paragraphs2)
	}
}

func TestFromTextEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n", "\t \n"} {
		text, paragraphs := NewReconstructor().FromText(input)
		if text != "" || paragraphs != nil {
			t.Fatalf("input %q: expected empty output, got %q / %q", input, text, paragraphs)
		}
	}
}

func TestReconstructDispatch(t *testing.T) {
	r := NewReconstructor()
	text, _ := r.Reconstruct(ocr.TextResult("free\n\ntext"))
	if text != "free\n\ntext" {
		t.Fatalf("free-text dispatch failed: %q", text)
	}
	text, _ = r.Reconstruct(ocr.LinesResult([]ocr.Line{line("structured", 0.9, box(0, 10))}))
	if text != "structured" {
		t.Fatalf("structured dispatch failed: %q", text)
	}
}
