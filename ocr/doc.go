package ocr

// Package ocr defines abstraction layers for plugging text-recognition
// backends (for example, Tesseract or a vision language model) into the
// page-extraction pipeline. The interfaces are intentionally small and
// transport-agnostic so backends can be backed by native libraries or
// remote APIs without leaking provider-specific concerns into callers.
