package preprocess

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Format tags the container format of a source image, detected from its
// leading magic bytes. Detection is informational only; it never gates
// processing.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWEBP Format = "webp"
)

// sniffLen covers the longest signature checked (RIFF????WEBP).
const sniffLen = 12

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// DetectFormat reads the first 12 bytes of the file at path and matches them
// against known signatures. Unmatched content defaults to PNG.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for sniffing: %w", err)
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	return sniff(header[:n]), nil
}

func sniff(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, []byte{0xff, 0xd8, 0xff}):
		return FormatJPEG
	case bytes.HasPrefix(header, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(header, []byte("%PDF")):
		return FormatPDF
	case bytes.HasPrefix(header, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(header, []byte("II\x2a\x00")),
		bytes.HasPrefix(header, []byte("MM\x00\x2a")):
		return FormatTIFF
	case len(header) >= sniffLen &&
		bytes.HasPrefix(header, []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WEBP")):
		return FormatWEBP
	default:
		return FormatPNG
	}
}
