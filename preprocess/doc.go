package preprocess

// Package preprocess turns an arbitrary source image into the working file a
// recognition backend consumes: it sniffs the container format, caps the
// resolution while preserving aspect ratio, and writes a lossless scratch
// PNG so backends never have to guess the raster format. Scratch files are
// scoped resources; callers release them on every exit path.
