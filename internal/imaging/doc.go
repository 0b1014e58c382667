// Package imaging acquires decoded images and turns them into bounded pixel
// buffers for palette extraction.
//
// # Acquisition
//
// Loader.Load accepts a source string and dispatches on its form:
//   - "http://..." or "https://...": fetched with a context-bound HTTP client
//   - "data:image/...;base64,...": decoded in memory
//   - "sample": the built-in demo image (see SampleImage)
//   - anything else: a local file path
//
// PNG, JPEG, GIF and WebP are decoded. Decoded images are cached by source in
// an ImageCache, so repeated extraction from the same source (the "current
// preview") does not touch the disk or network again. Acquisition errors are
// returned to the caller unchanged in meaning and are never retried.
//
// # Sampling
//
// Sample renders an image into an 8-bit non-premultiplied RGBA buffer whose
// larger side is at most MaxDimension pixels. Both sides are scaled by the same
// ratio and rounded to the nearest pixel. The returned PixelSample is a
// read-only view intended for a single quantization pass.
//
// # Coordinate System
//
// Region coordinates are 0-based relative to the top-left corner of the image:
// (X1, Y1) is inclusive and (X2, Y2) is exclusive.
//
// # Thread Safety
//
// ImageCache and Loader are safe for concurrent use. Sample allocates a fresh
// buffer on every call and shares no state between calls.
package imaging
