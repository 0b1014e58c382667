// Package quantize reduces a pixel buffer to a short list of representative
// colors by frequency bucketing.
//
// # Algorithm
//
// The buffer is visited on a grid with spacing step in both directions.
// Pixels with alpha below AlphaThreshold are skipped. Each remaining pixel is
// quantized by masking every channel to its top 5 bits and counted in the
// bucket for that triple. Buckets are ranked by descending count and the top
// count buckets are returned as their quantized colors (not the average of
// the pixels in the bucket). When fewer distinct buckets exist, the result is
// padded with Fallback so it always has exactly count entries.
//
// # Tie-break
//
// Buckets with equal counts keep the order in which they were first seen
// during the row-major sweep. The sweep order is fixed, so results are
// reproducible for a given buffer and step.
//
// # Failure
//
// Quantize reports malformed input as an error. Extract is the entry point
// for callers that must never fail: it returns a Result whose Colors is empty
// whenever sampling or quantization failed, with the cause kept in Err for
// logging only.
package quantize
