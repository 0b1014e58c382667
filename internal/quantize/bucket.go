package quantize

import "github.com/ironsheep/palette-tools-mcp/internal/colour"

// ChannelMask keeps the top 5 bits of a channel.
const ChannelMask = 0xF8

// MaxBuckets is the number of distinct 5-bit-per-channel triples.
const MaxBuckets = 32 * 32 * 32

// BucketKey identifies a quantized color. It packs the masked channels as
// r<<16 | g<<8 | b, so distinct quantized triples never share a key.
type BucketKey uint32

// KeyOf quantizes a triple and returns its bucket key.
func KeyOf(r, g, b uint8) BucketKey {
	return BucketKey(uint32(r&ChannelMask)<<16 | uint32(g&ChannelMask)<<8 | uint32(b&ChannelMask))
}

// KeyOfColor is KeyOf for a colour.Color.
func KeyOfColor(c colour.Color) BucketKey {
	return KeyOf(c.R, c.G, c.B)
}

// Color reconstructs the quantized color a key stands for. The low three bits
// of each channel are zero.
func (k BucketKey) Color() colour.Color {
	return colour.Color{
		R: uint8(k >> 16),
		G: uint8(k >> 8),
		B: uint8(k),
	}
}

// Quantized returns c with each channel masked to its top 5 bits.
func Quantized(c colour.Color) colour.Color {
	return KeyOfColor(c).Color()
}

// Bucket is a quantized color and the number of sampled pixels that fell
// into it.
type Bucket struct {
	Key   BucketKey
	Count int
}
