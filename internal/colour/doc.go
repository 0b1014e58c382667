// Package colour provides the color value type used across the palette tools
// together with hex parsing and WCAG contrast evaluation.
//
// # Color Representation
//
// A Color is an immutable triple of 8-bit channels. Two colors are equal when
// their channels are equal, so "#abc", "#AABBCC" and "aabbcc" all parse to the
// same Color. The canonical text form is "#RRGGBB" in uppercase.
//
// # Hex Input
//
// ParseHex accepts an optional leading '#' followed by either three hex digits
// (each digit is doubled, "#F0A" -> "#FF00AA") or six hex digits. Any other
// length or any non-hex character is rejected with ErrInvalidHex.
//
// # Contrast
//
// RelativeLuminance and Contrast follow the WCAG 2.x definitions:
//
//	L = 0.2126*R + 0.7152*G + 0.0722*B   (channels linearized)
//	ratio = (L_lighter + 0.05) / (L_darker + 0.05)
//
// Ratios are rounded to two decimal places and always lie in [1, 21].
// ContrastHex reports ok=false when either input is not valid hex; callers
// must treat that as "not computable", never as a ratio of zero.
package colour
