// Package render turns decoded netpbm images into something a person can
// look at: 8-bit gray pixels, PNG files, or block glyphs for a terminal.
package render

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pgmview/pgmview/pkg/netpbm"
)

// Glyphs orders the text ramp from dark to light.
var Glyphs = [5]rune{' ', '░', '▒', '▓', '█'}

// Glyph maps a normalized intensity to a density glyph in steps of 0.2.
func Glyph(v float64) rune {
	switch {
	case v < 0.2:
		return Glyphs[0]
	case v < 0.4:
		return Glyphs[1]
	case v < 0.6:
		return Glyphs[2]
	case v < 0.8:
		return Glyphs[3]
	default:
		return Glyphs[4]
	}
}

// Level maps a normalized intensity to an 8-bit gray level.
func Level(v float64) uint8 {
	return uint8(255 * v)
}

// Gray8 converts img to an 8-bit grayscale image.
func Gray8(img *netpbm.Image) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetGray(x, y, color.Gray{Y: Level(img.Intensity(x, y))})
		}
	}
	return out
}

// Text writes one line of glyphs per image row.
func Text(w io.Writer, img *netpbm.Image) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			bw.WriteRune(Glyph(img.Intensity(x, y)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// PNG writes img as an 8-bit grayscale PNG.
func PNG(w io.Writer, img *netpbm.Image) error {
	return png.Encode(w, Gray8(img))
}
