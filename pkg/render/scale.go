package render

import (
	"image"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"golang.org/x/image/draw"
)

// CellAspect is how many times taller a terminal cell is than it is wide.
const CellAspect = 2

// Scale resamples img to w x h. The result has a MaxValue of 65535.
func Scale(img *netpbm.Image, w, h int) *netpbm.Image {
	dst := image.NewGray16(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img.Gray16(), image.Rect(0, 0, img.Width, img.Height), draw.Src, nil)
	return netpbm.FromGray16(dst)
}

// Fit returns the largest text size that fits in cols x rows, keeping the
// aspect ratio of img with CellAspect accounted for. It never enlarges.
// A zero cols or rows leaves that dimension unconstrained.
func Fit(img *netpbm.Image, cols, rows int) (w, h int) {
	w = img.Width
	h = ceilDiv(img.Height, CellAspect)
	if w == 0 || h == 0 {
		return w, h
	}

	if cols > 0 && w > cols {
		h = max(1, h*cols/w)
		w = cols
	}
	if rows > 0 && h > rows {
		w = max(1, w*rows/h)
		h = rows
	}
	return w, h
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
