package netpbm

import (
	"image"
	"image/color"
)

// Image is a decoded netpbm image.
//
// Data holds Width*Height*Format.Channels() samples in row-major order,
// channels interleaved. Samples are expected to be <= MaxValue but the
// decoder does not check.
type Image struct {
	Data     []uint16
	Width    int
	Height   int
	MaxValue uint16
	Format   Format
}

// Header returns the header fields of the image.
func (img *Image) Header() Header {
	return Header{
		Format:   img.Format,
		Width:    img.Width,
		Height:   img.Height,
		MaxValue: img.MaxValue,
	}
}

// At returns the sample at (x, y), or the first channel for multi-channel formats.
func (img *Image) At(x, y int) uint16 {
	return img.Data[(y*img.Width+x)*img.Format.Channels()]
}

// Intensity returns the brightness at (x, y) normalized to [0, 1].
// Channels of multi-channel formats are averaged.
func (img *Image) Intensity(x, y int) float64 {
	ch := img.Format.Channels()
	i := (y*img.Width + x) * ch
	var sum float64
	for _, s := range img.Data[i : i+ch] {
		sum += float64(s)
	}
	v := sum / float64(ch) / float64(img.MaxValue)
	if v > 1 {
		return 1
	}
	return v
}

// Gray16 converts the image to an *image.Gray16, stretching samples from
// 0..MaxValue to 0..65535.
func (img *Image) Gray16() *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetGray16(x, y, color.Gray16{Y: uint16(img.Intensity(x, y)*0xFFFF + 0.5)})
		}
	}
	return out
}

// FromGray16 builds a P5 image from an *image.Gray16 with MaxValue 65535.
func FromGray16(src *image.Gray16) *Image {
	b := src.Bounds()
	img := &Image{
		Data:     make([]uint16, 0, b.Dx()*b.Dy()),
		Width:    b.Dx(),
		Height:   b.Dy(),
		MaxValue: 0xFFFF,
		Format:   PGMRaw,
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Data = append(img.Data, src.Gray16At(x, y).Y)
		}
	}
	return img
}
