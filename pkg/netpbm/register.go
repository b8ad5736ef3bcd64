package netpbm

import (
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("pgm", "P2", Decode, DecodeConfig)
	image.RegisterFormat("pgm", "P5", Decode, DecodeConfig)
}

// Decode reads a graymap from r and returns it as an *image.Gray16.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return img.Gray16(), nil
}

// DecodeConfig returns the color model and dimensions of a graymap
// without decoding its samples.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.Gray16Model,
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}
