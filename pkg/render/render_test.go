package render_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/render"
	"github.com/stretchr/testify/require"
)

func gradient(t *testing.T) *netpbm.Image {
	img, err := netpbm.Parse([]byte("P2\n5 2\n100\n0 20 40 60 80\n19 39 59 79 100\n"))
	require.NoError(t, err)
	return img
}

func TestGlyph_Thresholds(t *testing.T) {
	tests := []struct {
		v    float64
		want rune
	}{
		{0, ' '},
		{0.19, ' '},
		{0.2, '░'},
		{0.39, '░'},
		{0.4, '▒'},
		{0.6, '▓'},
		{0.8, '█'},
		{1, '█'},
	}

	for _, tt := range tests {
		require.Equal(t, string(tt.want), string(render.Glyph(tt.v)), "intensity %v", tt.v)
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, gradient(t)))

	want := " ░▒▓█\n ░▒▓█\n"
	require.Equal(t, want, buf.String())
}

func TestGray8(t *testing.T) {
	img, err := netpbm.Parse([]byte("P5\n3 1\n65535\n\x00\x00\x80\x00\xff\xff"))
	require.NoError(t, err)

	gray := render.Gray8(img)
	require.Equal(t, uint8(0), gray.GrayAt(0, 0).Y)
	require.Equal(t, uint8(127), gray.GrayAt(1, 0).Y)
	require.Equal(t, uint8(255), gray.GrayAt(2, 0).Y)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.PNG(&buf, gradient(t)))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 5, decoded.Bounds().Dx())
	require.Equal(t, 2, decoded.Bounds().Dy())
}

func TestFit(t *testing.T) {
	img := &netpbm.Image{Width: 200, Height: 100, MaxValue: 1, Format: netpbm.PGMRaw}

	tests := []struct {
		name         string
		cols, rows   int
		wantW, wantH int
	}{
		{"unconstrained halves rows", 0, 0, 200, 50},
		{"narrow terminal", 80, 0, 80, 20},
		{"short terminal", 0, 25, 100, 25},
		{"both", 80, 10, 40, 10},
		{"never enlarges", 1000, 1000, 200, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := render.Fit(img, tt.cols, tt.rows)
			require.Equal(t, tt.wantW, w)
			require.Equal(t, tt.wantH, h)
		})
	}
}

func TestScale(t *testing.T) {
	img, err := netpbm.Parse([]byte("P2\n4 4\n1\n1 1 0 0\n1 1 0 0\n1 1 0 0\n1 1 0 0\n"))
	require.NoError(t, err)

	scaled := render.Scale(img, 2, 2)
	require.Equal(t, 2, scaled.Width)
	require.Equal(t, 2, scaled.Height)
	require.Equal(t, uint16(0xFFFF), scaled.MaxValue)
	require.Len(t, scaled.Data, 4)
	require.Greater(t, scaled.Intensity(0, 0), 0.5)
	require.Less(t, scaled.Intensity(1, 1), 0.5)

	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, scaled))
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))
}
