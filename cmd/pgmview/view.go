package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/render"
	"github.com/pgmview/pgmview/pkg/source"
	"golang.org/x/term"
)

type ViewCLI struct {
	Src    string `arg:"" help:"Image path, http(s):// URL, s3://bucket/key, or - for stdin"`
	Width  int    `help:"Maximum width in characters (default: terminal width)"`
	Height int    `help:"Maximum height in lines (default: terminal height)"`
	NoFit  bool   `help:"Print one character per sample without scaling"`
}

func (c *ViewCLI) Run(ctx context.Context, logger *slog.Logger, loader *source.Loader, dec *netpbm.Decoder, stdout io.Writer) error {
	img, err := loadImage(ctx, loader, dec, c.Src)
	if err != nil {
		return err
	}

	if !c.NoFit {
		cols, rows := c.bounds(stdout)
		w, h := render.Fit(img, cols, rows)
		if w != img.Width || h != img.Height {
			logger.Debug("scaling image", "from_width", img.Width, "from_height", img.Height, "width", w, "height", h)
			img = render.Scale(img, w, h)
		}
	}
	return render.Text(stdout, img)
}

// bounds fills unset dimensions from the terminal size. Zero means
// unconstrained.
func (c *ViewCLI) bounds(out io.Writer) (cols, rows int) {
	cols, rows = c.Width, c.Height
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return cols, rows
	}
	tw, th, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return cols, rows
	}
	if cols <= 0 {
		cols = tw
	}
	if rows <= 0 {
		// Leave a line for the prompt.
		rows = max(th-1, 1)
	}
	return cols, rows
}
