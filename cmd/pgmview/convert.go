package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/render"
	"github.com/pgmview/pgmview/pkg/source"
)

type ConvertCLI struct {
	Src   string `arg:"" help:"Image path, http(s):// URL, s3://bucket/key, or - for stdin"`
	Dst   string `arg:"" help:"Output path, or - for stdout"`
	To    string `help:"Output format; auto picks from the destination extension" enum:"auto,png,pgm" default:"auto"`
	Plain bool   `help:"Write plain (P2) instead of raw (P5) PGM"`
}

func (c *ConvertCLI) Run(ctx context.Context, logger *slog.Logger, loader *source.Loader, dec *netpbm.Decoder, stdout io.Writer) error {
	img, err := loadImage(ctx, loader, dec, c.Src)
	if err != nil {
		return err
	}

	format := c.outputFormat()
	logger.Info("converting", "src", c.Src, "dst", c.Dst, "format", format)

	if c.Dst == "-" {
		return c.write(stdout, img, format)
	}

	f, err := os.Create(c.Dst)
	if err != nil {
		return fmt.Errorf("unable to create output: %w", err)
	}
	if err := c.write(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *ConvertCLI) outputFormat() string {
	if c.To != "" && c.To != "auto" {
		return c.To
	}
	if strings.EqualFold(filepath.Ext(c.Dst), ".png") {
		return "png"
	}
	return "pgm"
}

func (c *ConvertCLI) write(w io.Writer, img *netpbm.Image, format string) error {
	if format == "png" {
		return render.PNG(w, img)
	}
	return netpbm.Encode(w, img, c.Plain)
}
