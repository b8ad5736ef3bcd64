package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/source"
)

type InfoCLI struct {
	Src  string `arg:"" help:"Image path, http(s):// URL, s3://bucket/key, or - for stdin"`
	JSON bool   `help:"Print as JSON"`
}

type imageInfo struct {
	Source   string  `json:"source"`
	Format   string  `json:"format"`
	Name     string  `json:"name"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	MaxValue uint16  `json:"maxValue"`
	Samples  int     `json:"samples"`
	Min      uint16  `json:"min"`
	Max      uint16  `json:"max"`
	Mean     float64 `json:"mean"`
}

func (c *InfoCLI) Run(ctx context.Context, loader *source.Loader, dec *netpbm.Decoder, stdout io.Writer) error {
	img, err := loadImage(ctx, loader, dec, c.Src)
	if err != nil {
		return err
	}
	info := describe(c.Src, img)

	if c.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "source:\t%s\n", info.Source)
	fmt.Fprintf(tw, "format:\t%s (%s)\n", info.Format, info.Name)
	fmt.Fprintf(tw, "size:\t%d x %d\n", info.Width, info.Height)
	fmt.Fprintf(tw, "max value:\t%d\n", info.MaxValue)
	fmt.Fprintf(tw, "samples:\t%d\n", info.Samples)
	if info.Samples > 0 {
		fmt.Fprintf(tw, "min:\t%d\n", info.Min)
		fmt.Fprintf(tw, "max:\t%d\n", info.Max)
		fmt.Fprintf(tw, "mean:\t%.2f\n", info.Mean)
	}
	return tw.Flush()
}

func describe(src string, img *netpbm.Image) imageInfo {
	info := imageInfo{
		Source:   src,
		Format:   img.Format.String(),
		Name:     img.Format.Name(),
		Width:    img.Width,
		Height:   img.Height,
		MaxValue: img.MaxValue,
		Samples:  len(img.Data),
	}
	if len(img.Data) == 0 {
		return info
	}

	info.Min, info.Max = img.Data[0], img.Data[0]
	var sum uint64
	for _, v := range img.Data {
		info.Min = min(info.Min, v)
		info.Max = max(info.Max, v)
		sum += uint64(v)
	}
	info.Mean = float64(sum) / float64(len(img.Data))
	return info
}
