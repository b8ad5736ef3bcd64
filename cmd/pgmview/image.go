package main

import (
	"context"
	"fmt"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/source"
)

func loadImage(ctx context.Context, loader *source.Loader, dec *netpbm.Decoder, ref string) (*netpbm.Image, error) {
	data, err := loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := dec.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return img, nil
}
