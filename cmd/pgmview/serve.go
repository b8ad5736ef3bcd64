package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/previewserver"
	"github.com/pgmview/pgmview/pkg/source"
	"github.com/pkg/browser"
)

type ServeCLI struct {
	Src           string `arg:"" optional:"" help:"Image to preview (path, URL, s3://bucket/key or -)"`
	Listen        string `short:"l" env:"PGMVIEW_LISTEN" default:"localhost:8080" help:"Address to listen on"`
	Open          bool   `help:"Open the preview in a browser"`
	MaxBodyBytes  int64  `name:"max-body-bytes" default:"67108864" help:"Largest accepted upload"`
	ArchiveBucket string `env:"PGMVIEW_ARCHIVE_BUCKET" help:"S3 bucket for decode event archival (optional)"`
	ArchivePrefix string `env:"PGMVIEW_ARCHIVE_PREFIX" default:"decodes" help:"S3 key prefix for decode event archival"`
}

func (c *ServeCLI) Run(ctx context.Context, logger *slog.Logger, loader *source.Loader, dec *netpbm.Decoder) error {
	var img *netpbm.Image
	if c.Src != "" {
		var err error
		if img, err = loadImage(ctx, loader, dec, c.Src); err != nil {
			return err
		}
	}

	eventLogger, shutdownEvents, err := c.eventLogger(ctx, logger)
	if err != nil {
		return err
	}
	defer shutdownEvents()

	handler, err := previewserver.New(previewserver.Config{
		Decoder:      dec,
		Image:        img,
		Source:       c.Src,
		Logger:       logger,
		EventLogger:  eventLogger,
		MaxBodyBytes: c.MaxBodyBytes,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", c.Listen)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", c.Listen, err)
	}
	url := "http://" + ln.Addr().String() + "/"
	fmt.Fprintf(os.Stderr, "pgmview: serving preview at %s\n", url)
	logger.Info("serving preview", "url", url, "source", c.Src)

	server := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- server.Serve(ln) }()

	if c.Open {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("unable to open browser", "error", err)
		}
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// eventLogger always logs decodes through slog and, with --archive-bucket,
// also archives them to S3.
func (c *ServeCLI) eventLogger(ctx context.Context, logger *slog.Logger) (previewserver.EventLogger, func(), error) {
	slogEvents := previewserver.NewSlogEventLogger(logger)
	if c.ArchiveBucket == "" {
		return slogEvents, func() {}, nil
	}

	client, err := newS3Client(ctx)
	if err != nil {
		return nil, nil, err
	}
	archiver := previewserver.NewS3EventArchiver(previewserver.S3ArchiverConfig{
		Client:    client,
		Bucket:    c.ArchiveBucket,
		KeyPrefix: c.ArchivePrefix,
		Logger:    logger,
	})
	logger.Info("archiving decode events", "bucket", c.ArchiveBucket, "prefix", c.ArchivePrefix)

	shutdown := func() {
		if err := archiver.Shutdown(10 * time.Second); err != nil {
			logger.Warn("decode archiver shutdown", "error", err)
		}
	}
	return previewserver.NewMultiEventLogger(slogEvents, archiver), shutdown, nil
}
