package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pgmview/pgmview/pkg/source"
)

func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// newLoader configures image loading from the global flags. S3 support is
// skipped, not fatal, when no AWS configuration can be loaded.
func newLoader(ctx context.Context, logger *slog.Logger) (*source.Loader, error) {
	httpClient, err := source.NewHTTPClient(source.TLS{
		Insecure:   cli.Insecure,
		CACertFile: cli.TLSCACert,
	}, 30*time.Second)
	if err != nil {
		return nil, err
	}

	loader := &source.Loader{
		HTTPClient: httpClient,
		Insecure:   cli.Insecure,
		Logger:     logger,
	}

	s3Client, err := newS3Client(ctx)
	if err != nil {
		logger.Debug("s3:// sources disabled", "error", err)
	} else {
		loader.S3 = s3Client
	}
	return loader, nil
}
