// Package source loads the raw bytes of an image from wherever it lives:
// a local file, standard input, an HTTP(S) URL or an S3 object.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultMaxBytes caps how much a Loader reads from any one source.
const DefaultMaxBytes = 256 << 20

// ErrTooLarge indicates a source larger than Loader.MaxBytes.
var ErrTooLarge = errors.New("source: image exceeds size limit")

// Loader fetches image bytes by reference:
//
//	-                   standard input
//	http://, https://   GET with HTTPClient
//	s3://bucket/key     GetObject with S3
//	anything else       local file path
type Loader struct {
	// HTTPClient is used for URLs. If nil, a client with DefaultTimeout is used.
	HTTPClient *http.Client

	// S3 is used for s3:// references. If nil, those references fail.
	S3 S3API

	// Stdin is read for "-". If nil, os.Stdin is used.
	Stdin io.Reader

	// Insecure allows plain http:// URLs.
	Insecure bool

	// MaxBytes limits the size of a source. Zero means DefaultMaxBytes.
	MaxBytes int64

	Logger *slog.Logger
}

// Load returns the complete contents of ref.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()

	data, err := l.load(ctx, ref)
	if err != nil {
		logger.Debug("load failed", "ref", ref, "error", err)
		return nil, err
	}
	logger.Debug("loaded image source",
		"ref", ref,
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds())
	return data, nil
}

func (l *Loader) load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, errors.New("source: empty reference")
	case ref == "-":
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		return l.readLimited(in, "stdin")
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return l.loadURL(ctx, ref)
	case strings.HasPrefix(ref, "s3://"):
		return l.loadS3(ctx, ref)
	default:
		return l.loadFile(ref)
	}
}

func (l *Loader) loadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer f.Close()
	return l.readLimited(f, path)
}

func (l *Loader) loadURL(ctx context.Context, ref string) ([]byte, error) {
	if err := ValidateURL(ref, l.Insecure); err != nil {
		return nil, err
	}
	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("source: invalid URL %s: %w", ref, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: failed to fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source: failed to fetch %s: status %d", ref, resp.StatusCode)
	}
	return l.readLimited(resp.Body, ref)
}

func (l *Loader) readLimited(r io.Reader, name string) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("source: failed to read %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTooLarge, name, limit)
	}
	return data, nil
}

// splitS3 parses s3://bucket/key.
func splitS3(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("source: invalid S3 reference %s: %w", ref, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("source: S3 reference %s must be s3://bucket/key", ref)
	}
	return bucket, key, nil
}
