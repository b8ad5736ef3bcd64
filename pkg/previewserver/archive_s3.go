package previewserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrArchiveBufferFull is returned when an event is dropped because the
// archiver is behind.
var ErrArchiveBufferFull = errors.New("archiver buffer full")

// S3PutAPI is the part of *s3.Client the archiver needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3EventArchiver writes decode events to S3 as JSON lines, partitioned by
// date. Writes happen on a background goroutine; events are dropped rather
// than slowing down a request.
type S3EventArchiver struct {
	client    S3PutAPI
	bucket    string
	keyPrefix string
	logger    *slog.Logger

	events chan *DecodeEvent
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// S3ArchiverConfig configures an S3EventArchiver.
type S3ArchiverConfig struct {
	Client     S3PutAPI
	Bucket     string
	KeyPrefix  string // e.g. "pgmview/events"
	Logger     *slog.Logger
	BufferSize int // default 100
}

func NewS3EventArchiver(config S3ArchiverConfig) *S3EventArchiver {
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &S3EventArchiver{
		client:    config.Client,
		bucket:    config.Bucket,
		keyPrefix: config.KeyPrefix,
		logger:    config.Logger,
		events:    make(chan *DecodeEvent, config.BufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.wg.Add(1)
	go a.writer()

	return a
}

// LogDecode enqueues event without blocking.
func (a *S3EventArchiver) LogDecode(ctx context.Context, event *DecodeEvent) error {
	select {
	case a.events <- event:
		return nil
	default:
		a.logger.Warn("decode archiver buffer full, dropping event", slog.String("id", event.ID))
		return ErrArchiveBufferFull
	}
}

// Shutdown stops the writer after flushing queued events, waiting at most
// timeout.
func (a *S3EventArchiver) Shutdown(timeout time.Duration) error {
	a.cancel()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

func (a *S3EventArchiver) writer() {
	defer a.wg.Done()

	for {
		select {
		case event := <-a.events:
			a.archive(event)
		case <-a.ctx.Done():
			for {
				select {
				case event := <-a.events:
					a.archive(event)
				default:
					return
				}
			}
		}
	}
}

func (a *S3EventArchiver) archive(event *DecodeEvent) {
	if err := a.writeEvent(event); err != nil {
		a.logger.Error("failed to archive decode event",
			slog.String("id", event.ID),
			slog.String("error", err.Error()))
	}
}

func (a *S3EventArchiver) writeEvent(event *DecodeEvent) error {
	key := a.generateKey(event.Timestamp, event.ID)

	body, err := event.toJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	body = append(body, '\n')

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write to S3: %w", err)
	}

	a.logger.Debug("archived decode event", slog.String("bucket", a.bucket), slog.String("key", key))
	return nil
}

// generateKey returns [prefix/]year=YYYY/month=MM/day=DD/<id>.json.
func (a *S3EventArchiver) generateKey(ts time.Time, id string) string {
	year, month, day := ts.UTC().Date()
	key := fmt.Sprintf("year=%04d/month=%02d/day=%02d/%s.json", year, int(month), day, keySafeID(id))
	if a.keyPrefix != "" {
		key = a.keyPrefix + "/" + key
	}
	return key
}
