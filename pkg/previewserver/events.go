package previewserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// EventLogger records decode events for audit and analytics.
type EventLogger interface {
	LogDecode(ctx context.Context, event *DecodeEvent) error
}

// DecodeEvent describes one decode performed by the server.
type DecodeEvent struct {
	ID        string
	Timestamp time.Time
	Route     string
	RemoteIP  string
	Bytes     int
	Format    string
	Width     int
	Height    int
	MaxValue  uint16
	Outcome   string
	Error     string
	Duration  time.Duration
}

// SlogEventLogger writes each event as one structured log line.
type SlogEventLogger struct {
	logger *slog.Logger
}

func NewSlogEventLogger(logger *slog.Logger) *SlogEventLogger {
	return &SlogEventLogger{logger: logger}
}

func (l *SlogEventLogger) LogDecode(ctx context.Context, event *DecodeEvent) error {
	attrs := []slog.Attr{
		slog.String("id", event.ID),
		slog.String("route", event.Route),
		slog.String("remote_ip", event.RemoteIP),
		slog.Int("bytes", event.Bytes),
		slog.String("outcome", event.Outcome),
		slog.Duration("duration", event.Duration),
	}
	if event.Format != "" {
		attrs = append(attrs,
			slog.String("format", event.Format),
			slog.Int("width", event.Width),
			slog.Int("height", event.Height),
			slog.Int("max_value", int(event.MaxValue)))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "image decoded", attrs...)
	return nil
}

// MultiEventLogger fans an event out to several loggers. Every logger is
// called even when an earlier one fails.
type MultiEventLogger struct {
	loggers []EventLogger
}

func NewMultiEventLogger(loggers ...EventLogger) *MultiEventLogger {
	return &MultiEventLogger{loggers: loggers}
}

func (m *MultiEventLogger) LogDecode(ctx context.Context, event *DecodeEvent) error {
	var errs []error
	for _, logger := range m.loggers {
		if err := logger.LogDecode(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("decode event logging errors: %v", errs)
	}
	return nil
}

// NoopEventLogger discards events.
type NoopEventLogger struct{}

func NewNoopEventLogger() *NoopEventLogger {
	return &NoopEventLogger{}
}

func (n *NoopEventLogger) LogDecode(ctx context.Context, event *DecodeEvent) error {
	return nil
}

type decodeEventJSON struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Route      string    `json:"route"`
	RemoteIP   string    `json:"remote_ip,omitempty"`
	Bytes      int       `json:"bytes"`
	Format     string    `json:"format,omitempty"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	MaxValue   uint16    `json:"max_value,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

func (e *DecodeEvent) toJSON() ([]byte, error) {
	return json.Marshal(decodeEventJSON{
		ID:         e.ID,
		Timestamp:  e.Timestamp,
		Route:      e.Route,
		RemoteIP:   e.RemoteIP,
		Bytes:      e.Bytes,
		Format:     e.Format,
		Width:      e.Width,
		Height:     e.Height,
		MaxValue:   e.MaxValue,
		Outcome:    e.Outcome,
		Error:      e.Error,
		DurationMS: e.Duration.Milliseconds(),
	})
}

// keySafeID makes a request ID usable as one S3 key segment.
func keySafeID(id string) string {
	return strings.NewReplacer("/", "-", " ", "-").Replace(id)
}
