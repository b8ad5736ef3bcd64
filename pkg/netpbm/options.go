package netpbm

import "log/slog"

const (
	// Default cap on width*height*channels (256M samples, 512MiB of uint16).
	defaultMaxPixels = 1 << 28
)

// ASCIIPolicy decides what a plain-format body decoder does with a token
// that is not a decimal number.
type ASCIIPolicy int

const (
	// StopOnFirstUnparseable treats the first non-numeric token as the end
	// of the pixel data. This tolerates trailing text after the raster; if
	// fewer samples than declared were read the decode still fails with
	// ErrTruncatedData.
	StopOnFirstUnparseable ASCIIPolicy = iota

	// FailOnUnparseable reports a non-numeric token as ErrMalformedNumber.
	FailOnUnparseable
)

func (p ASCIIPolicy) String() string {
	switch p {
	case StopOnFirstUnparseable:
		return "stop-on-first-unparseable"
	case FailOnUnparseable:
		return "fail-on-unparseable"
	}
	return "unknown"
}

// config holds decoder configuration.
type config struct {
	logger      *slog.Logger
	asciiPolicy ASCIIPolicy
	maxPixels   int
	bodies      map[Format]BodyDecoder
}

// Option configures a Decoder.
type Option func(*config)

// WithLogger sets the sink for diagnostic messages. Decoding never depends
// on it; without this option messages are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithASCIIPolicy selects how plain bodies react to non-numeric tokens.
//
// Default: StopOnFirstUnparseable
func WithASCIIPolicy(p ASCIIPolicy) Option {
	return func(c *config) {
		c.asciiPolicy = p
	}
}

// MaxPixels sets the largest width*height*channels a header may declare.
// Larger images fail with ErrInvalidHeader before any allocation.
//
// Default: 1<<28
func MaxPixels(n int) Option {
	return func(c *config) {
		c.maxPixels = n
	}
}

// WithBodyDecoder installs a body decoder for a format, replacing the
// built-in one if any. This is how PBM and PPM support is added.
// PAM cannot be registered because its header is keyword based.
func WithBodyDecoder(f Format, fn BodyDecoder) Option {
	return func(c *config) {
		c.bodies[f] = fn
	}
}
