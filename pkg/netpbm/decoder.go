package netpbm

import (
	"fmt"
	"log/slog"
)

// Header holds the fields that precede the pixel data.
type Header struct {
	Format   Format
	Width    int
	Height   int
	MaxValue uint16
}

// Samples is the number of samples the body must provide.
func (h Header) Samples() int {
	return h.Width * h.Height * h.Format.Channels()
}

// BodyDecoder turns the bytes after the header into samples, row-major,
// Header.Samples() of them. Plain formats should read b token by token;
// raw formats should call b.Rest once so no binary byte is ever treated
// as a delimiter.
type BodyDecoder func(b *Body, h Header) ([]uint16, error)

// parseState is the header field expected next.
type parseState int

const (
	stateType parseState = iota
	stateWidth
	stateHeight
	stateMaxValue
	stateData
)

func (s parseState) String() string {
	switch s {
	case stateType:
		return "magic number"
	case stateWidth:
		return "width"
	case stateHeight:
		return "height"
	case stateMaxValue:
		return "max value"
	case stateData:
		return "data"
	}
	return "unknown"
}

// Decoder parses netpbm images held in memory.
//
// A Decoder only carries configuration, so one value can serve any number
// of goroutines; every Parse call works on its own cursor.
type Decoder struct {
	cfg config
	log *slog.Logger
}

// NewDecoder creates a decoder with the built-in P2 and P5 body decoders.
//
// Example:
//
//	dec := netpbm.NewDecoder(netpbm.WithLogger(logger), netpbm.WithASCIIPolicy(netpbm.FailOnUnparseable))
//	img, err := dec.Parse(data)
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	d.cfg = config{
		asciiPolicy: StopOnFirstUnparseable,
		maxPixels:   defaultMaxPixels,
		bodies: map[Format]BodyDecoder{
			PGMPlain: d.decodePlainGray,
			PGMRaw:   d.decodeRawGray,
		},
	}
	for _, opt := range opts {
		opt(&d.cfg)
	}

	d.log = d.cfg.logger
	if d.log == nil {
		d.log = slog.New(slog.DiscardHandler)
	}
	return d
}

// Parse decodes a complete image using the default configuration.
func Parse(data []byte, opts ...Option) (*Image, error) {
	return NewDecoder(opts...).Parse(data)
}

// ParseHeader reads only the header of data.
func ParseHeader(data []byte, opts ...Option) (Header, error) {
	h, _, err := NewDecoder(opts...).readHeader(newScanner(data))
	return h, err
}

// Parse decodes data into an Image. data is not modified or retained.
func (d *Decoder) Parse(data []byte) (*Image, error) {
	d.log.Debug("parsing image", "size", len(data))

	s := newScanner(data)
	h, decode, err := d.readHeader(s)
	if err != nil {
		return nil, err
	}

	samples, err := decode(&Body{s: s}, h)
	if err != nil {
		return nil, err
	}
	want := h.Samples()
	if len(samples) < want {
		return nil, formatErr(ErrTruncatedData, s.offset(),
			"%s body produced %d of %d samples", h.Format, len(samples), want)
	}

	d.log.Debug("parsed image",
		"format", h.Format.String(),
		"width", h.Width,
		"height", h.Height,
		"max_value", h.MaxValue)

	return &Image{
		Data:     samples[:want:want],
		Width:    h.Width,
		Height:   h.Height,
		MaxValue: h.MaxValue,
		Format:   h.Format,
	}, nil
}

// readHeader walks the header fields in order, skipping empty tokens and
// comments, and returns the body decoder for the format. The scanner is
// left on the first byte after the delimiter that ended the last field.
func (d *Decoder) readHeader(s *scanner) (Header, BodyDecoder, error) {
	var (
		h      Header
		decode BodyDecoder
	)

	for state := stateType; state != stateData; {
		tok := s.next()
		if len(tok) == 0 {
			if s.done() {
				return Header{}, nil, formatErr(ErrIncompleteHeader, s.offset(),
					"input ended while expecting %s", state)
			}
			continue
		}
		if tok[0] == '#' {
			s.skipLine()
			d.log.Debug("skipped comment", "offset", s.offset())
			continue
		}

		field := state
		switch state {
		case stateType:
			f, ok := lookupFormat(tok)
			if !ok {
				return Header{}, nil, formatErr(ErrUnsupportedFormat, s.offset(),
					"unknown magic number %q", clip(tok))
			}
			fn, ok := d.cfg.bodies[f]
			if !ok || f == PAM {
				return Header{}, nil, formatErr(ErrNotImplemented, s.offset(),
					"no decoder for %s (%s)", f, f.Name())
			}
			h.Format = f
			decode = fn
			state = stateWidth

		case stateWidth:
			w, ok := parseSize(tok)
			if !ok {
				return Header{}, nil, formatErr(ErrMalformedNumber, s.offset(), "width %q", clip(tok))
			}
			h.Width = w
			state = stateHeight

		case stateHeight:
			ht, ok := parseSize(tok)
			if !ok {
				return Header{}, nil, formatErr(ErrMalformedNumber, s.offset(), "height %q", clip(tok))
			}
			h.Height = ht
			if h.Format.HasMaxValue() {
				state = stateMaxValue
			} else {
				h.MaxValue = 1
				state = stateData
			}

		case stateMaxValue:
			mv, ok := parseSample(tok)
			if !ok {
				return Header{}, nil, formatErr(ErrMalformedNumber, s.offset(), "max value %q", clip(tok))
			}
			if mv == 0 {
				return Header{}, nil, formatErr(ErrInvalidHeader, s.offset(), "max value must be at least 1")
			}
			h.MaxValue = mv
			state = stateData
		}
		d.log.Debug("header field", "field", field.String(), "value", clip(tok), "offset", s.offset())
	}

	if n := uint64(h.Width) * uint64(h.Height) * uint64(h.Format.Channels()); n > uint64(d.cfg.maxPixels) {
		return Header{}, nil, formatErr(ErrInvalidHeader, s.offset(),
			"%dx%d image exceeds limit of %d samples", h.Width, h.Height, d.cfg.maxPixels)
	}
	return h, decode, nil
}

// clip shortens a token for error messages; raw input can be arbitrarily long.
func clip(tok []byte) string {
	const limit = 16
	if len(tok) > limit {
		return fmt.Sprintf("%s...", tok[:limit])
	}
	return string(tok)
}
