package netpbm

import "encoding/binary"

// decodeRawGray decodes a P5 body: one byte per sample when MaxValue fits
// in a byte, otherwise two bytes, most significant first.
func (d *Decoder) decodeRawGray(b *Body, h Header) ([]uint16, error) {
	raw := b.Rest()
	n := h.Width * h.Height

	bps := 1
	if h.MaxValue > 0xFF {
		bps = 2
	}
	need := n * bps
	if len(raw) < need {
		return nil, formatErr(ErrTruncatedData, b.Offset(),
			"%dx%d raster needs %d bytes at %d bytes per sample, have %d",
			h.Width, h.Height, need, bps, len(raw))
	}
	if extra := len(raw) - need; extra > 0 {
		d.log.Debug("ignoring bytes after raster", "offset", b.Offset()+need, "count", extra)
	}

	samples := make([]uint16, n)
	if bps == 1 {
		for i := range samples {
			samples[i] = uint16(raw[i])
		}
		return samples, nil
	}
	for i := range samples {
		samples[i] = binary.BigEndian.Uint16(raw[2*i:])
	}
	return samples, nil
}

// decodePlainGray decodes a P2 body of whitespace-separated decimal samples.
// It stops after Width*Height samples; anything beyond is not read.
func (d *Decoder) decodePlainGray(b *Body, h Header) ([]uint16, error) {
	n := h.Width * h.Height
	samples := make([]uint16, 0, min(n, 4096))

	for len(samples) < n && !b.Done() {
		tok := b.Token()
		if len(tok) == 0 {
			continue
		}
		v, ok := parseSample(tok)
		if !ok {
			if d.cfg.asciiPolicy == FailOnUnparseable {
				return nil, formatErr(ErrMalformedNumber, b.Offset(), "sample %d: %q", len(samples), clip(tok))
			}
			d.log.Warn("plain body ended at non-numeric token",
				"policy", d.cfg.asciiPolicy.String(),
				"offset", b.Offset(),
				"samples", len(samples))
			break
		}
		samples = append(samples, v)
	}

	if len(samples) < n {
		return nil, formatErr(ErrTruncatedData, b.Offset(),
			"%dx%d raster needs %d samples, have %d", h.Width, h.Height, n, len(samples))
	}
	return samples, nil
}
