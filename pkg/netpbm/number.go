package netpbm

import "math"

// maxSize bounds width and height. netpbm tools store them in 32-bit fields.
const maxSize = math.MaxInt32

// parseSize reads a width or height token.
func parseSize(tok []byte) (int, bool) {
	v, ok := parseDecimal(tok, maxSize)
	return int(v), ok
}

// parseSample reads a max value or a plain-format sample.
func parseSample(tok []byte) (uint16, bool) {
	v, ok := parseDecimal(tok, math.MaxUint16)
	return uint16(v), ok
}

// parseDecimal accumulates ASCII digits, rejecting empty input, anything
// that is not 0-9, and values above limit.
func parseDecimal(tok []byte, limit uint64) (uint64, bool) {
	if len(tok) == 0 {
		return 0, false
	}
	var v uint64
	for _, b := range tok {
		if b < '0' || b > '9' {
			return 0, false
		}
		v = v*10 + uint64(b-'0')
		if v > limit {
			return 0, false
		}
	}
	return v, true
}
