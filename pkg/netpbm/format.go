package netpbm

// Format identifies a netpbm variant by its magic number.
//
//	Type      Plain  Raw  Extension  Samples
//	bitmap    P1     P4   .pbm       0-1
//	graymap   P2     P5   .pgm       0-255 or 0-65535
//	pixmap    P3     P6   .ppm       0-255 or 0-65535 per RGB channel
//	arbitrary        P7   .pam       tuple types declared in the header
type Format uint8

const (
	PBMPlain Format = iota + 1
	PGMPlain
	PPMPlain
	PBMRaw
	PGMRaw
	PPMRaw
	PAM
)

var magicNumbers = map[string]Format{
	"P1": PBMPlain,
	"P2": PGMPlain,
	"P3": PPMPlain,
	"P4": PBMRaw,
	"P5": PGMRaw,
	"P6": PPMRaw,
	"P7": PAM,
}

// lookupFormat matches a header token against the known magic numbers.
func lookupFormat(tok []byte) (Format, bool) {
	if len(tok) != 2 {
		return 0, false
	}
	f, ok := magicNumbers[string(tok)]
	return f, ok
}

// String returns the magic number, e.g. "P5".
func (f Format) String() string {
	if f < PBMPlain || f > PAM {
		return "P?"
	}
	return string([]byte{'P', '0' + byte(f)})
}

// Name returns the conventional file extension without the dot.
func (f Format) Name() string {
	switch f {
	case PBMPlain, PBMRaw:
		return "pbm"
	case PGMPlain, PGMRaw:
		return "pgm"
	case PPMPlain, PPMRaw:
		return "ppm"
	case PAM:
		return "pam"
	}
	return "unknown"
}

// Binary reports whether the body is raw bytes rather than ASCII text.
func (f Format) Binary() bool {
	return f >= PBMRaw
}

// Channels is the number of samples stored per pixel.
func (f Format) Channels() int {
	if f == PPMPlain || f == PPMRaw {
		return 3
	}
	return 1
}

// HasMaxValue reports whether the header carries a max value field.
// Bitmaps do not; their max value is implicitly 1.
func (f Format) HasMaxValue() bool {
	return f != PBMPlain && f != PBMRaw
}
