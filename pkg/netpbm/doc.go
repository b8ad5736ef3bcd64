// Package netpbm decodes netpbm graymaps (PGM) held in memory.
//
// A netpbm file is a short ASCII header followed by pixel data:
//
//	P5            magic number: P2 plain (ASCII) or P5 raw (binary)
//	# comment     comments run from '#' to the end of the line
//	640 480       width and height
//	255           max value; above 255 raw samples take two bytes
//	<data>        begins right after one whitespace byte
//
// # Basic Usage
//
//	img, err := netpbm.Parse(data)
//	if errors.Is(err, netpbm.ErrNotImplemented) {
//	    // a PBM or PPM file
//	}
//	fmt.Println(img.Width, img.Height, img.At(0, 0))
//
// Decoding with options:
//
//	dec := netpbm.NewDecoder(
//	    netpbm.WithLogger(logger),
//	    netpbm.WithASCIIPolicy(netpbm.FailOnUnparseable),
//	)
//	img, err := dec.Parse(data)
//
// The package also registers itself with the image package:
//
//	import _ "github.com/pgmview/pgmview/pkg/netpbm"
//	img, _, err := image.Decode(reader)
//
// # Design Principles
//
//   - No I/O: the decoder works on a []byte the caller already loaded
//   - Zero lookahead: the header is tokenized on whitespace and the raw
//     body is handed over untouched, so binary bytes are never mistaken
//     for delimiters
//   - Every failure is a returned error; errors.Is matches the sentinels
//     and errors.As yields a *FormatError with the byte offset
//
// # Plain Bodies
//
// Plain samples are read until Width*Height values are collected. A token
// that is not a number ends the data under StopOnFirstUnparseable (the
// default) and is an error under FailOnUnparseable. Either way a short
// raster is ErrTruncatedData.
//
// # Other Formats
//
// P1, P3, P4, P6 and P7 are recognized and reported as ErrNotImplemented.
// WithBodyDecoder adds decoders for the first four; bitmaps skip the max
// value field.
package netpbm
