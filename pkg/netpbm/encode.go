package netpbm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Plain lines are kept within 70 characters, as netpbm recommends.
const plainLineWidth = 70

// Encode writes img as a graymap: P2 when plain is true, P5 otherwise.
// Raw samples use two bytes when MaxValue exceeds 255.
func Encode(w io.Writer, img *Image, plain bool) error {
	if img.Format.Channels() != 1 || !img.Format.HasMaxValue() {
		return fmt.Errorf("%w: encoding %s", ErrNotImplemented, img.Format)
	}
	if img.MaxValue == 0 {
		return fmt.Errorf("%w: max value must be at least 1", ErrInvalidHeader)
	}
	if len(img.Data) != img.Width*img.Height {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrTruncatedData, len(img.Data), img.Width, img.Height)
	}

	f := PGMRaw
	if plain {
		f = PGMPlain
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d %d\n%d\n", f, img.Width, img.Height, img.MaxValue)

	if plain {
		writePlain(bw, img.Data)
	} else {
		writeRaw(bw, img.Data, img.MaxValue > 0xFF)
	}
	return bw.Flush()
}

func writeRaw(bw *bufio.Writer, data []uint16, wide bool) {
	for _, s := range data {
		if wide {
			bw.WriteByte(byte(s >> 8))
		}
		bw.WriteByte(byte(s))
	}
}

func writePlain(bw *bufio.Writer, data []uint16) {
	col := 0
	var num []byte
	for _, s := range data {
		num = strconv.AppendUint(num[:0], uint64(s), 10)
		if col > 0 && col+1+len(num) > plainLineWidth {
			bw.WriteByte('\n')
			col = 0
		}
		if col > 0 {
			bw.WriteByte(' ')
			col++
		}
		bw.Write(num)
		col += len(num)
	}
	bw.WriteByte('\n')
}
