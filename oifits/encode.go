// SPDX-License-Identifier: MIT

package oifits

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// blockWriter tracks the byte count so units can be padded to 2880 bytes.
// The first error sticks.
type blockWriter struct {
	w   io.Writer
	n   int
	err error
}

func (b *blockWriter) write(p []byte) {
	if b.err != nil {
		return
	}
	n, err := b.w.Write(p)
	b.n += n
	b.err = err
}

func (b *blockWriter) pad(fill byte) {
	rem := b.n % blockSize
	if rem == 0 {
		return
	}
	p := make([]byte, blockSize-rem)
	if fill != 0 {
		for i := range p {
			p[i] = fill
		}
	}
	b.write(p)
}

// WriteHDUs writes hdus as a FITS file. hdus[0] is the primary unit and
// carries no data; every following unit must hold a Table or an Image.
func WriteHDUs(w io.Writer, hdus []HDU) error {
	if len(hdus) == 0 {
		return fmt.Errorf("no primary HDU: %w", ErrBadHeader)
	}
	if hdus[0].Table != nil || hdus[0].Image != nil {
		return fmt.Errorf("primary HDU with data: %w", ErrUnsupported)
	}

	bw := &blockWriter{w: w}
	var primary Header
	primary.Add("SIMPLE", true, "file conforms to FITS standard")
	primary.Add("BITPIX", 8, "")
	primary.Add("NAXIS", 0, "")
	primary.Add("EXTEND", true, "")
	if err := writeHeader(bw, primary, hdus[0].Header); err != nil {
		return err
	}

	for i, h := range hdus[1:] {
		var err error
		switch {
		case h.Table != nil:
			err = writeTable(bw, h.Table)
		case h.Image != nil:
			err = writeImage(bw, h.Image)
		default:
			err = fmt.Errorf("extension %d: no table or image: %w", i+1, ErrUnsupported)
		}
		if err != nil {
			return err
		}
	}

	return bw.err
}

// writeHeader emits the structural cards, the non-reserved extra cards,
// END, and pads the block with spaces.
func writeHeader(bw *blockWriter, structural, extra Header) error {
	emit := func(c Card) error {
		line, err := formatCard(c)
		if err != nil {
			return err
		}
		bw.write([]byte(line))
		return nil
	}
	for _, c := range structural.Cards {
		if err := emit(c); err != nil {
			return err
		}
	}
	for _, c := range extra.Cards {
		if reserved(c.Key) {
			continue
		}
		if err := emit(c); err != nil {
			return err
		}
	}
	bw.write([]byte(pad("END", cardSize)))
	bw.pad(' ')

	return bw.err
}

func writeTable(bw *blockWriter, t *Table) error {
	rows, err := t.Rows()
	if err != nil {
		return err
	}
	rowBytes := 0
	for _, c := range t.Columns {
		rowBytes += c.width()
	}

	var h Header
	h.Add("XTENSION", "BINTABLE", "binary table extension")
	h.Add("BITPIX", 8, "")
	h.Add("NAXIS", 2, "")
	h.Add("NAXIS1", rowBytes, "bytes per row")
	h.Add("NAXIS2", rows, "number of rows")
	h.Add("PCOUNT", 0, "")
	h.Add("GCOUNT", 1, "")
	h.Add("TFIELDS", len(t.Columns), "")
	for i, c := range t.Columns {
		n := strconv.Itoa(i + 1)
		h.Add("TTYPE"+n, c.Name, "")
		h.Add("TFORM"+n, c.TForm(), "")
		if c.Unit != "" {
			h.Add("TUNIT"+n, c.Unit, "")
		}
	}
	h.Add("EXTNAME", t.Name, "")
	if err := writeHeader(bw, h, t.Header); err != nil {
		return fmt.Errorf("table %s: %w", t.Name, err)
	}

	buf := make([]byte, rowBytes)
	for r := 0; r < rows; r++ {
		off := 0
		for _, c := range t.Columns {
			if err := encodeCell(buf[off:off+c.width()], c, r); err != nil {
				return fmt.Errorf("table %s row %d: %w", t.Name, r, err)
			}
			off += c.width()
		}
		bw.write(buf)
	}
	bw.pad(0)

	return bw.err
}

// encodeCell writes row r of c into dst (exactly c.width() bytes).
func encodeCell(dst []byte, c Column, r int) error {
	base := r * c.Repeat
	switch c.Format {
	case FormatChar:
		s := c.Strings[r]
		if len(s) > c.Repeat || !printable(s) {
			return fmt.Errorf("column %s: value %q does not fit %s: %w", c.Name, s, c.TForm(), ErrBadColumn)
		}
		copy(dst, pad(s, c.Repeat))
	case FormatLogical:
		for k := 0; k < c.Repeat; k++ {
			dst[k] = 'F'
			if c.Bools[base+k] {
				dst[k] = 'T'
			}
		}
	case FormatInt16:
		for k := 0; k < c.Repeat; k++ {
			v := c.Ints[base+k]
			if v < math.MinInt16 || v > math.MaxInt16 {
				return fmt.Errorf("column %s: %d overflows int16: %w", c.Name, v, ErrBadColumn)
			}
			binary.BigEndian.PutUint16(dst[2*k:], uint16(int16(v)))
		}
	case FormatInt32:
		for k := 0; k < c.Repeat; k++ {
			v := c.Ints[base+k]
			if v < math.MinInt32 || v > math.MaxInt32 {
				return fmt.Errorf("column %s: %d overflows int32: %w", c.Name, v, ErrBadColumn)
			}
			binary.BigEndian.PutUint32(dst[4*k:], uint32(int32(v)))
		}
	case FormatFloat32:
		for k := 0; k < c.Repeat; k++ {
			binary.BigEndian.PutUint32(dst[4*k:], math.Float32bits(float32(c.Floats[base+k])))
		}
	case FormatFloat64:
		for k := 0; k < c.Repeat; k++ {
			binary.BigEndian.PutUint64(dst[8*k:], math.Float64bits(c.Floats[base+k]))
		}
	}

	return nil
}

func writeImage(bw *blockWriter, img *Image) error {
	if img.Width < 0 || img.Height < 0 || len(img.Data) != img.Width*img.Height {
		return fmt.Errorf("image %s: %d values for %dx%d: %w", img.Name, len(img.Data), img.Width, img.Height, ErrBadColumn)
	}

	var h Header
	h.Add("XTENSION", "IMAGE", "image extension")
	h.Add("BITPIX", -64, "")
	h.Add("NAXIS", 2, "")
	h.Add("NAXIS1", img.Width, "")
	h.Add("NAXIS2", img.Height, "")
	h.Add("PCOUNT", 0, "")
	h.Add("GCOUNT", 1, "")
	h.Add("EXTNAME", img.Name, "")
	if err := writeHeader(bw, h, img.Header); err != nil {
		return fmt.Errorf("image %s: %w", img.Name, err)
	}

	buf := make([]byte, 8)
	for _, v := range img.Data {
		binary.BigEndian.PutUint64(buf, math.Float64bits(v))
		bw.write(buf)
	}
	bw.pad(0)

	return bw.err
}
