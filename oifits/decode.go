// SPDX-License-Identifier: MIT

package oifits

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Decode reads a FITS file, transparently decompressing gzip input.
//
// Binary tables are decoded into Columns; 2-D float images into Image.
// Other extension types keep their header only.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()

		return decode(zr)
	}

	return decode(br)
}

func decode(r io.Reader) (*File, error) {
	f := &File{}
	for {
		h, err := readHeader(r)
		if errors.Is(err, io.EOF) {
			if len(f.HDUs) == 0 {
				return nil, ErrTruncated
			}
			return f, nil
		}
		if err != nil {
			return nil, fmt.Errorf("HDU %d: %w", len(f.HDUs), err)
		}

		size, err := dataSize(h)
		if err != nil {
			return nil, fmt.Errorf("HDU %d: %w", len(f.HDUs), err)
		}
		data := make([]byte, (size+blockSize-1)/blockSize*blockSize)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("HDU %d data: %w", len(f.HDUs), ErrTruncated)
		}
		data = data[:size]

		hdu := HDU{Header: h}
		if len(f.HDUs) == 0 {
			if simple, ok := h.Bool("SIMPLE"); !ok || !simple {
				return nil, fmt.Errorf("missing SIMPLE: %w", ErrBadHeader)
			}
		} else {
			xt, _ := h.String("XTENSION")
			switch xt {
			case "BINTABLE":
				hdu.Table, err = decodeTable(h, data)
			case "IMAGE":
				hdu.Image, err = decodeImage(h, data)
			}
			if err != nil {
				return nil, fmt.Errorf("HDU %d: %w", len(f.HDUs), err)
			}
		}
		f.HDUs = append(f.HDUs, hdu)
	}
}

// readHeader reads blocks up to and including the one holding END.
// A clean end of input before any byte is reported as io.EOF.
func readHeader(r io.Reader) (Header, error) {
	var h Header
	block := make([]byte, blockSize)
	for first := true; ; first = false {
		n, err := io.ReadFull(r, block)
		if err != nil {
			if first && n == 0 && errors.Is(err, io.EOF) {
				return Header{}, io.EOF
			}
			return Header{}, ErrTruncated
		}
		for off := 0; off < blockSize; off += cardSize {
			line := string(block[off : off+cardSize])
			if strings.TrimSpace(line) == "" {
				continue
			}
			c, err := parseCard(line)
			if err != nil {
				return Header{}, err
			}
			if c.Key == "END" {
				return h, nil
			}
			h.Cards = append(h.Cards, c)
		}
	}
}

// dataSize returns the unpadded byte length of the data unit.
func dataSize(h Header) (int, error) {
	bitpix, ok := h.Int("BITPIX")
	if !ok {
		return 0, fmt.Errorf("missing BITPIX: %w", ErrBadHeader)
	}
	naxis, ok := h.Int("NAXIS")
	if !ok {
		return 0, fmt.Errorf("missing NAXIS: %w", ErrBadHeader)
	}
	if naxis == 0 {
		return 0, nil
	}
	elems := 1
	for i := 1; i <= naxis; i++ {
		n, ok := h.Int("NAXIS" + strconv.Itoa(i))
		if !ok || n < 0 {
			return 0, fmt.Errorf("NAXIS%d: %w", i, ErrBadHeader)
		}
		elems *= n
	}
	pcount, _ := h.Int("PCOUNT")
	gcount, ok := h.Int("GCOUNT")
	if !ok {
		gcount = 1
	}
	if bitpix < 0 {
		bitpix = -bitpix
	}

	return bitpix / 8 * gcount * (pcount + elems), nil
}

func decodeTable(h Header, data []byte) (*Table, error) {
	rowBytes, _ := h.Int("NAXIS1")
	rows, _ := h.Int("NAXIS2")
	fields, ok := h.Int("TFIELDS")
	if !ok {
		return nil, fmt.Errorf("missing TFIELDS: %w", ErrBadHeader)
	}
	name, _ := h.String("EXTNAME")

	t := &Table{Name: name, Header: h, Columns: make([]Column, fields)}
	width := 0
	for i := range t.Columns {
		n := strconv.Itoa(i + 1)
		tform, ok := h.String("TFORM" + n)
		if !ok {
			return nil, fmt.Errorf("table %s: missing TFORM%s: %w", name, n, ErrBadHeader)
		}
		repeat, format, err := parseTForm(tform)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		c := Column{Format: format, Repeat: repeat}
		c.Name, _ = h.String("TTYPE" + n)
		c.Unit, _ = h.String("TUNIT" + n)
		t.Columns[i] = c
		width += c.width()
	}
	if width != rowBytes || len(data) < rows*rowBytes {
		return nil, fmt.Errorf("table %s: columns span %d bytes, NAXIS1=%d: %w", name, width, rowBytes, ErrBadColumn)
	}

	for r := 0; r < rows; r++ {
		off := r * rowBytes
		for i := range t.Columns {
			c := &t.Columns[i]
			decodeCell(c, data[off:off+c.width()])
			off += c.width()
		}
	}

	return t, nil
}

// decodeCell appends one row of src to c.
func decodeCell(c *Column, src []byte) {
	switch c.Format {
	case FormatChar:
		c.Strings = append(c.Strings, strings.TrimRight(string(src), " \x00"))
	case FormatLogical:
		for k := 0; k < c.Repeat; k++ {
			c.Bools = append(c.Bools, src[k] == 'T')
		}
	case FormatInt16:
		for k := 0; k < c.Repeat; k++ {
			c.Ints = append(c.Ints, int64(int16(binary.BigEndian.Uint16(src[2*k:]))))
		}
	case FormatInt32:
		for k := 0; k < c.Repeat; k++ {
			c.Ints = append(c.Ints, int64(int32(binary.BigEndian.Uint32(src[4*k:]))))
		}
	case FormatFloat32:
		for k := 0; k < c.Repeat; k++ {
			c.Floats = append(c.Floats, float64(math.Float32frombits(binary.BigEndian.Uint32(src[4*k:]))))
		}
	case FormatFloat64:
		for k := 0; k < c.Repeat; k++ {
			c.Floats = append(c.Floats, math.Float64frombits(binary.BigEndian.Uint64(src[8*k:])))
		}
	}
}

func decodeImage(h Header, data []byte) (*Image, error) {
	bitpix, _ := h.Int("BITPIX")
	naxis, _ := h.Int("NAXIS")
	name, _ := h.String("EXTNAME")
	if (bitpix != -64 && bitpix != -32) || naxis < 1 || naxis > 2 {
		return nil, fmt.Errorf("image %s: BITPIX=%d NAXIS=%d: %w", name, bitpix, naxis, ErrUnsupported)
	}

	img := &Image{Name: name, Header: h, Height: 1}
	img.Width, _ = h.Int("NAXIS1")
	if naxis == 2 {
		img.Height, _ = h.Int("NAXIS2")
	}
	n := img.Width * img.Height
	img.Data = make([]float64, n)
	for i := 0; i < n; i++ {
		if bitpix == -64 {
			img.Data[i] = math.Float64frombits(binary.BigEndian.Uint64(data[8*i:]))
		} else {
			img.Data[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(data[4*i:])))
		}
	}

	return img, nil
}
