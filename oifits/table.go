// SPDX-License-Identifier: MIT

package oifits

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is a binary-table column data type (the TFORM letter).
type Format byte

const (
	FormatChar    Format = 'A'
	FormatLogical Format = 'L'
	FormatInt16   Format = 'I'
	FormatInt32   Format = 'J'
	FormatFloat32 Format = 'E'
	FormatFloat64 Format = 'D'
)

// size returns the width of one element in bytes, or 0 if unsupported.
func (f Format) size() int {
	switch f {
	case FormatChar, FormatLogical:
		return 1
	case FormatInt16:
		return 2
	case FormatInt32, FormatFloat32:
		return 4
	case FormatFloat64:
		return 8
	}

	return 0
}

// Column is one binary-table field. Exactly one data slice is used,
// according to Format:
//
//	A    Strings, one per row, at most Repeat characters
//	L    Bools,   rows*Repeat elements
//	I,J  Ints,    rows*Repeat elements
//	E,D  Floats,  rows*Repeat elements
type Column struct {
	Name    string
	Unit    string
	Format  Format
	Repeat  int
	Strings []string
	Bools   []bool
	Ints    []int64
	Floats  []float64
}

// TForm returns the TFORM keyword value, e.g. "16A" or "3D".
func (c Column) TForm() string { return strconv.Itoa(c.Repeat) + string(c.Format) }

func (c Column) width() int { return c.Repeat * c.Format.size() }

// Rows returns the number of rows held by c.
func (c Column) Rows() (int, error) {
	if c.Format.size() == 0 || c.Repeat < 1 {
		return 0, fmt.Errorf("column %s: format %q repeat %d: %w", c.Name, c.TForm(), c.Repeat, ErrBadColumn)
	}
	var n int
	switch c.Format {
	case FormatChar:
		return len(c.Strings), nil
	case FormatLogical:
		n = len(c.Bools)
	case FormatInt16, FormatInt32:
		n = len(c.Ints)
	default:
		n = len(c.Floats)
	}
	if n%c.Repeat != 0 {
		return 0, fmt.Errorf("column %s: %d elements not a multiple of %d: %w", c.Name, n, c.Repeat, ErrBadColumn)
	}

	return n / c.Repeat, nil
}

// Float returns element k of row r of a float column.
func (c Column) Float(r, k int) float64 { return c.Floats[r*c.Repeat+k] }

// Row returns the floats of row r (a view, not a copy).
func (c Column) Row(r int) []float64 { return c.Floats[r*c.Repeat : (r+1)*c.Repeat] }

// parseTForm splits a TFORM value such as "3D" into repeat and format.
func parseTForm(s string) (int, Format, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == len(s) {
		return 0, 0, fmt.Errorf("TFORM %q: %w", s, ErrBadColumn)
	}
	repeat := 1
	if i > 0 {
		repeat, _ = strconv.Atoi(s[:i])
	}
	f := Format(s[i])
	if f.size() == 0 {
		return 0, 0, fmt.Errorf("TFORM %q: %w", s, ErrUnsupported)
	}

	return repeat, f, nil
}

// Table is a binary-table extension. Header holds cards beyond the
// structural ones, which are generated on write and skipped if present.
type Table struct {
	Name    string
	Header  Header
	Columns []Column
}

// Rows returns the common row count of all columns.
func (t *Table) Rows() (int, error) {
	rows := 0
	for i, c := range t.Columns {
		n, err := c.Rows()
		if err != nil {
			return 0, fmt.Errorf("table %s: %w", t.Name, err)
		}
		if i == 0 {
			rows = n
		} else if n != rows {
			return 0, fmt.Errorf("table %s: column %s has %d rows, want %d: %w", t.Name, c.Name, n, rows, ErrBadColumn)
		}
	}

	return rows, nil
}

// Column returns the column named name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

// Image is a 2-D double-precision image extension, row-major with
// Width values per row (NAXIS1).
type Image struct {
	Name   string
	Header Header
	Width  int
	Height int
	Data   []float64
}

// HDU is one header-data unit. Primary HDUs have neither Table nor Image.
// On decode Header holds every card of the unit.
type HDU struct {
	Header Header
	Table  *Table
	Image  *Image
}

// Name returns EXTNAME, or "PRIMARY" for a unit without one.
func (h HDU) Name() string {
	switch {
	case h.Table != nil:
		return h.Table.Name
	case h.Image != nil:
		return h.Image.Name
	}
	if s, ok := h.Header.String("EXTNAME"); ok {
		return s
	}

	return "PRIMARY"
}

// File is a decoded FITS file.
type File struct {
	HDUs []HDU
}

// Primary returns the primary header.
func (f *File) Primary() Header {
	if len(f.HDUs) == 0 {
		return Header{}
	}

	return f.HDUs[0].Header
}

// Names returns the HDU names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.HDUs))
	for i, h := range f.HDUs {
		out[i] = h.Name()
	}

	return out
}

// Table returns the first binary table named name.
func (f *File) Table(name string) (*Table, bool) {
	for _, h := range f.HDUs {
		if h.Table != nil && h.Table.Name == name {
			return h.Table, true
		}
	}

	return nil, false
}

// Image returns the first image extension named name.
func (f *File) Image(name string) (*Image, bool) {
	for _, h := range f.HDUs {
		if h.Image != nil && h.Image.Name == name {
			return h.Image, true
		}
	}

	return nil, false
}

// reserved reports whether key is generated by the writer.
func reserved(key string) bool {
	switch key {
	case "SIMPLE", "XTENSION", "BITPIX", "NAXIS", "EXTEND", "PCOUNT", "GCOUNT", "TFIELDS", "EXTNAME", "END":
		return true
	}
	for _, p := range []string{"NAXIS", "TTYPE", "TFORM", "TUNIT"} {
		if strings.HasPrefix(key, p) && len(key) > len(p) {
			if _, err := strconv.Atoi(key[len(p):]); err == nil {
				return true
			}
		}
	}

	return false
}
