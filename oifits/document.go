// SPDX-License-Identifier: MIT

package oifits

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/katalvlaran/nrmoifits/matrix"
	"github.com/katalvlaran/nrmoifits/observable"
	"github.com/klauspost/compress/gzip"
)

// Extension names in write order.
const (
	TableWavelength = "OI_WAVELENGTH"
	TableArray      = "OI_ARRAY"
	TableTarget     = "OI_TARGET"
	TableVis        = "OI_VIS"
	TableVis2       = "OI_VIS2"
	TableT3         = "OI_T3"
	ImageCovariance = "COVARIANCE"
)

// Revision is the OI_REVN written to every OIFITS table.
const Revision = 1

// mjdUnixEpoch is the Modified Julian Date of 1970-01-01.
const mjdUnixEpoch = 40587.0

// Document is everything written to one OIFITS file.
type Document struct {
	Collection *observable.Collection

	// Telescope is written as TELESCOP and used as INSNAME.
	Telescope   string
	ParAng      float64 // AVPARANG, degrees
	ParAngRange float64 // PARANGRG, degrees

	// Covariance, when set, is written as the COVARIANCE image.
	Covariance *matrix.Dense
}

// Encode writes d as an uncompressed OIFITS file.
func Encode(w io.Writer, d *Document) error {
	hdus, err := d.HDUs()
	if err != nil {
		return err
	}

	return WriteHDUs(w, hdus)
}

// Marshal encodes d, gzip-compressed when compress is set.
func Marshal(d *Document, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	if !compress {
		if err := Encode(&buf, d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	zw := gzip.NewWriter(&buf)
	if err := Encode(zw, d); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	return buf.Bytes(), nil
}

// Compressed reports whether name asks for gzip output.
func Compressed(name string) bool { return strings.HasSuffix(name, ".gz") }

// MJD converts t to a Modified Julian Date.
func MJD(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/float64(24*time.Hour) + mjdUnixEpoch
}

// HDUs lays out the primary unit and every OIFITS extension.
func (d *Document) HDUs() ([]HDU, error) {
	if d == nil || d.Collection == nil || d.Collection.Channels == nil {
		return nil, ErrNilDocument
	}
	c := d.Collection
	date := c.Date.UTC().Format("2006-01-02")

	var primary Header
	primary.Add("DATE-OBS", date, "observation date")
	primary.Add("TELESCOP", d.Telescope, "")
	primary.Add("OBJECT", c.Target.Name, "")
	primary.Add("AVPARANG", d.ParAng, "average parallactic angle [deg]")
	primary.Add("PARANGRG", d.ParAngRange, "parallactic angle range [deg]")

	hdus := []HDU{
		{Header: primary},
		{Table: d.wavelengthTable()},
		{Table: d.arrayTable()},
		{Table: d.targetTable()},
		{Table: d.visTable(date)},
		{Table: d.vis2Table(date)},
		{Table: d.t3Table(date)},
	}
	if d.Covariance != nil {
		img, err := covarianceImage(d.Covariance)
		if err != nil {
			return nil, err
		}
		hdus = append(hdus, HDU{Image: img})
	}

	return hdus, nil
}

func (d *Document) wavelengthTable() *Table {
	ch := d.Collection.Channels
	t := &Table{Name: TableWavelength}
	t.Header.Add("OI_REVN", Revision, "")
	t.Header.Add("INSNAME", d.Telescope, "")
	t.Columns = []Column{
		{Name: "EFF_WAVE", Unit: "m", Format: FormatFloat32, Repeat: 1, Floats: ch.Wavelengths()},
		{Name: "EFF_BAND", Unit: "m", Format: FormatFloat32, Repeat: 1, Floats: ch.Bandwidths()},
	}

	return t
}

func (d *Document) arrayTable() *Table {
	a := d.Collection.Array
	t := &Table{Name: TableArray}
	t.Header.Add("OI_REVN", Revision, "")
	t.Header.Add("ARRNAME", a.Name, "")
	t.Header.Add("FRAME", a.Frame, "")
	t.Header.Add("ARRAYX", a.XYZ[0], "[m]")
	t.Header.Add("ARRAYY", a.XYZ[1], "[m]")
	t.Header.Add("ARRAYZ", a.XYZ[2], "[m]")

	var names []string
	for _, s := range a.Stations {
		names = append(names, s.TelName, s.StaName)
	}
	tel := Column{Name: "TEL_NAME", Format: FormatChar, Repeat: charWidth(16, names...)}
	sta := Column{Name: "STA_NAME", Format: FormatChar, Repeat: charWidth(16, names...)}
	idx := Column{Name: "STA_INDEX", Format: FormatInt16, Repeat: 1}
	diam := Column{Name: "DIAMETER", Unit: "m", Format: FormatFloat32, Repeat: 1}
	xyz := Column{Name: "STAXYZ", Unit: "m", Format: FormatFloat64, Repeat: 3}
	for _, s := range a.Stations {
		tel.Strings = append(tel.Strings, s.TelName)
		sta.Strings = append(sta.Strings, s.StaName)
		idx.Ints = append(idx.Ints, int64(s.Index))
		diam.Floats = append(diam.Floats, s.Diameter)
		xyz.Floats = append(xyz.Floats, s.XYZ[:]...)
	}
	t.Columns = []Column{tel, sta, idx, diam, xyz}

	return t
}

func (d *Document) targetTable() *Table {
	tg := d.Collection.Target
	t := &Table{Name: TableTarget}
	t.Header.Add("OI_REVN", Revision, "")
	one := func(name, unit string, f Format, v float64) Column {
		return Column{Name: name, Unit: unit, Format: f, Repeat: 1, Floats: []float64{v}}
	}
	t.Columns = []Column{
		{Name: "TARGET_ID", Format: FormatInt16, Repeat: 1, Ints: []int64{int64(tg.ID)}},
		{Name: "TARGET", Format: FormatChar, Repeat: charWidth(16, tg.Name), Strings: []string{tg.Name}},
		one("RAEP0", "deg", FormatFloat64, tg.RA),
		one("DECEP0", "deg", FormatFloat64, tg.Dec),
		one("EQUINOX", "year", FormatFloat32, tg.Equinox),
		one("RA_ERR", "deg", FormatFloat64, 0),
		one("DEC_ERR", "deg", FormatFloat64, 0),
		one("SYSVEL", "m/s", FormatFloat64, 0),
		{Name: "VELTYP", Format: FormatChar, Repeat: 8, Strings: []string{tg.VelTyp}},
		{Name: "VELDEF", Format: FormatChar, Repeat: 8, Strings: []string{"OPTICAL"}},
		one("PMRA", "deg/yr", FormatFloat64, 0),
		one("PMDEC", "deg/yr", FormatFloat64, 0),
		one("PMRA_ERR", "deg/yr", FormatFloat64, 0),
		one("PMDEC_ERR", "deg/yr", FormatFloat64, 0),
		one("PARALLAX", "deg", FormatFloat32, 0),
		one("PARA_ERR", "deg", FormatFloat32, 0),
		{Name: "SPECTYP", Format: FormatChar, Repeat: 16, Strings: []string{"UNKNOWN"}},
	}

	return t
}

// dataTable starts an OI_VIS/OI_VIS2/OI_T3 table and returns the columns
// shared by every record type, to be filled row by row.
func (d *Document) dataTable(name, date string) (*Table, *recordColumns) {
	c := d.Collection
	t := &Table{Name: name}
	t.Header.Add("OI_REVN", Revision, "")
	t.Header.Add("DATE-OBS", date, "")
	t.Header.Add("ARRNAME", c.Array.Name, "")
	t.Header.Add("INSNAME", d.Telescope, "")

	return t, &recordColumns{
		target:  Column{Name: "TARGET_ID", Format: FormatInt16, Repeat: 1},
		time:    Column{Name: "TIME", Unit: "s", Format: FormatFloat64, Repeat: 1},
		mjd:     Column{Name: "MJD", Unit: "day", Format: FormatFloat64, Repeat: 1},
		intTime: Column{Name: "INT_TIME", Unit: "s", Format: FormatFloat64, Repeat: 1},
		id:      int64(c.Target.ID),
		seconds: c.Date.Sub(c.Date.Truncate(24 * time.Hour)).Seconds(),
		mjdVal:  MJD(c.Date),
		intVal:  c.IntTime,
	}
}

type recordColumns struct {
	target, time, mjd, intTime Column

	id                      int64
	seconds, mjdVal, intVal float64
}

func (rc *recordColumns) addRow() {
	rc.target.Ints = append(rc.target.Ints, rc.id)
	rc.time.Floats = append(rc.time.Floats, rc.seconds)
	rc.mjd.Floats = append(rc.mjd.Floats, rc.mjdVal)
	rc.intTime.Floats = append(rc.intTime.Floats, rc.intVal)
}

func (rc *recordColumns) head() []Column {
	return []Column{rc.target, rc.time, rc.mjd, rc.intTime}
}

func (d *Document) spectrum(name, unit string) Column {
	return Column{Name: name, Unit: unit, Format: FormatFloat64, Repeat: d.Collection.Channels.Len()}
}

func (d *Document) flags() Column {
	return Column{Name: "FLAG", Format: FormatLogical, Repeat: d.Collection.Channels.Len()}
}

func (d *Document) visTable(date string) *Table {
	t, rc := d.dataTable(TableVis, date)
	t.Columns = append(rc.head(),
		d.spectrum("VISAMP", ""),
		d.spectrum("VISAMPERR", ""),
		d.spectrum("VISPHI", "deg"),
		d.spectrum("VISPHIERR", "deg"),
		Column{Name: "UCOORD", Unit: "m", Format: FormatFloat64, Repeat: 1},
		Column{Name: "VCOORD", Unit: "m", Format: FormatFloat64, Repeat: 1},
		Column{Name: "STA_INDEX", Format: FormatInt16, Repeat: 2},
		d.flags(),
	)

	return t
}

func (d *Document) vis2Table(date string) *Table {
	t, rc := d.dataTable(TableVis2, date)
	vis2, vis2err := d.spectrum("VIS2DATA", ""), d.spectrum("VIS2ERR", "")
	u := Column{Name: "UCOORD", Unit: "m", Format: FormatFloat64, Repeat: 1}
	v := Column{Name: "VCOORD", Unit: "m", Format: FormatFloat64, Repeat: 1}
	sta := Column{Name: "STA_INDEX", Format: FormatInt16, Repeat: 2}
	flag := d.flags()
	for _, r := range d.Collection.Vis2 {
		rc.addRow()
		vis2.Floats = append(vis2.Floats, r.Vis2...)
		vis2err.Floats = append(vis2err.Floats, r.Vis2Err...)
		u.Floats = append(u.Floats, r.U)
		v.Floats = append(v.Floats, r.V)
		sta.Ints = append(sta.Ints, int64(r.Stations[0]), int64(r.Stations[1]))
		flag.Bools = append(flag.Bools, r.Flags...)
	}
	t.Columns = append(rc.head(), vis2, vis2err, u, v, sta, flag)

	return t
}

func (d *Document) t3Table(date string) *Table {
	t, rc := d.dataTable(TableT3, date)
	amp, amperr := d.spectrum("T3AMP", ""), d.spectrum("T3AMPERR", "")
	phi, phierr := d.spectrum("T3PHI", "deg"), d.spectrum("T3PHIERR", "deg")
	coord := func(name string) Column {
		return Column{Name: name, Unit: "m", Format: FormatFloat64, Repeat: 1}
	}
	u1, v1, u2, v2 := coord("U1COORD"), coord("V1COORD"), coord("U2COORD"), coord("V2COORD")
	sta := Column{Name: "STA_INDEX", Format: FormatInt16, Repeat: 3}
	flag := d.flags()
	for _, r := range d.Collection.T3 {
		rc.addRow()
		amp.Floats = append(amp.Floats, r.Amp...)
		amperr.Floats = append(amperr.Floats, r.AmpErr...)
		phi.Floats = append(phi.Floats, degrees(r.Phi)...)
		phierr.Floats = append(phierr.Floats, degrees(r.PhiErr)...)
		u1.Floats = append(u1.Floats, r.U1)
		v1.Floats = append(v1.Floats, r.V1)
		u2.Floats = append(u2.Floats, r.U2)
		v2.Floats = append(v2.Floats, r.V2)
		for _, s := range r.Stations {
			sta.Ints = append(sta.Ints, int64(s))
		}
		flag.Bools = append(flag.Bools, r.Flags...)
	}
	t.Columns = append(rc.head(), amp, amperr, phi, phierr, u1, v1, u2, v2, sta, flag)

	return t
}

func covarianceImage(m *matrix.Dense) (*Image, error) {
	img := &Image{Name: ImageCovariance, Width: m.Cols(), Height: m.Rows()}
	for i := 0; i < m.Rows(); i++ {
		row, err := m.Row(i)
		if err != nil {
			return nil, fmt.Errorf("covariance: %w", err)
		}
		img.Data = append(img.Data, row...)
	}

	return img, nil
}

// charWidth returns the A-column width holding every s, at least floor.
func charWidth(floor int, ss ...string) int {
	for _, s := range ss {
		if len(s) > floor {
			floor = len(s)
		}
	}

	return floor
}

func degrees(rad []float64) []float64 {
	out := make([]float64, len(rad))
	for i, r := range rad {
		out[i] = r * 180 / math.Pi
	}

	return out
}
