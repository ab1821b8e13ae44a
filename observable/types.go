// SPDX-License-Identifier: MIT

package observable

import (
	"time"

	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/spectral"
)

// MaxNameLen is the longest target or array name a header card holds,
// counting a doubled quote as two characters.
const MaxNameLen = 68

// Target describes the observed object.
type Target struct {
	ID      int
	Name    string
	RA      float64 // degrees
	Dec     float64 // degrees
	Equinox float64
	VelTyp  string
}

// NewTarget returns a J2000 target with unknown velocity type.
func NewTarget(name string, ra, dec float64) Target {
	return Target{ID: 1, Name: name, RA: ra, Dec: dec, Equinox: 2000, VelTyp: "UNKNOWN"}
}

// Station is one entry of the array table.
type Station struct {
	TelName  string
	StaName  string
	Index    int
	Diameter float64 // metres
	XYZ      [3]float64
}

// Array describes the interferometric array. Masking interferometry has
// no physical stations, so the array normally carries a single placeholder.
type Array struct {
	Name     string
	Frame    string
	XYZ      [3]float64
	Stations []Station
}

// PlaceholderArray returns the array table used for aperture masking:
// geocentric frame and one placeholder station referenced by every record.
func PlaceholderArray(name string) Array {
	xyz := [3]float64{10, 20, 30}
	return Array{
		Name:  name,
		Frame: "GEOCENTRIC",
		XYZ:   xyz,
		Stations: []Station{{
			TelName:  "Dummy Table",
			StaName:  "Dummy Table",
			Index:    0,
			Diameter: 0.45,
			XYZ:      xyz,
		}},
	}
}

// Measurements holds calibrated data shaped [channel × baseline] (V2, Pha)
// or [channel × triangle] (CP). Phases are radians. Pha/PhaErr may be nil,
// in which case visibility phases are zero.
type Measurements struct {
	V2     [][]float64
	V2Err  [][]float64
	CP     [][]float64
	CPErr  [][]float64
	Pha    [][]float64
	PhaErr [][]float64
}

// Vis2Record is the squared visibility of one baseline across all channels.
type Vis2Record struct {
	Baseline geometry.Pair
	U, V     float64
	Vis2     []float64
	Vis2Err  []float64
	Flags    []bool
	Stations [2]int
}

// VisRecord is the visibility amplitude and phase of one baseline.
type VisRecord struct {
	Baseline geometry.Pair
	U, V     float64
	Amp      []float64
	AmpErr   []float64
	Phi      []float64
	PhiErr   []float64
	Flags    []bool
	Stations [2]int
}

// T3Record is the triple product of one closure triangle.
type T3Record struct {
	Triangle geometry.Triple
	U1, V1   float64
	U2, V2   float64
	Amp      []float64
	AmpErr   []float64
	Phi      []float64
	PhiErr   []float64
	Flags    []bool
	Stations [3]int
}

// Collection binds every record to the shared target, array, channel
// table and observation time.
type Collection struct {
	Target   Target
	Array    Array
	Channels *spectral.Channels
	Date     time.Time
	IntTime  float64

	Vis2 []Vis2Record
	Vis  []VisRecord
	T3   []T3Record
}
