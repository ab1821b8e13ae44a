// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/katalvlaran/nrmoifits/matrix"
)

// ---------- Defaults (single source of truth) ----------

const (
	DefaultPath        = ""
	DefaultRA          = 0.0
	DefaultDec         = 0.0
	DefaultIntTime     = 1e-5
	DefaultTelescope   = "Unknown"
	DefaultArrayName   = "Unknown"
	DefaultObject      = "object"
	DefaultParAng      = 0.0
	DefaultParAngRange = 0.0
	DefaultMaskRotDeg  = 0.0

	// DefaultPhaseCeil is large enough that no closure phase is ever flagged.
	DefaultPhaseCeil = 1e10

	// GeminiTelescope selects the GPI lenslet position-angle offset.
	GeminiTelescope = "GEMINI"

	// GeminiPAOffsetDeg is the GPI lenslet rotation, counter-clockwise.
	GeminiPAOffsetDeg = -24.5

	// MaxNameLen is the longest string a header card holds, counting a
	// doubled quote as two characters.
	MaxNameLen = 68
)

// DefaultDate is the observation date used when none is configured.
var DefaultDate = time.Date(2014, time.May, 14, 0, 0, 0, 0, time.UTC)

// Notice messages emitted when optional keys are absent.
const (
	NoticeNoMaskRotation = "no mask rotation"
	NoticeNoPhaseCeil    = "no phases will be flagged as bad"
	NoticeGeminiPA       = "GEMINI: applying -24.5 deg lenslet position-angle offset"
)

// Config is the resolved run configuration. Build it with New, FromMap or
// FromEnvFile; the zero value is not meaningful.
type Config struct {
	Path        string
	RA          float64 // degrees
	Dec         float64 // degrees
	Date        time.Time
	IntTime     float64 // seconds
	Telescope   string
	ArrayName   string
	Object      string
	ParAng      float64 // degrees
	ParAngRange float64 // degrees
	MaskRotDeg  float64
	PhaseCeil   float64 // radians
	Covariance  *matrix.Dense

	maskRotSet   bool
	phaseCeilSet bool
}

// Option mutates a Config under construction.
type Option func(*Config)

// New returns the default configuration with opts applied, validated.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		Path:        DefaultPath,
		RA:          DefaultRA,
		Dec:         DefaultDec,
		Date:        DefaultDate,
		IntTime:     DefaultIntTime,
		Telescope:   DefaultTelescope,
		ArrayName:   DefaultArrayName,
		Object:      DefaultObject,
		ParAng:      DefaultParAng,
		ParAngRange: DefaultParAngRange,
		MaskRotDeg:  DefaultMaskRotDeg,
		PhaseCeil:   DefaultPhaseCeil,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(c)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// WithPath sets the data directory prefix (concatenated verbatim with file names).
func WithPath(p string) Option { return func(c *Config) { c.Path = p } }

// WithTarget sets the target name and its J2000 coordinates in degrees.
func WithTarget(name string, ra, dec float64) Option {
	return func(c *Config) { c.Object, c.RA, c.Dec = name, ra, dec }
}

// WithDate sets the observation date (UTC midnight).
func WithDate(year int, month time.Month, day int) Option {
	return func(c *Config) { c.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC) }
}

// WithIntTime sets the integration time in seconds.
func WithIntTime(s float64) Option { return func(c *Config) { c.IntTime = s } }

// WithTelescope sets the telescope/instrument name.
func WithTelescope(name string) Option { return func(c *Config) { c.Telescope = name } }

// WithArrayName sets the array name.
func WithArrayName(name string) Option { return func(c *Config) { c.ArrayName = name } }

// WithParallacticAngle sets the average parallactic angle and its range, in degrees.
func WithParallacticAngle(avg, rng float64) Option {
	return func(c *Config) { c.ParAng, c.ParAngRange = avg, rng }
}

// WithMaskRotation sets the mask rotation in degrees.
func WithMaskRotation(deg float64) Option {
	return func(c *Config) { c.MaskRotDeg, c.maskRotSet = deg, true }
}

// WithPhaseCeil sets the closure-phase flag ceiling in radians.
func WithPhaseCeil(rad float64) Option {
	return func(c *Config) { c.PhaseCeil, c.phaseCeilSet = rad, true }
}

// WithCovariance attaches a square, symmetric covariance matrix.
func WithCovariance(m *matrix.Dense) Option { return func(c *Config) { c.Covariance = m } }

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case !finite(c.RA) || !finite(c.Dec):
		return fmt.Errorf("RA/DEC must be finite: %w", ErrInvalid)
	case !(c.IntTime > 0) || math.IsInf(c.IntTime, 0):
		return fmt.Errorf("int_time %g must be positive: %w", c.IntTime, ErrInvalid)
	case !finite(c.ParAng) || !finite(c.ParAngRange) || !finite(c.MaskRotDeg):
		return fmt.Errorf("angles must be finite: %w", ErrInvalid)
	case math.IsNaN(c.PhaseCeil) || c.PhaseCeil < 0:
		return fmt.Errorf("phaseceil %g must be non-negative: %w", c.PhaseCeil, ErrInvalid)
	}
	for _, f := range []struct{ key, val string }{
		{KeyObject, c.Object}, {KeyTelescope, c.Telescope}, {KeyArrayName, c.ArrayName},
	} {
		if err := checkName(f.key, f.val); err != nil {
			return err
		}
	}
	if c.Covariance != nil {
		if err := matrix.ValidateSymmetric(c.Covariance, matrix.DefaultEpsilon); err != nil {
			return fmt.Errorf("covariance: %w: %w", ErrInvalid, err)
		}
	}

	return nil
}

// Notices lists the informational messages for optional keys left at
// their defaults and for the GEMINI position-angle offset.
func (c *Config) Notices() []string {
	var out []string
	if !c.maskRotSet {
		out = append(out, NoticeNoMaskRotation)
	}
	if !c.phaseCeilSet {
		out = append(out, NoticeNoPhaseCeil)
	}
	if c.Telescope == GeminiTelescope {
		out = append(out, NoticeGeminiPA)
	}

	return out
}

// PAOffsetDeg returns the instrument position-angle offset: -24.5° for
// GEMINI (GPI lenslets), 0 otherwise.
func (c *Config) PAOffsetDeg() float64 {
	if c.Telescope == GeminiTelescope {
		return GeminiPAOffsetDeg
	}

	return 0
}

// SkyRotationDeg is the angle that would bring mask coordinates onto the
// sky: -parang + PA offset + mask rotation.
func (c *Config) SkyRotationDeg() float64 {
	return -c.ParAng + c.PAOffsetDeg() + c.MaskRotDeg
}

// checkName rejects strings that cannot be written as a header card value.
func checkName(key, v string) error {
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7e {
			return fmt.Errorf("%s %q: non-printable or non-ASCII character: %w", key, v, ErrInvalid)
		}
	}
	if n := len(v) + strings.Count(v, "'"); n > MaxNameLen {
		return fmt.Errorf("%s: %d characters, max %d: %w", key, n, MaxNameLen, ErrInvalid)
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
