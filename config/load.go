// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Recognized keys of the key/value configuration form.
const (
	KeyPath        = "path"
	KeyRA          = "RA"
	KeyDec         = "DEC"
	KeyYear        = "year"
	KeyMonth       = "month"
	KeyDay         = "day"
	KeyIntTime     = "int_time"
	KeyTelescope   = "TEL"
	KeyArrayName   = "arrname"
	KeyObject      = "object"
	KeyParAng      = "PARANG"
	KeyParAngRange = "PARANGRANGE"
	KeyMaskRotDeg  = "maskrotdeg"
	KeyPhaseCeil   = "phaseceil"
)

// FromEnvFile parses a dotenv file of recognized keys into a Config.
func FromEnvFile(path string, opts ...Option) (*Config, error) {
	kv, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return FromMap(kv, opts...)
}

// FromMap parses recognized keys into a Config. Keys are visited in sorted
// order so the first error reported is stable. Explicit opts are applied
// after the map.
//
// The date is taken from year/month/day only when all three are present.
func FromMap(kv map[string]string, opts ...Option) (*Config, error) {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parsed []Option
	var year, month, day int
	var dateParts int
	for _, k := range keys {
		v := kv[k]
		switch k {
		case KeyPath:
			parsed = append(parsed, WithPath(v))
		case KeyTelescope:
			parsed = append(parsed, WithTelescope(v))
		case KeyArrayName:
			parsed = append(parsed, WithArrayName(v))
		case KeyObject:
			parsed = append(parsed, func(c *Config) { c.Object = v })
		case KeyRA, KeyDec, KeyIntTime, KeyParAng, KeyParAngRange, KeyMaskRotDeg, KeyPhaseCeil:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s=%q: %w", k, v, ErrBadValue)
			}
			parsed = append(parsed, floatOption(k, f))
		case KeyYear, KeyMonth, KeyDay:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%s=%q: %w", k, v, ErrBadValue)
			}
			switch k {
			case KeyYear:
				year = n
			case KeyMonth:
				month = n
			default:
				day = n
			}
			dateParts++
		default:
			return nil, fmt.Errorf("%q: %w", k, ErrUnknownKey)
		}
	}
	if dateParts == 3 {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if d.Year() != year || int(d.Month()) != month || d.Day() != day {
			return nil, fmt.Errorf("date %04d-%02d-%02d: %w", year, month, day, ErrBadValue)
		}
		parsed = append(parsed, WithDate(year, time.Month(month), day))
	}

	return New(append(parsed, opts...)...)
}

func floatOption(key string, f float64) Option {
	return func(c *Config) {
		switch key {
		case KeyRA:
			c.RA = f
		case KeyDec:
			c.Dec = f
		case KeyIntTime:
			c.IntTime = f
		case KeyParAng:
			c.ParAng = f
		case KeyParAngRange:
			c.ParAngRange = f
		case KeyMaskRotDeg:
			c.MaskRotDeg, c.maskRotSet = f, true
		case KeyPhaseCeil:
			c.PhaseCeil, c.phaseCeilSet = f, true
		}
	}
}
