// SPDX-License-Identifier: MIT

// Package txtdata reads calibrated measurements stored as whitespace
// separated text tables, one file per quantity (and per channel).
//
// File naming, for keyword KW under directory prefix P:
//
//	single channel:  P + KW + ".txt"          P + KW + "err.txt"
//	multi channel:   P + KW + "_<ch>.txt"     P + KW + "err_<ch>.txt"
//
// P is concatenated verbatim, so a directory prefix must carry its
// trailing separator.
package txtdata

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Keyword names a measured quantity.
type Keyword string

const (
	// SquaredVisibility is the per-baseline V² table.
	SquaredVisibility Keyword = "v2"
	// Phase is the per-baseline visibility phase table.
	Phase Keyword = "pha"
	// ClosurePhase is the per-triangle closure phase table.
	ClosurePhase Keyword = "cp"
)

// SingleChannel selects the un-suffixed file names.
const SingleChannel = -1

var (
	// ErrRead indicates a file that could not be opened or read.
	ErrRead = errors.New("txtdata: cannot read table")

	// ErrParse indicates a token that is not a floating point number.
	ErrParse = errors.New("txtdata: malformed value")

	// ErrWidth indicates a table whose value count differs from the expected width.
	ErrWidth = errors.New("txtdata: unexpected value count")
)

// Paths returns the value and error file paths for kw and channel.
// channel == SingleChannel selects the un-suffixed names.
func Paths(prefix string, kw Keyword, channel int) (string, string) {
	if channel == SingleChannel {
		return prefix + string(kw) + ".txt", prefix + string(kw) + "err.txt"
	}
	suffix := "_" + strconv.Itoa(channel) + ".txt"

	return prefix + string(kw) + suffix, prefix + string(kw) + "err" + suffix
}

// ReadQuantity loads the value and error tables of kw for one channel.
// Both tables must hold exactly width values (width < 0 disables the check).
func ReadQuantity(prefix string, kw Keyword, channel, width int) ([]float64, []float64, error) {
	valPath, errPath := Paths(prefix, kw, channel)
	vals, err := ReadTable(valPath)
	if err != nil {
		return nil, nil, err
	}
	errs, err := ReadTable(errPath)
	if err != nil {
		return nil, nil, err
	}
	if width >= 0 {
		if len(vals) != width {
			return nil, nil, fmt.Errorf("%s: %d values, want %d: %w", valPath, len(vals), width, ErrWidth)
		}
		if len(errs) != width {
			return nil, nil, fmt.Errorf("%s: %d values, want %d: %w", errPath, len(errs), width, ErrWidth)
		}
	}

	return vals, errs, nil
}

// ReadSeries loads kw for channels 0..nChannels-1 into channel × width
// arrays. A single channel uses the un-suffixed file names.
func ReadSeries(prefix string, kw Keyword, nChannels, width int) ([][]float64, [][]float64, error) {
	vals := make([][]float64, nChannels)
	errs := make([][]float64, nChannels)
	var err error
	if nChannels == 1 {
		vals[0], errs[0], err = ReadQuantity(prefix, kw, SingleChannel, width)
		if err != nil {
			return nil, nil, err
		}
		return vals, errs, nil
	}
	for ch := 0; ch < nChannels; ch++ {
		vals[ch], errs[ch], err = ReadQuantity(prefix, kw, ch, width)
		if err != nil {
			return nil, nil, err
		}
	}

	return vals, errs, nil
}

// ReadTable reads every number of a text table in row-major order.
// Blank lines and '#' comments are ignored.
func ReadTable(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrRead, err)
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, tok := range strings.Fields(text) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %q: %w", path, line, tok, ErrParse)
			}
			out = append(out, v)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrRead, err)
	}

	return out, nil
}
