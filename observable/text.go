// SPDX-License-Identifier: MIT

package observable

import (
	"fmt"

	"github.com/katalvlaran/nrmoifits/txtdata"
)

// LoadText reads v2, pha and cp tables (and their errors) for nChannels
// channels from prefix. One channel uses the un-suffixed file names.
// Any unreadable or malformed file aborts with its path in the error.
func LoadText(prefix string, nChannels, nbl, ncp int) (Measurements, error) {
	var m Measurements
	var err error
	if m.V2, m.V2Err, err = txtdata.ReadSeries(prefix, txtdata.SquaredVisibility, nChannels, nbl); err != nil {
		return Measurements{}, fmt.Errorf("load v2: %w", err)
	}
	if m.Pha, m.PhaErr, err = txtdata.ReadSeries(prefix, txtdata.Phase, nChannels, nbl); err != nil {
		return Measurements{}, fmt.Errorf("load pha: %w", err)
	}
	if m.CP, m.CPErr, err = txtdata.ReadSeries(prefix, txtdata.ClosurePhase, nChannels, ncp); err != nil {
		return Measurements{}, fmt.Errorf("load cp: %w", err)
	}

	return m, nil
}
