package utils

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

const MaxRawHertz = 1000

// Hertz formats with an SI prefix, e.g. 1.00125 GHz.
type Hertz float64

func (h Hertz) String() string {
	if h < MaxRawHertz {
		return strconv.FormatFloat(float64(h), 'f', -1, 64) + " Hz"
	} else {
		return humanize.SIWithDigits(float64(h), 6, "Hz")
	}
}

// MHz converts a frequency in MHz, the unit the synthesizer API works in.
func MHz(mhz float64) Hertz {
	return Hertz(mhz * 1e6)
}
