package valon

import (
	"math"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

const (
	DefaultChannelSpacing = 10.0
	MaxDivider            = 16
)

// FrequencySetting holds the PLL register quantities that determine the output frequency:
//
//	frequency = (NCount + Frac/Mod) * EPDF / DBF
type FrequencySetting struct {
	NCount uint32
	Frac   uint32
	Mod    uint32
	DBF    uint32
}

// Frequency returns the output frequency in MHz for the given EPDF in MHz.
func (fs FrequencySetting) Frequency(epdf float64) float64 {
	n := float64(fs.NCount)
	if fs.Mod != 0 {
		n += float64(fs.Frac) / float64(fs.Mod)
	}
	dbf := fs.DBF
	if dbf == 0 {
		dbf = 1
	}
	return n * epdf / float64(dbf)
}

func frequencySetting(regs protocol.Registers) FrequencySetting {
	return FrequencySetting{
		NCount: regs.R0.NCount(),
		Frac:   regs.R0.Frac(),
		Mod:    regs.R1.Mod(),
		DBF:    protocol.DividerFactor(regs.R4.DividerSelect()),
	}
}

// apply writes the setting into a register snapshot, leaving every other field alone.
func (fs FrequencySetting) apply(regs *protocol.Registers) {
	code, _ := protocol.DividerCode(fs.DBF)
	regs.R0.SetNCount(fs.NCount)
	regs.R0.SetFrac(fs.Frac)
	regs.R1.SetMod(fs.Mod)
	regs.R4.SetDividerSelect(code)
}

// EPDF returns the effective phase detector frequency in MHz for a reference in Hz.
func EPDF(reference uint32, opts Options) float64 {
	epdf := float64(reference) / 1e6
	if opts.DoubleRef {
		epdf *= 2
	}
	if opts.HalfRef {
		epdf /= 2
	}
	if opts.R > 1 {
		epdf /= float64(opts.R)
	}
	return epdf
}

// round is the half-up rounding applied to frac and mod: add 0.5, then truncate. It reports
// false when the result does not fit in 32 bits.
func round(v float64) (uint32, bool) {
	v += 0.5
	if !(v >= 0) || v >= math.MaxUint32+1 {
		return 0, false
	}
	return uint32(v), true
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ComputeFrequencySetting inverts the PLL equation for a requested output frequency in MHz.
// The output divider is the smallest power of two that lifts the VCO above vcoLow; frac and
// mod are quantized to the channel spacing and reduced to lowest terms.
func ComputeFrequencySetting(mhz, spacing, epdf float64, vcoLow uint16) (FrequencySetting, error) {
	if !(mhz > 0) || math.IsInf(mhz, 0) {
		return FrequencySetting{}, &protocol.InvalidArgumentError{Name: "frequency", Value: mhz, Reason: "must be positive"}
	}
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return FrequencySetting{}, &protocol.InvalidArgumentError{Name: "channel spacing", Value: spacing, Reason: "must be positive"}
	}
	if !(epdf > 0) || math.IsInf(epdf, 0) {
		return FrequencySetting{}, &protocol.InvalidArgumentError{Name: "EPDF", Value: epdf, Reason: "reference must be set"}
	}
	dbf := uint32(1)
	for mhz*float64(dbf) <= float64(vcoLow) && dbf < MaxDivider {
		dbf *= 2
	}
	vco := mhz * float64(dbf)
	n := math.Floor(vco / epdf)
	if n > float64(protocol.R0NCount.Max()) {
		return FrequencySetting{}, &protocol.InvalidArgumentError{Name: "frequency", Value: mhz, Reason: "N counter out of range"}
	}
	ncount := uint32(n)
	frac, fracOK := round((vco - n*epdf) / spacing)
	mod, modOK := round(epdf / spacing)
	if !fracOK || !modOK {
		return FrequencySetting{}, &protocol.InvalidArgumentError{Name: "channel spacing", Value: spacing, Reason: "modulus out of range"}
	}
	if frac != 0 && mod != 0 {
		divisor := gcd(frac, mod)
		frac /= divisor
		mod /= divisor
	} else {
		frac = 0
		mod = 1
	}
	// Rounding can push frac up to mod; carry it into ncount so that frac < mod holds.
	if frac >= mod {
		ncount += frac / mod
		frac %= mod
		if frac == 0 {
			mod = 1
		}
	}
	fs := FrequencySetting{NCount: ncount, Frac: frac, Mod: mod, DBF: dbf}
	switch {
	case !protocol.R0NCount.Fits(ncount):
		return fs, &protocol.InvalidArgumentError{Name: "frequency", Value: mhz, Reason: "N counter out of range"}
	case !protocol.R1Mod.Fits(mod):
		return fs, &protocol.InvalidArgumentError{Name: "channel spacing", Value: spacing, Reason: "modulus out of range"}
	}
	return fs, nil
}
