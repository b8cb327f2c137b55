package valon

import (
	"fmt"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

// Options controls the reference path of one synthesizer. DoubleRef and HalfRef both set is
// the same as neither.
type Options struct {
	DoubleRef bool   `yaml:"doubleRef" json:"doubleRef"`
	HalfRef   bool   `yaml:"halfRef" json:"halfRef"`
	R         uint32 `yaml:"r" json:"r"`
	LowSpur   bool   `yaml:"lowSpur" json:"lowSpur"`
}

func optionsFromRegisters(regs protocol.Registers) Options {
	return Options{
		DoubleRef: regs.R2.DoubleR(),
		HalfRef:   regs.R2.HalfR(),
		R:         regs.R2.R(),
		LowSpur:   regs.R2.LowSpur() != 0,
	}
}

func (o Options) validate() error {
	if !protocol.R2R.Fits(o.R) {
		return &protocol.InvalidArgumentError{Name: "reference divider", Value: o.R, Reason: "must fit in 10 bits"}
	}
	return nil
}

func (o Options) apply(regs *protocol.Registers) {
	regs.R2.SetDoubleR(o.DoubleRef)
	regs.R2.SetHalfR(o.HalfRef)
	regs.R2.SetR(o.R)
	regs.R2.SetLowSpur(o.LowSpur)
}

func (o Options) String() string {
	mode := "low noise"
	if o.LowSpur {
		mode = "low spur"
	}
	return fmt.Sprintf("double=%t half=%t r=%d %s", o.DoubleRef, o.HalfRef, o.R, mode)
}
