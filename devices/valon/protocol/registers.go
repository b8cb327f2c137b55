package protocol

import "fmt"

const (
	RegisterCount     = 6
	RegisterBlockSize = RegisterCount * 4
)

// Field is a bit range inside a 32-bit register, counted from the least significant bit.
type Field struct {
	Offset uint
	Width  uint
}

func (f Field) Mask() uint32 {
	return ((1 << f.Width) - 1) << f.Offset
}

func (f Field) Get(reg uint32) uint32 {
	return (reg & f.Mask()) >> f.Offset
}

// Set replaces the field inside reg, truncating value to the field width. Every other bit of
// reg is kept.
func (f Field) Set(reg, value uint32) uint32 {
	return (reg &^ f.Mask()) | ((value << f.Offset) & f.Mask())
}

// Max is the largest value the field can hold.
func (f Field) Max() uint32 {
	return f.Mask() >> f.Offset
}

// Fits reports whether value can be stored in the field without truncation.
func (f Field) Fits(value uint32) bool {
	return value <= f.Max()
}

var Control = Field{0, 3}

var (
	R0Frac   = Field{3, 12}
	R0NCount = Field{15, 16}
)

var (
	R1Mod       = Field{3, 12}
	R1Phase     = Field{15, 12}
	R1Prescaler = Field{27, 1}
)

var (
	R2CounterReset = Field{3, 1}
	R2CPThreeState = Field{4, 1}
	R2PD           = Field{5, 1}
	R2PDPolarity   = Field{6, 1}
	R2LDP          = Field{7, 1}
	R2LDF          = Field{8, 1}
	R2ChargePump   = Field{9, 4}
	R2DoubleBuffer = Field{13, 1}
	R2R            = Field{14, 10}
	R2HalfR        = Field{24, 1}
	R2DoubleR      = Field{25, 1}
	R2Muxout       = Field{26, 3}
	R2LowSpur      = Field{29, 2}
)

var (
	R3ClockDiv     = Field{3, 12}
	R3ClockDivMode = Field{15, 2}
	R3CSR          = Field{18, 1}
)

var (
	R4OutputPower        = Field{3, 2}
	R4RFOutputEnable     = Field{5, 1}
	R4AuxOutputPower     = Field{6, 2}
	R4AuxOutputEnable    = Field{8, 1}
	R4AuxOutputSelect    = Field{9, 1}
	R4MTLD               = Field{10, 1}
	R4VCOPowerDown       = Field{11, 1}
	R4BandSelectClockDiv = Field{12, 8}
	R4DividerSelect      = Field{20, 3}
	R4FeedbackSelect     = Field{23, 1}
)

var R5LDPinMode = Field{22, 2}

// LowSpurOn is the raw two-bit value written to register 2 when low spur mode is selected.
const LowSpurOn = 0x3

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

type Register0 uint32

func (r Register0) Control() uint32      { return Control.Get(uint32(r)) }
func (r Register0) Frac() uint32         { return R0Frac.Get(uint32(r)) }
func (r Register0) NCount() uint32       { return R0NCount.Get(uint32(r)) }
func (r *Register0) SetFrac(v uint32)    { *r = Register0(R0Frac.Set(uint32(*r), v)) }
func (r *Register0) SetNCount(v uint32)  { *r = Register0(R0NCount.Set(uint32(*r), v)) }
func (r *Register0) SetControl(v uint32) { *r = Register0(Control.Set(uint32(*r), v)) }

type Register1 uint32

func (r Register1) Control() uint32      { return Control.Get(uint32(r)) }
func (r Register1) Mod() uint32          { return R1Mod.Get(uint32(r)) }
func (r Register1) Phase() uint32        { return R1Phase.Get(uint32(r)) }
func (r Register1) Prescaler() bool      { return R1Prescaler.Get(uint32(r)) != 0 }
func (r *Register1) SetMod(v uint32)     { *r = Register1(R1Mod.Set(uint32(*r), v)) }
func (r *Register1) SetPhase(v uint32)   { *r = Register1(R1Phase.Set(uint32(*r), v)) }
func (r *Register1) SetPrescaler(v bool) { *r = Register1(R1Prescaler.Set(uint32(*r), boolBit(v))) }
func (r *Register1) SetControl(v uint32) { *r = Register1(Control.Set(uint32(*r), v)) }

type Register2 uint32

func (r Register2) Control() uint32    { return Control.Get(uint32(r)) }
func (r Register2) CounterReset() bool { return R2CounterReset.Get(uint32(r)) != 0 }
func (r Register2) CPThreeState() bool { return R2CPThreeState.Get(uint32(r)) != 0 }
func (r Register2) PD() bool           { return R2PD.Get(uint32(r)) != 0 }
func (r Register2) PDPolarity() bool   { return R2PDPolarity.Get(uint32(r)) != 0 }
func (r Register2) LDP() bool          { return R2LDP.Get(uint32(r)) != 0 }
func (r Register2) LDF() bool          { return R2LDF.Get(uint32(r)) != 0 }
func (r Register2) ChargePump() uint32 { return R2ChargePump.Get(uint32(r)) }
func (r Register2) DoubleBuffer() bool { return R2DoubleBuffer.Get(uint32(r)) != 0 }
func (r Register2) R() uint32          { return R2R.Get(uint32(r)) }
func (r Register2) HalfR() bool        { return R2HalfR.Get(uint32(r)) != 0 }
func (r Register2) DoubleR() bool      { return R2DoubleR.Get(uint32(r)) != 0 }
func (r Register2) Muxout() uint32     { return R2Muxout.Get(uint32(r)) }
func (r Register2) LowSpur() uint32    { return R2LowSpur.Get(uint32(r)) }
func (r *Register2) SetR(v uint32)     { *r = Register2(R2R.Set(uint32(*r), v)) }
func (r *Register2) SetHalfR(v bool)   { *r = Register2(R2HalfR.Set(uint32(*r), boolBit(v))) }
func (r *Register2) SetDoubleR(v bool) { *r = Register2(R2DoubleR.Set(uint32(*r), boolBit(v))) }
func (r *Register2) SetChargePump(v uint32) {
	*r = Register2(R2ChargePump.Set(uint32(*r), v))
}
func (r *Register2) SetMuxout(v uint32)  { *r = Register2(R2Muxout.Set(uint32(*r), v)) }
func (r *Register2) SetControl(v uint32) { *r = Register2(Control.Set(uint32(*r), v)) }

// SetLowSpur writes both low spur bits; the chip treats the field as a two-bit mode.
func (r *Register2) SetLowSpur(on bool) {
	var raw uint32
	if on {
		raw = LowSpurOn
	}
	*r = Register2(R2LowSpur.Set(uint32(*r), raw))
}

type Register3 uint32

func (r Register3) Control() uint32       { return Control.Get(uint32(r)) }
func (r Register3) ClockDiv() uint32      { return R3ClockDiv.Get(uint32(r)) }
func (r Register3) ClockDivMode() uint32  { return R3ClockDivMode.Get(uint32(r)) }
func (r Register3) CSR() bool             { return R3CSR.Get(uint32(r)) != 0 }
func (r *Register3) SetClockDiv(v uint32) { *r = Register3(R3ClockDiv.Set(uint32(*r), v)) }
func (r *Register3) SetClockDivMode(v uint32) {
	*r = Register3(R3ClockDivMode.Set(uint32(*r), v))
}
func (r *Register3) SetCSR(v bool)       { *r = Register3(R3CSR.Set(uint32(*r), boolBit(v))) }
func (r *Register3) SetControl(v uint32) { *r = Register3(Control.Set(uint32(*r), v)) }

type Register4 uint32

func (r Register4) Control() uint32            { return Control.Get(uint32(r)) }
func (r Register4) OutputPower() uint32        { return R4OutputPower.Get(uint32(r)) }
func (r Register4) RFOutputEnable() bool       { return R4RFOutputEnable.Get(uint32(r)) != 0 }
func (r Register4) AuxOutputPower() uint32     { return R4AuxOutputPower.Get(uint32(r)) }
func (r Register4) AuxOutputEnable() bool      { return R4AuxOutputEnable.Get(uint32(r)) != 0 }
func (r Register4) AuxOutputSelect() bool      { return R4AuxOutputSelect.Get(uint32(r)) != 0 }
func (r Register4) MTLD() bool                 { return R4MTLD.Get(uint32(r)) != 0 }
func (r Register4) VCOPowerDown() bool         { return R4VCOPowerDown.Get(uint32(r)) != 0 }
func (r Register4) BandSelectClockDiv() uint32 { return R4BandSelectClockDiv.Get(uint32(r)) }
func (r Register4) DividerSelect() uint32      { return R4DividerSelect.Get(uint32(r)) }
func (r Register4) FeedbackSelect() bool       { return R4FeedbackSelect.Get(uint32(r)) != 0 }
func (r *Register4) SetOutputPower(v uint32)   { *r = Register4(R4OutputPower.Set(uint32(*r), v)) }
func (r *Register4) SetDividerSelect(v uint32) { *r = Register4(R4DividerSelect.Set(uint32(*r), v)) }
func (r *Register4) SetRFOutputEnable(v bool) {
	*r = Register4(R4RFOutputEnable.Set(uint32(*r), boolBit(v)))
}
func (r *Register4) SetControl(v uint32) { *r = Register4(Control.Set(uint32(*r), v)) }

type Register5 uint32

func (r Register5) Control() uint32        { return Control.Get(uint32(r)) }
func (r Register5) LDPinMode() uint32      { return R5LDPinMode.Get(uint32(r)) }
func (r *Register5) SetLDPinMode(v uint32) { *r = Register5(R5LDPinMode.Set(uint32(*r), v)) }
func (r *Register5) SetControl(v uint32)   { *r = Register5(Control.Set(uint32(*r), v)) }

// Registers is a snapshot of one channel's six configuration registers. It is a value type:
// copy it, mutate the copy, and send the copy back.
type Registers struct {
	R0 Register0
	R1 Register1
	R2 Register2
	R3 Register3
	R4 Register4
	R5 Register5
}

func (r Registers) Words() [RegisterCount]uint32 {
	return [RegisterCount]uint32{
		uint32(r.R0), uint32(r.R1), uint32(r.R2), uint32(r.R3), uint32(r.R4), uint32(r.R5),
	}
}

func (r Registers) MarshalBinary() ([]byte, error) {
	data := make([]byte, 0, RegisterBlockSize)
	for _, w := range r.Words() {
		data = PackU32(data, w)
	}
	return data, nil
}

func (r *Registers) UnmarshalBinary(data []byte) error {
	if len(data) != RegisterBlockSize {
		return fmt.Errorf("invalid register block length %d", len(data))
	}
	r.R0 = Register0(UnpackU32(data[0:]))
	r.R1 = Register1(UnpackU32(data[4:]))
	r.R2 = Register2(UnpackU32(data[8:]))
	r.R3 = Register3(UnpackU32(data[12:]))
	r.R4 = Register4(UnpackU32(data[16:]))
	r.R5 = Register5(UnpackU32(data[20:]))
	return nil
}

func (r Registers) String() string {
	w := r.Words()
	return fmt.Sprintf("%08x %08x %08x %08x %08x %08x", w[0], w[1], w[2], w[3], w[4], w[5])
}

var dividerCodes = map[uint32]uint32{1: 0, 2: 1, 4: 2, 8: 3, 16: 4}

// DividerCode maps an output divider (1, 2, 4, 8 or 16) to its divider_select code.
func DividerCode(dbf uint32) (uint32, bool) {
	code, ok := dividerCodes[dbf]
	return code, ok
}

// DividerFactor maps a divider_select code back to the output divider. Codes the chip does not
// define read as 1.
func DividerFactor(code uint32) uint32 {
	if code > 4 {
		return 1
	}
	return 1 << code
}
