package protocol

import (
	"encoding/hex"
	"testing"
)

func TestField_SetPreservesOtherBits(t *testing.T) {
	reg := uint32(0xffffffff)
	reg = R0Frac.Set(reg, 0)
	if reg != 0xffff8007 {
		t.Fatalf("unexpected register %08x", reg)
	}
	reg = R0Frac.Set(reg, 0x1fff)
	if reg != 0xffffffff {
		t.Fatalf("value must be truncated to the field width, got %08x", reg)
	}
	if !R0NCount.Fits(0xffff) || R0NCount.Fits(0x10000) {
		t.Fatal("invalid Fits for 16 bit field")
	}
}

func TestRegister0(t *testing.T) {
	var r Register0 = 0x80000005
	r.SetNCount(400)
	r.SetFrac(7)
	if r.NCount() != 400 || r.Frac() != 7 || r.Control() != 5 {
		t.Fatalf("invalid fields %d %d %d", r.NCount(), r.Frac(), r.Control())
	}
	if uint32(r)&0x80000000 == 0 {
		t.Fatal("reserved bit 31 was cleared")
	}
	if uint32(r) != 0x80000005|400<<15|7<<3 {
		t.Fatalf("invalid packing %08x", uint32(r))
	}
}

func TestRegister2(t *testing.T) {
	var r Register2 = 0x80000002
	r.SetR(1023)
	r.SetDoubleR(true)
	r.SetHalfR(false)
	r.SetLowSpur(true)
	if r.R() != 1023 || !r.DoubleR() || r.HalfR() || r.LowSpur() != LowSpurOn {
		t.Fatalf("invalid fields %08x", uint32(r))
	}
	if uint32(r) != 0x80000002|1023<<14|1<<25|3<<29 {
		t.Fatalf("invalid packing %08x", uint32(r))
	}
	r.SetLowSpur(false)
	if r.LowSpur() != 0 || uint32(r)&0x80000002 != 0x80000002 {
		t.Fatalf("invalid low spur clear %08x", uint32(r))
	}
}

func TestRegister4(t *testing.T) {
	var r Register4
	r.SetOutputPower(3)
	r.SetDividerSelect(4)
	if r.OutputPower() != 3 || r.DividerSelect() != 4 {
		t.Fatalf("invalid fields %08x", uint32(r))
	}
	if uint32(r) != 3<<3|4<<20 {
		t.Fatalf("invalid packing %08x", uint32(r))
	}
}

func TestRegisters_Binary(t *testing.T) {
	data, err := hex.DecodeString("00c8000000080011000058c20000003300a0803c00580005")
	if err != nil {
		t.Fatal(err)
	}
	var regs Registers
	if err := regs.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if regs.R0.NCount() != 400 || regs.R0.Frac() != 0 {
		t.Fatalf("invalid register 0 %s", regs)
	}
	if regs.R1.Mod() != 2 {
		t.Fatalf("invalid register 1 %s", regs)
	}
	if regs.R4.DividerSelect() != 2 {
		t.Fatalf("invalid register 4 %s", regs)
	}
	out, _ := regs.MarshalBinary()
	if hex.EncodeToString(out) != hex.EncodeToString(data) {
		t.Fatalf("register block changed: %x", out)
	}
	if err := regs.UnmarshalBinary(data[:23]); err == nil {
		t.Fatal("short register block accepted")
	}
}

func TestDivider(t *testing.T) {
	for code, dbf := range []uint32{1, 2, 4, 8, 16} {
		if c, ok := DividerCode(dbf); !ok || c != uint32(code) {
			t.Fatalf("invalid code for %d", dbf)
		}
		if DividerFactor(uint32(code)) != dbf {
			t.Fatalf("invalid factor for %d", code)
		}
	}
	if _, ok := DividerCode(3); ok {
		t.Fatal("3 is not a valid divider")
	}
	if DividerFactor(7) != 1 {
		t.Fatal("undefined codes must read as 1")
	}
}
