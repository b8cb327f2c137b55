package valon

import (
	"math"
	"testing"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

func TestEPDF(t *testing.T) {
	tests := []struct {
		opts     Options
		expected float64
	}{
		{Options{}, 10},
		{Options{R: 1}, 10},
		{Options{DoubleRef: true}, 20},
		{Options{HalfRef: true}, 5},
		{Options{DoubleRef: true, HalfRef: true}, 10},
		{Options{DoubleRef: true, R: 4}, 5},
	}
	for _, test := range tests {
		if epdf := EPDF(10000000, test.opts); epdf != test.expected {
			t.Fatalf("%s: expected %v, got %v", test.opts, test.expected, epdf)
		}
	}
}

func TestComputeFrequencySetting(t *testing.T) {
	tests := []struct {
		mhz      float64
		spacing  float64
		vcoLow   uint16
		expected FrequencySetting
	}{
		{1000, 10, 2300, FrequencySetting{NCount: 400, Frac: 0, Mod: 1, DBF: 4}},
		// 1/0.4 = 2.5 rounds half up to 3
		{4001, 0.4, 2200, FrequencySetting{NCount: 400, Frac: 3, Mod: 25, DBF: 1}},
		// 9.9 rounds to a full modulus and carries into ncount
		{4009.9, 1, 2200, FrequencySetting{NCount: 401, Frac: 0, Mod: 1, DBF: 1}},
		{1001.25, 0.1, 2200, FrequencySetting{NCount: 400, Frac: 1, Mod: 2, DBF: 4}},
		// the divider stops at 16 even below the VCO range
		{100, 10, 2200, FrequencySetting{NCount: 160, Frac: 0, Mod: 1, DBF: 16}},
	}
	for _, test := range tests {
		fs, err := ComputeFrequencySetting(test.mhz, test.spacing, 10, test.vcoLow)
		if err != nil {
			t.Fatal(err)
		}
		if fs != test.expected {
			t.Fatalf("%v MHz: expected %+v, got %+v", test.mhz, test.expected, fs)
		}
	}
}

func TestComputeFrequencySetting_OutOfRange(t *testing.T) {
	if _, err := ComputeFrequencySetting(1e6, 10, 10, 2200); !protocol.IsInvalidArgument(err) {
		t.Fatalf("expected N counter overflow, got %v", err)
	}
	if _, err := ComputeFrequencySetting(1000.25025, 0.001, 10, 2200); !protocol.IsInvalidArgument(err) {
		t.Fatalf("expected modulus overflow, got %v", err)
	}
	// would wrap to 0 if converted before the range check
	if _, err := ComputeFrequencySetting(1e20, 10, 10, 2200); !protocol.IsInvalidArgument(err) {
		t.Fatalf("expected N counter overflow, got %v", err)
	}
	// epdf/spacing is 2^32, one past uint32
	if _, err := ComputeFrequencySetting(1000.5, 10/float64(1<<32), 10, 2200); !protocol.IsInvalidArgument(err) {
		t.Fatalf("expected modulus overflow, got %v", err)
	}
	if _, err := ComputeFrequencySetting(1000, 10, 0, 2200); !protocol.IsInvalidArgument(err) {
		t.Fatalf("expected missing reference, got %v", err)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		value    float64
		expected uint32
		ok       bool
	}{
		{2.5, 3, true},
		{2.49, 2, true},
		{math.MaxUint32 + 0.5, 0, false},
		{math.MaxUint32 - 0.5, math.MaxUint32, true},
		{math.MaxUint32 - 1, math.MaxUint32 - 1, true},
		{1e20, 0, false},
		{-1, 0, false},
	}
	for _, test := range tests {
		got, ok := round(test.value)
		if got != test.expected || ok != test.ok {
			t.Fatalf("round(%v): expected %d %t, got %d %t", test.value, test.expected, test.ok, got, ok)
		}
	}
}

func TestFrequencySetting_Frequency(t *testing.T) {
	if f := (FrequencySetting{NCount: 400, Frac: 1, Mod: 2, DBF: 4}).Frequency(10); f != 1001.25 {
		t.Fatalf("unexpected frequency %v", f)
	}
	if f := (FrequencySetting{NCount: 400, Frac: 1, Mod: 0, DBF: 0}).Frequency(10); f != 4000 {
		t.Fatalf("unexpected frequency with zero mod %v", f)
	}
}

func TestRFLevelCode(t *testing.T) {
	for code, level := range RFLevels {
		got, err := RFLevelCode(level)
		if err != nil {
			t.Fatal(err)
		}
		if got != uint32(code) || RFLevelFromCode(got) != level {
			t.Fatalf("level %d: unexpected code %d", level, got)
		}
	}
	for _, level := range []int32{-5, 0, 3, 6} {
		if _, err := RFLevelCode(level); !protocol.IsInvalidArgument(err) {
			t.Fatalf("level %d: expected invalid argument, got %v", level, err)
		}
	}
}
