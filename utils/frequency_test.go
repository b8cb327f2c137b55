package utils

import "testing"

func TestHertz_String(t *testing.T) {
	tests := []struct {
		value    Hertz
		expected string
	}{
		{MHz(2500), "2.5 GHz"},
		{MHz(1001.25), "1.00125 GHz"},
		{Hertz(10000000), "10 MHz"},
		{Hertz(50), "50 Hz"},
	}
	for _, test := range tests {
		if got := test.value.String(); got != test.expected {
			t.Fatalf("expected %q, got %q", test.expected, got)
		}
	}
}
