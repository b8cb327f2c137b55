package power

import (
	"testing"

	"github.com/fernandosanchezjr/govalon/config"
)

type fakePin struct {
	output bool
	levels []bool
}

func (p *fakePin) Output() { p.output = true }
func (p *fakePin) High()   { p.levels = append(p.levels, true) }
func (p *fakePin) Low()    { p.levels = append(p.levels, false) }

func TestControl(t *testing.T) {
	for _, high := range []bool{true, false} {
		p := &fakePin{}
		closed := false
		c := newControl(p, config.PowerControl{Enabled: true, Pin: 17, High: high}, func() error {
			closed = true
			return nil
		})
		if !p.output {
			t.Fatal("pin not configured as output")
		}
		c.On()
		c.Cycle(0)
		if len(p.levels) != 3 || p.levels[0] != high || p.levels[1] == high || p.levels[2] != high {
			t.Fatalf("active high %t: unexpected levels %v", high, p.levels)
		}
		if err := c.Close(); err != nil || !closed {
			t.Fatal("close not forwarded")
		}
	}
}
