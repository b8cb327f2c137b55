// Package power switches the synthesizer supply through a Raspberry Pi GPIO pin.
package power

import (
	"time"

	"github.com/fernandosanchezjr/govalon/config"
	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

type pin interface {
	Output()
	High()
	Low()
}

type Control struct {
	pin    pin
	number int
	high   bool
	settle time.Duration
	closer func() error
}

// Open maps the GPIO memory and configures the pin as an output. The supply is not switched.
func Open(cfg config.PowerControl) (*Control, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	p := rpio.Pin(cfg.Pin)
	return newControl(p, cfg, rpio.Close), nil
}

func newControl(p pin, cfg config.PowerControl, closer func() error) *Control {
	p.Output()
	return &Control{pin: p, number: cfg.Pin, high: cfg.High, settle: cfg.Settle, closer: closer}
}

// On powers the synthesizer and waits for it to settle before returning.
func (c *Control) On() {
	if c.high {
		c.pin.High()
	} else {
		c.pin.Low()
	}
	log.WithFields(log.Fields{"pin": c.number, "settle": c.settle}).Infoln("Synthesizer powered on")
	if c.settle > 0 {
		time.Sleep(c.settle)
	}
}

func (c *Control) Off() {
	if c.high {
		c.pin.Low()
	} else {
		c.pin.High()
	}
	log.WithField("pin", c.number).Infoln("Synthesizer powered off")
}

// Cycle turns the supply off and on again.
func (c *Control) Cycle(off time.Duration) {
	c.Off()
	time.Sleep(off)
	c.On()
}

func (c *Control) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
