package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportSerial, TransportTCP:
		if c.Port == "" {
			return fmt.Errorf("transport %s needs a port", c.Transport)
		}
	case TransportFTDI, TransportSimulator:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("invalid read timeout %s", c.ReadTimeout)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	if c.Power.Enabled && c.Power.Pin < 0 {
		return fmt.Errorf("invalid power pin %d", c.Power.Pin)
	}
	if c.Monitor.Schedule != "" {
		if _, err := cron.ParseStandard(c.Monitor.Schedule); err != nil {
			return fmt.Errorf("monitor schedule: %w", err)
		}
	}
	return c.Profile.Validate()
}
