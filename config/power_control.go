package config

import "time"

// PowerControl drives a GPIO pin that switches the synthesizer supply.
type PowerControl struct {
	Enabled bool          `yaml:"enabled,omitempty"`
	Pin     int           `yaml:"pin,omitempty"`
	High    bool          `yaml:"high,omitempty"`
	Settle  time.Duration `yaml:"settle,omitempty"`
}
