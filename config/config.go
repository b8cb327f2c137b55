package config

import (
	"time"

	"github.com/fernandosanchezjr/govalon/devices/base"
	"github.com/fernandosanchezjr/govalon/devices/valon"
)

const (
	TransportSerial    = "serial"
	TransportFTDI      = "ftdi"
	TransportTCP       = "tcp"
	TransportSimulator = "simulator"
)

type Config struct {
	Transport     string        `yaml:"transport"`
	Port          string        `yaml:"port,omitempty"`
	Baud          int           `yaml:"baud,omitempty"`
	ReadTimeout   time.Duration `yaml:"readTimeout,omitempty"`
	LogTraffic    bool          `yaml:"logTraffic,omitempty"`
	LogLevel      string        `yaml:"logLevel,omitempty"`
	FTDI          FTDI          `yaml:"ftdi,omitempty"`
	Power         PowerControl  `yaml:"power,omitempty"`
	Monitor       Monitor       `yaml:"monitor,omitempty"`
	Server        Server        `yaml:"server,omitempty"`
	valon.Profile `yaml:",inline"`
}

type FTDI struct {
	Vendor  int    `yaml:"vendor,omitempty"`
	Product int    `yaml:"product,omitempty"`
	Serial  string `yaml:"serial,omitempty"`
	Channel string `yaml:"channel,omitempty"`
}

type Monitor struct {
	Schedule string `yaml:"schedule,omitempty"`
}

type Server struct {
	Address string `yaml:"address,omitempty"`
}

// Default is used when no config file exists.
func Default() *Config {
	return &Config{
		Transport:   TransportSerial,
		Port:        "/dev/ttyUSB0",
		Baud:        base.DefaultBaudRate,
		ReadTimeout: base.DefaultReadTimeout,
		LogLevel:    "info",
		FTDI: FTDI{
			Vendor:  base.FTDIVendor,
			Product: base.FTDIProduct,
		},
		Monitor: Monitor{Schedule: "@every 10s"},
		Server:  Server{Address: "127.0.0.1:8090"},
	}
}

// Settings returns the line settings for the configured transport.
func (c *Config) Settings() base.Settings {
	return base.Settings{
		Port:        c.Port,
		BaudRate:    c.Baud,
		ReadTimeout: c.ReadTimeout,
		LogTraffic:  c.LogTraffic,
	}
}

func (c *Config) FTDISettings() base.FTDISettings {
	return base.FTDISettings{
		Settings: c.Settings(),
		Vendor:   c.FTDI.Vendor,
		Product:  c.FTDI.Product,
		Serial:   c.FTDI.Serial,
		Channel:  c.FTDI.Channel,
	}
}
