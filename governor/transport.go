package governor

import (
	"fmt"

	"github.com/fernandosanchezjr/govalon/config"
	"github.com/fernandosanchezjr/govalon/devices/base"
	"github.com/fernandosanchezjr/govalon/devices/valon/simulator"
)

// OpenTransport opens the byte stream named by the config.
func OpenTransport(cfg *config.Config) (base.Transport, error) {
	switch cfg.Transport {
	case config.TransportSerial:
		return base.OpenSerial(cfg.Settings())
	case config.TransportFTDI:
		return base.OpenFTDI(cfg.FTDISettings())
	case config.TransportTCP:
		return base.DialTCP(cfg.Settings())
	case config.TransportSimulator:
		return simulator.New(), nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}
