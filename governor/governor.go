package governor

import (
	"context"
	"sync"
	"time"

	"github.com/fernandosanchezjr/govalon/config"
	"github.com/fernandosanchezjr/govalon/devices/base"
	"github.com/fernandosanchezjr/govalon/devices/valon"
	"github.com/fernandosanchezjr/govalon/monitor"
	"github.com/fernandosanchezjr/govalon/power"
	"github.com/fernandosanchezjr/govalon/server"
	"github.com/fernandosanchezjr/govalon/utils"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Governor owns the device and the long running services around it.
type Governor struct {
	Config     *config.Config
	ConfigPath string
	Controller *valon.Controller
	transport  base.Transport
	power      *power.Control
	monitor    *monitor.Monitor
	service    *server.Service
	watcher    *fsnotify.Watcher
	mtx        sync.Mutex
	wg         sync.WaitGroup
}

func NewGovernor(cfg *config.Config, configPath string) *Governor {
	return &Governor{Config: cfg, ConfigPath: configPath}
}

// Open powers the synthesizer if configured and opens the transport.
func (g *Governor) Open() error {
	if g.Config.Power.Enabled {
		pc, err := power.Open(g.Config.Power)
		if err != nil {
			return err
		}
		g.power = pc
		g.power.On()
	}
	transport, err := OpenTransport(g.Config)
	if err != nil {
		g.closePower()
		return err
	}
	g.transport = transport
	g.Controller = valon.NewController(transport, valon.WithTimeout(g.Config.ReadTimeout))
	log.WithFields(log.Fields{
		"transport": g.Config.Transport,
		"port":      transport.String(),
	}).Infoln("Synthesizer opened")
	return nil
}

// Apply programs the configured profile.
func (g *Governor) Apply() error {
	g.mtx.Lock()
	profile := g.Config.Profile
	g.mtx.Unlock()
	return g.Controller.Apply(profile)
}

// StartMonitor polls phase lock on the configured schedule.
func (g *Governor) StartMonitor() error {
	g.monitor = monitor.New(g.Controller, g.Config.Monitor.Schedule, nil)
	return g.monitor.Start()
}

// StartServer serves the HTTP API in the background.
func (g *Governor) StartServer() {
	g.service = server.NewService(g.Controller, g.Config.Server.Address)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := g.service.Start(); err != nil {
			log.WithError(err).Error("HTTP API stopped")
		}
	}()
}

// WatchConfig re-applies the profile whenever the config file changes.
func (g *Governor) WatchConfig() error {
	if g.ConfigPath == "" {
		return nil
	}
	watcher, err := utils.NewFileWatcher(g.ConfigPath, utils.DefaultWatchDebounce, g.reload)
	if err != nil {
		return err
	}
	g.watcher = watcher
	return nil
}

func (g *Governor) reload() {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		log.WithError(err).Warnln("Ignoring invalid config")
		return
	}
	g.mtx.Lock()
	g.Config.Profile = cfg.Profile
	g.mtx.Unlock()
	if err := g.Apply(); err != nil {
		log.WithError(err).Error("Error applying reloaded profile")
	}
}

func (g *Governor) closePower() {
	if g.power != nil {
		if err := g.power.Close(); err != nil {
			log.WithError(err).Warnln("Error releasing GPIO")
		}
		g.power = nil
	}
}

// Stop shuts the services down in reverse order and closes the transport.
func (g *Governor) Stop() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.service != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := g.service.Stop(ctx); err != nil {
			log.WithError(err).Warnln("Error stopping HTTP API")
		}
		cancel()
	}
	g.wg.Wait()
	if g.monitor != nil {
		g.monitor.Stop()
	}
	if g.transport != nil {
		if err := g.transport.Close(); err != nil {
			log.WithError(err).Warnln("Error closing transport")
		}
	}
	g.closePower()
}
