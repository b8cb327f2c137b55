package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fernandosanchezjr/govalon/devices/base"
	"github.com/fernandosanchezjr/govalon/devices/valon"
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	"github.com/fernandosanchezjr/govalon/governor"
	"github.com/fernandosanchezjr/govalon/utils"
	log "github.com/sirupsen/logrus"
)

// Synth is a synthesizer argument, A or B.
type Synth protocol.SynthID

func (s *Synth) Decode(ctx *kong.DecodeContext) error {
	var name string
	if err := ctx.Scan.PopValueInto("synth", &name); err != nil {
		return err
	}
	id, err := protocol.ParseSynthID(name)
	if err != nil {
		return err
	}
	*s = Synth(id)
	return nil
}

func (s Synth) ID() protocol.SynthID {
	return protocol.SynthID(s)
}

var cli struct {
	Config     string `help:"Config file, defaults to config.yaml in the home folder." type:"path"`
	HomeFolder string `help:"Folder holding the config file and logs." default:"~/.govalon"`
	LogLevel   string `help:"Log level, overrides the config file."`
	LogFile    bool   `help:"Also write logs to the home folder." default:"true" negatable:""`
	Transport  string `help:"Transport, overrides the config file."`
	Port       string `help:"Serial device or host:port, overrides the config file."`
	LogTraffic bool   `help:"Hex dump every frame at debug level."`

	Probe        ProbeCmd        `cmd:"" help:"List the attached FTDI bridges."`
	Status       StatusCmd       `cmd:"" help:"Show the state of both synthesizers."`
	Registers    RegistersCmd    `cmd:"" help:"Dump the six configuration registers."`
	GetFrequency GetFrequencyCmd `cmd:"" help:"Print the output frequency."`
	SetFrequency SetFrequencyCmd `cmd:"" help:"Set the output frequency in MHz."`
	SetRFLevel   SetRFLevelCmd   `cmd:"" name:"set-rf-level" help:"Set the output power to -4, -1, 2 or 5 dBm."`
	SetOptions   SetOptionsCmd   `cmd:"" help:"Set the reference path options."`
	SetReference SetReferenceCmd `cmd:"" help:"Set the reference frequency in Hz."`
	SetRefSelect SetRefSelectCmd `cmd:"" help:"Select the internal or external reference."`
	SetVCORange  SetVCORangeCmd  `cmd:"" name:"set-vco-range" help:"Set the VCO range in MHz."`
	SetLabel     SetLabelCmd     `cmd:"" help:"Set the channel label."`
	Flash        FlashCmd        `cmd:"" help:"Save the current settings to non-volatile memory."`
	Apply        ApplyCmd        `cmd:"" help:"Program the profile from the config file."`
	Sweep        SweepCmd        `cmd:"" help:"Step a synthesizer through a frequency range."`
	Serve        ServeCmd        `cmd:"" help:"Serve the HTTP API."`
	Monitor      MonitorCmd      `cmd:"" help:"Log phase lock transitions."`
}

type ProbeCmd struct{}

func (c *ProbeCmd) Run() error {
	devices, err := base.FindFTDIDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		log.Warnln("No FTDI devices found")
	}
	for _, dev := range devices {
		fmt.Printf("%04x:%04x %s %s serial=%s\n", dev.Vendor, dev.Product, dev.Manufacturer,
			dev.Description, dev.Serial)
	}
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(g *governor.Governor) error {
	st, err := g.Controller.Status()
	if err != nil {
		return err
	}
	fmt.Printf("reference %s (%s)\n", utils.Hertz(st.Reference), referenceSource(st.ExternalReference))
	for _, ch := range st.Channels {
		fmt.Printf("%s %-16q %s %+d dBm locked=%t vco=%d-%d MHz %s\n",
			ch.Synth, ch.Label, utils.MHz(ch.Frequency), ch.RFLevel, ch.Locked,
			ch.VCORange.Low, ch.VCORange.High, ch.Options)
	}
	return nil
}

func referenceSource(external bool) string {
	if external {
		return "external"
	}
	return "internal"
}

type RegistersCmd struct {
	Synth Synth `arg:"" help:"A or B."`
}

func (c *RegistersCmd) Run(g *governor.Governor) error {
	regs, err := g.Controller.Registers(c.Synth.ID())
	if err != nil {
		return err
	}
	for i, w := range regs.Words() {
		fmt.Printf("R%d %08x\n", i, w)
	}
	return nil
}

type GetFrequencyCmd struct {
	Synth Synth `arg:"" help:"A or B."`
}

func (c *GetFrequencyCmd) Run(g *governor.Governor) error {
	freq, err := g.Controller.Frequency(c.Synth.ID())
	if err != nil {
		return err
	}
	fmt.Println(utils.MHz(freq))
	return nil
}

type SetFrequencyCmd struct {
	Synth     Synth   `arg:"" help:"A or B."`
	Frequency float64 `arg:"" help:"Frequency in MHz."`
	Spacing   float64 `help:"Channel spacing in MHz." default:"10"`
}

func (c *SetFrequencyCmd) Run(g *governor.Governor) error {
	if err := g.Controller.SetFrequency(c.Synth.ID(), c.Frequency, c.Spacing); err != nil {
		return err
	}
	freq, err := g.Controller.Frequency(c.Synth.ID())
	if err != nil {
		return err
	}
	fmt.Println(utils.MHz(freq))
	return nil
}

type SetRFLevelCmd struct {
	Synth Synth `arg:"" help:"A or B."`
	Level int32 `required:"" help:"Output power in dBm, e.g. --level=-4."`
}

func (c *SetRFLevelCmd) Run(g *governor.Governor) error {
	return g.Controller.SetRFLevel(c.Synth.ID(), c.Level)
}

type SetOptionsCmd struct {
	Synth     Synth  `arg:"" help:"A or B."`
	DoubleRef bool   `help:"Double the reference."`
	HalfRef   bool   `help:"Halve the reference."`
	R         uint32 `help:"Reference divider." default:"1"`
	LowSpur   bool   `help:"Low spur mode instead of low noise."`
}

func (c *SetOptionsCmd) Run(g *governor.Governor) error {
	return g.Controller.SetOptions(c.Synth.ID(), valon.Options{
		DoubleRef: c.DoubleRef,
		HalfRef:   c.HalfRef,
		R:         c.R,
		LowSpur:   c.LowSpur,
	})
}

type SetReferenceCmd struct {
	Hertz uint32 `arg:"" help:"Reference frequency in Hz."`
}

func (c *SetReferenceCmd) Run(g *governor.Governor) error {
	return g.Controller.SetReference(c.Hertz)
}

type SetRefSelectCmd struct {
	Source string `arg:"" enum:"internal,external" help:"internal or external."`
}

func (c *SetRefSelectCmd) Run(g *governor.Governor) error {
	return g.Controller.SetRefSelect(c.Source == "external")
}

type SetVCORangeCmd struct {
	Synth Synth  `arg:"" help:"A or B."`
	Low   uint16 `arg:"" help:"Low end in MHz."`
	High  uint16 `arg:"" help:"High end in MHz."`
}

func (c *SetVCORangeCmd) Run(g *governor.Governor) error {
	return g.Controller.SetVCORange(c.Synth.ID(), protocol.VCORange{Low: c.Low, High: c.High})
}

type SetLabelCmd struct {
	Synth Synth  `arg:"" help:"A or B."`
	Label string `arg:"" help:"Up to 16 bytes."`
}

func (c *SetLabelCmd) Run(g *governor.Governor) error {
	return g.Controller.SetLabel(c.Synth.ID(), []byte(c.Label))
}

type FlashCmd struct{}

func (c *FlashCmd) Run(g *governor.Governor) error {
	return g.Controller.Flash()
}

type ApplyCmd struct {
	Flash bool `help:"Save the applied settings to non-volatile memory."`
}

func (c *ApplyCmd) Run(g *governor.Governor) error {
	if err := g.Apply(); err != nil {
		return err
	}
	if c.Flash {
		return g.Controller.Flash()
	}
	return nil
}

type SweepCmd struct {
	Synth   Synth         `arg:"" help:"A or B."`
	Start   float64       `arg:"" help:"First frequency in MHz."`
	Stop    float64       `arg:"" help:"Last frequency in MHz."`
	Points  int           `help:"Number of points." default:"11"`
	Spacing float64       `help:"Channel spacing in MHz." default:"10"`
	Dwell   time.Duration `help:"Time to wait at each point." default:"100ms"`
}

func (c *SweepCmd) Run(g *governor.Governor) error {
	ctx, cancel := utils.SignalContext(context.Background())
	defer cancel()
	plan := valon.SweepPlan{
		Start:   c.Start,
		Stop:    c.Stop,
		Points:  c.Points,
		Spacing: c.Spacing,
		Dwell:   c.Dwell,
	}
	_, err := g.Controller.Sweep(ctx, c.Synth.ID(), plan, func(p valon.SweepPoint) {
		fmt.Printf("%s locked=%t\n", utils.MHz(p.Frequency), p.Locked)
	})
	return err
}

type ServeCmd struct {
	Address string `help:"Listen address, overrides the config file."`
	Apply   bool   `help:"Program the configured profile before serving."`
	Watch   bool   `help:"Re-apply the profile when the config file changes." default:"true" negatable:""`
	Monitor bool   `help:"Also run the lock monitor." default:"true" negatable:""`
}

func (c *ServeCmd) Run(g *governor.Governor) error {
	if c.Address != "" {
		g.Config.Server.Address = c.Address
	}
	if c.Apply {
		if err := g.Apply(); err != nil {
			return err
		}
	}
	if c.Watch {
		if err := g.WatchConfig(); err != nil {
			return err
		}
	}
	if c.Monitor {
		if err := g.StartMonitor(); err != nil {
			return err
		}
	}
	g.StartServer()
	utils.Wait()
	return nil
}

type MonitorCmd struct {
	Schedule string `help:"Cron schedule, overrides the config file."`
}

func (c *MonitorCmd) Run(g *governor.Governor) error {
	if c.Schedule != "" {
		g.Config.Monitor.Schedule = c.Schedule
	}
	if err := g.StartMonitor(); err != nil {
		return err
	}
	log.Infoln("Press Ctrl+C to stop")
	utils.Wait()
	return nil
}
