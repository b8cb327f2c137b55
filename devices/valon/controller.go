// Package valon controls a Valon 5007 style dual synthesizer over its serial register
// protocol.
//
// Every operation re-reads the hardware immediately before acting on it; nothing is cached.
// Settings that live in the six configuration registers are changed with a read-modify-write
// of the whole block, so only the targeted fields change. The Controller serializes its
// operations, which keeps those sequences from interleaving on the wire.
package valon

import (
	"fmt"
	"sync"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	log "github.com/sirupsen/logrus"
)

// DefaultTimeout is how long a response may take to arrive.
const DefaultTimeout = 200 * time.Millisecond

type Option func(*Controller)

// WithTimeout sets the read timeout applied to every response.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

type Controller struct {
	port    protocol.Port
	name    string
	timeout time.Duration
	mtx     sync.Mutex
}

func NewController(port protocol.Port, opts ...Option) *Controller {
	c := &Controller{port: port, name: fmt.Sprint(port), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) String() string {
	return c.name
}

func (c *Controller) logger(id protocol.SynthID) *log.Entry {
	return log.WithFields(log.Fields{
		"port":  c.name,
		"synth": id.String(),
	})
}

func checkID(id protocol.SynthID) error {
	if !id.Valid() {
		return &protocol.InvalidArgumentError{Name: "synthesizer", Value: id, Reason: "must be A or B"}
	}
	return nil
}

func (c *Controller) read(address byte, resp protocol.Response) error {
	return protocol.ReadWithChecksum(c.port, address, resp, c.timeout)
}

func (c *Controller) write(req protocol.Request) error {
	return protocol.WriteWithAck(c.port, req, c.timeout)
}

func (c *Controller) readRegisters(id protocol.SynthID) (protocol.Registers, error) {
	var regs protocol.Registers
	err := c.read(protocol.ReadRegistersAddress(id), &regs)
	return regs, err
}

// modify takes a fresh register snapshot, lets mutate change the copy and writes the whole
// block back. Nothing is written if the read or mutate fails.
func (c *Controller) modify(id protocol.SynthID, mutate func(regs *protocol.Registers) error) error {
	regs, err := c.readRegisters(id)
	if err != nil {
		return err
	}
	if err := mutate(&regs); err != nil {
		return err
	}
	return c.write(&protocol.SetRegisters{Synth: id, Registers: regs})
}

// Registers returns the six configuration registers of a synthesizer.
func (c *Controller) Registers(id protocol.SynthID) (protocol.Registers, error) {
	if err := checkID(id); err != nil {
		return protocol.Registers{}, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	regs, err := c.readRegisters(id)
	if err != nil {
		return regs, fmt.Errorf("read registers %s: %w", id, err)
	}
	return regs, nil
}

// SetRegisters writes all six configuration registers verbatim.
func (c *Controller) SetRegisters(id protocol.SynthID, regs protocol.Registers) error {
	if err := checkID(id); err != nil {
		return err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.write(&protocol.SetRegisters{Synth: id, Registers: regs}); err != nil {
		return fmt.Errorf("write registers %s: %w", id, err)
	}
	c.logger(id).WithField("registers", regs.String()).Debugln("Registers written")
	return nil
}

func (c *Controller) reference() (uint32, error) {
	var ref protocol.Reference
	if err := c.read(protocol.ReadReferenceAddress(), &ref); err != nil {
		return 0, err
	}
	return uint32(ref), nil
}

func (c *Controller) epdf(id protocol.SynthID) (float64, error) {
	ref, err := c.reference()
	if err != nil {
		return 0, err
	}
	regs, err := c.readRegisters(id)
	if err != nil {
		return 0, err
	}
	return EPDF(ref, optionsFromRegisters(regs)), nil
}

// EPDF returns the effective phase detector frequency in MHz.
func (c *Controller) EPDF(id protocol.SynthID) (float64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	epdf, err := c.epdf(id)
	if err != nil {
		return 0, fmt.Errorf("read EPDF %s: %w", id, err)
	}
	return epdf, nil
}

func (c *Controller) frequency(id protocol.SynthID) (float64, error) {
	regs, err := c.readRegisters(id)
	if err != nil {
		return 0, err
	}
	ref, err := c.reference()
	if err != nil {
		return 0, err
	}
	return frequencySetting(regs).Frequency(EPDF(ref, optionsFromRegisters(regs))), nil
}

// Frequency returns the output frequency in MHz.
func (c *Controller) Frequency(id protocol.SynthID) (float64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	freq, err := c.frequency(id)
	if err != nil {
		return 0, fmt.Errorf("read frequency %s: %w", id, err)
	}
	return freq, nil
}

// FrequencySetting returns the raw PLL quantities currently programmed.
func (c *Controller) FrequencySetting(id protocol.SynthID) (FrequencySetting, error) {
	regs, err := c.Registers(id)
	if err != nil {
		return FrequencySetting{}, err
	}
	return frequencySetting(regs), nil
}

func (c *Controller) setFrequency(id protocol.SynthID, mhz, spacing float64) (FrequencySetting, error) {
	vco, err := c.vcoRange(id)
	if err != nil {
		return FrequencySetting{}, err
	}
	epdf, err := c.epdf(id)
	if err != nil {
		return FrequencySetting{}, err
	}
	fs, err := ComputeFrequencySetting(mhz, spacing, epdf, vco.Low)
	if err != nil {
		return fs, err
	}
	return fs, c.modify(id, func(regs *protocol.Registers) error {
		fs.apply(regs)
		return nil
	})
}

// SetFrequency programs the closest frequency to mhz that the channel spacing allows.
func (c *Controller) SetFrequency(id protocol.SynthID, mhz, spacing float64) error {
	if err := checkID(id); err != nil {
		return err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	fs, err := c.setFrequency(id, mhz, spacing)
	if err != nil {
		return fmt.Errorf("set frequency %s: %w", id, err)
	}
	c.logger(id).WithFields(log.Fields{
		"frequency": mhz,
		"ncount":    fs.NCount,
		"frac":      fs.Frac,
		"mod":       fs.Mod,
		"dbf":       fs.DBF,
	}).Infoln("Frequency set")
	return nil
}

// Reference returns the shared reference frequency in Hz.
func (c *Controller) Reference() (uint32, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	ref, err := c.reference()
	if err != nil {
		return 0, fmt.Errorf("read reference: %w", err)
	}
	return ref, nil
}

// SetReference tells the synthesizer the frequency of its reference in Hz. It does not change
// the reference itself, only the value the synthesizer computes with.
func (c *Controller) SetReference(hz uint32) error {
	if hz == 0 {
		return &protocol.InvalidArgumentError{Name: "reference", Value: hz, Reason: "must be positive"}
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.write(&protocol.SetReference{Frequency: protocol.Reference(hz)}); err != nil {
		return fmt.Errorf("set reference: %w", err)
	}
	log.WithFields(log.Fields{"port": c.name, "reference": hz}).Infoln("Reference set")
	return nil
}

// RFLevel returns the output power in dBm.
func (c *Controller) RFLevel(id protocol.SynthID) (int32, error) {
	regs, err := c.Registers(id)
	if err != nil {
		return 0, err
	}
	return RFLevelFromCode(regs.R4.OutputPower()), nil
}

// SetRFLevel sets the output power to one of -4, -1, 2 or 5 dBm.
func (c *Controller) SetRFLevel(id protocol.SynthID, dbm int32) error {
	if err := checkID(id); err != nil {
		return err
	}
	code, err := RFLevelCode(dbm)
	if err != nil {
		return err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	err = c.modify(id, func(regs *protocol.Registers) error {
		regs.R4.SetOutputPower(code)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set RF level %s: %w", id, err)
	}
	c.logger(id).WithField("level", dbm).Infoln("RF level set")
	return nil
}

func (c *Controller) Options(id protocol.SynthID) (Options, error) {
	regs, err := c.Registers(id)
	if err != nil {
		return Options{}, err
	}
	return optionsFromRegisters(regs), nil
}

func (c *Controller) SetOptions(id protocol.SynthID, opts Options) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	err := c.modify(id, func(regs *protocol.Registers) error {
		opts.apply(regs)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set options %s: %w", id, err)
	}
	c.logger(id).WithField("options", opts.String()).Infoln("Options set")
	return nil
}

func (c *Controller) status(address byte) (protocol.Status, error) {
	var status protocol.Status
	err := c.read(address, &status)
	return status, err
}

// RefSelect reports whether the external reference is selected.
func (c *Controller) RefSelect() (bool, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	status, err := c.status(protocol.ReadRefSelectAddress())
	if err != nil {
		return false, fmt.Errorf("read reference select: %w", err)
	}
	return status.ExternalReference(), nil
}

func (c *Controller) SetRefSelect(external bool) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.write(&protocol.SetRefSelect{External: external}); err != nil {
		return fmt.Errorf("set reference select: %w", err)
	}
	log.WithFields(log.Fields{"port": c.name, "external": external}).Infoln("Reference selected")
	return nil
}

func (c *Controller) vcoRange(id protocol.SynthID) (protocol.VCORange, error) {
	var vr protocol.VCORange
	err := c.read(protocol.ReadVCORangeAddress(id), &vr)
	return vr, err
}

// VCORange returns the VCO range in MHz used to pick the output divider.
func (c *Controller) VCORange(id protocol.SynthID) (protocol.VCORange, error) {
	if err := checkID(id); err != nil {
		return protocol.VCORange{}, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	vr, err := c.vcoRange(id)
	if err != nil {
		return vr, fmt.Errorf("read VCO range %s: %w", id, err)
	}
	return vr, nil
}

func (c *Controller) SetVCORange(id protocol.SynthID, vr protocol.VCORange) error {
	if err := checkID(id); err != nil {
		return err
	}
	if vr.Low > vr.High {
		return &protocol.InvalidArgumentError{Name: "VCO range", Value: vr, Reason: "low exceeds high"}
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.write(&protocol.SetVCORange{Synth: id, Range: vr}); err != nil {
		return fmt.Errorf("set VCO range %s: %w", id, err)
	}
	c.logger(id).WithFields(log.Fields{"low": vr.Low, "high": vr.High}).Infoln("VCO range set")
	return nil
}

// PhaseLock reports whether the synthesizer's PLL is locked.
func (c *Controller) PhaseLock(id protocol.SynthID) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	status, err := c.status(protocol.ReadPhaseLockAddress(id))
	if err != nil {
		return false, fmt.Errorf("read phase lock %s: %w", id, err)
	}
	return status.PhaseLocked(id), nil
}

func (c *Controller) Label(id protocol.SynthID) (protocol.Label, error) {
	var label protocol.Label
	if err := checkID(id); err != nil {
		return label, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.read(protocol.ReadLabelAddress(id), &label); err != nil {
		return label, fmt.Errorf("read label %s: %w", id, err)
	}
	return label, nil
}

// SetLabel stores text as the channel name, truncated or zero padded to 16 bytes.
func (c *Controller) SetLabel(id protocol.SynthID, text []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	label := protocol.NewLabel(text)
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.write(&protocol.SetLabel{Synth: id, Label: label}); err != nil {
		return fmt.Errorf("set label %s: %w", id, err)
	}
	c.logger(id).WithField("label", label.String()).Infoln("Label set")
	return nil
}

// Flash commits the current settings of both synthesizers to non-volatile memory.
func (c *Controller) Flash() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err := c.write(&protocol.Flash{}); err != nil {
		return fmt.Errorf("flash: %w", err)
	}
	log.WithField("port", c.name).Infoln("Settings flashed")
	return nil
}
