package valon

import (
	"fmt"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	log "github.com/sirupsen/logrus"
)

// ChannelProfile is the desired state of one synthesizer. Zero or nil fields are left as they
// are on the device.
type ChannelProfile struct {
	Frequency float64            `yaml:"frequency" json:"frequency"`
	Spacing   float64            `yaml:"spacing" json:"spacing"`
	RFLevel   *int32             `yaml:"rfLevel" json:"rfLevel,omitempty"`
	Label     string             `yaml:"label" json:"label"`
	Options   *Options           `yaml:"options" json:"options,omitempty"`
	VCORange  *protocol.VCORange `yaml:"vcoRange" json:"vcoRange,omitempty"`
}

func (cp ChannelProfile) Validate() error {
	if cp.RFLevel != nil {
		if _, err := RFLevelCode(*cp.RFLevel); err != nil {
			return err
		}
	}
	if cp.Options != nil {
		if err := cp.Options.validate(); err != nil {
			return err
		}
	}
	if cp.VCORange != nil && cp.VCORange.Low > cp.VCORange.High {
		return &protocol.InvalidArgumentError{Name: "VCO range", Value: *cp.VCORange, Reason: "low exceeds high"}
	}
	if cp.Frequency < 0 {
		return &protocol.InvalidArgumentError{Name: "frequency", Value: cp.Frequency, Reason: "must be positive"}
	}
	if cp.Spacing < 0 {
		return &protocol.InvalidArgumentError{Name: "channel spacing", Value: cp.Spacing, Reason: "must be positive"}
	}
	return nil
}

// Profile is the desired state of the whole device, keyed by channel name (A or B).
type Profile struct {
	Reference         uint32                    `yaml:"reference" json:"reference"`
	ExternalReference *bool                     `yaml:"externalReference" json:"externalReference,omitempty"`
	Channels          map[string]ChannelProfile `yaml:"channels" json:"channels"`
}

func (p Profile) Validate() error {
	for name, cp := range p.Channels {
		if _, err := protocol.ParseSynthID(name); err != nil {
			return err
		}
		if err := cp.Validate(); err != nil {
			return fmt.Errorf("channel %s: %w", name, err)
		}
	}
	return nil
}

// ApplyChannel programs one synthesizer. The frequency goes last because its computation
// depends on the options and the VCO range.
func (c *Controller) ApplyChannel(id protocol.SynthID, cp ChannelProfile) error {
	if err := cp.Validate(); err != nil {
		return err
	}
	if cp.Options != nil {
		if err := c.SetOptions(id, *cp.Options); err != nil {
			return err
		}
	}
	if cp.VCORange != nil {
		if err := c.SetVCORange(id, *cp.VCORange); err != nil {
			return err
		}
	}
	if cp.RFLevel != nil {
		if err := c.SetRFLevel(id, *cp.RFLevel); err != nil {
			return err
		}
	}
	if cp.Label != "" {
		if err := c.SetLabel(id, []byte(cp.Label)); err != nil {
			return err
		}
	}
	if cp.Frequency > 0 {
		spacing := cp.Spacing
		if spacing == 0 {
			spacing = DefaultChannelSpacing
		}
		if err := c.SetFrequency(id, cp.Frequency, spacing); err != nil {
			return err
		}
	}
	return nil
}

// Apply programs the reference first, then each channel in A, B order.
func (c *Controller) Apply(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Reference != 0 {
		if err := c.SetReference(p.Reference); err != nil {
			return err
		}
	}
	if p.ExternalReference != nil {
		if err := c.SetRefSelect(*p.ExternalReference); err != nil {
			return err
		}
	}
	for _, id := range protocol.SynthIDs {
		cp, ok := p.channel(id)
		if !ok {
			continue
		}
		if err := c.ApplyChannel(id, cp); err != nil {
			return err
		}
	}
	log.WithField("port", c.name).Infoln("Profile applied")
	return nil
}

func (p Profile) channel(id protocol.SynthID) (ChannelProfile, bool) {
	for name, cp := range p.Channels {
		if parsed, err := protocol.ParseSynthID(name); err == nil && parsed == id {
			return cp, true
		}
	}
	return ChannelProfile{}, false
}
