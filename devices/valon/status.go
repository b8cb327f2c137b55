package valon

import (
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

type ChannelStatus struct {
	Synth     string            `json:"synth"`
	Frequency float64           `json:"frequency"`
	RFLevel   int32             `json:"rfLevel"`
	Options   Options           `json:"options"`
	VCORange  protocol.VCORange `json:"vcoRange"`
	Label     string            `json:"label"`
	Locked    bool              `json:"locked"`
}

type Status struct {
	Reference         uint32          `json:"reference"`
	ExternalReference bool            `json:"externalReference"`
	Channels          []ChannelStatus `json:"channels"`
}

// ChannelStatus reads every setting of one synthesizer under a single lock, so the snapshot
// is not interleaved with other operations.
func (c *Controller) ChannelStatus(id protocol.SynthID) (ChannelStatus, error) {
	cs := ChannelStatus{Synth: id.String()}
	if err := checkID(id); err != nil {
		return cs, err
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	regs, err := c.readRegisters(id)
	if err != nil {
		return cs, err
	}
	ref, err := c.reference()
	if err != nil {
		return cs, err
	}
	if cs.VCORange, err = c.vcoRange(id); err != nil {
		return cs, err
	}
	var label protocol.Label
	if err := c.read(protocol.ReadLabelAddress(id), &label); err != nil {
		return cs, err
	}
	status, err := c.status(protocol.ReadPhaseLockAddress(id))
	if err != nil {
		return cs, err
	}
	cs.Options = optionsFromRegisters(regs)
	cs.Frequency = frequencySetting(regs).Frequency(EPDF(ref, cs.Options))
	cs.RFLevel = RFLevelFromCode(regs.R4.OutputPower())
	cs.Label = label.String()
	cs.Locked = status.PhaseLocked(id)
	return cs, nil
}

func (c *Controller) Status() (Status, error) {
	var st Status
	var err error
	if st.Reference, err = c.Reference(); err != nil {
		return st, err
	}
	if st.ExternalReference, err = c.RefSelect(); err != nil {
		return st, err
	}
	for _, id := range protocol.SynthIDs {
		cs, err := c.ChannelStatus(id)
		if err != nil {
			return st, err
		}
		st.Channels = append(st.Channels, cs)
	}
	return st, nil
}
