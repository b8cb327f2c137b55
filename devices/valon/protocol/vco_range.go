package protocol

import "fmt"

// VCORange is the VCO operating range of a channel in MHz.
type VCORange struct {
	Low  uint16 `yaml:"low" json:"low"`
	High uint16 `yaml:"high" json:"high"`
}

func (vr *VCORange) Len() int {
	return 4
}

func (vr VCORange) MarshalBinary() ([]byte, error) {
	data := make([]byte, 0, 4)
	data = PackU16(data, vr.Low)
	return PackU16(data, vr.High), nil
}

func (vr *VCORange) UnmarshalBinary(data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("invalid VCO range length %d", len(data))
	}
	vr.Low = UnpackU16(data[0:])
	vr.High = UnpackU16(data[2:])
	return nil
}

type SetVCORange struct {
	Synth SynthID
	Range VCORange
}

func (sv *SetVCORange) Address() byte {
	return AddrVCORange | byte(sv.Synth)
}

func (sv *SetVCORange) MarshalBinary() ([]byte, error) {
	return sv.Range.MarshalBinary()
}
