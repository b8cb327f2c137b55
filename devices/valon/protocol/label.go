package protocol

import (
	"bytes"
	"fmt"
)

const LabelSize = 16

// Label is the raw 16-byte channel name. It is not necessarily NUL terminated.
type Label [LabelSize]byte

// NewLabel truncates or zero pads text to exactly LabelSize bytes.
func NewLabel(text []byte) Label {
	var l Label
	copy(l[:], text)
	return l
}

func (l Label) String() string {
	if idx := bytes.IndexByte(l[:], 0); idx >= 0 {
		return string(l[:idx])
	}
	return string(l[:])
}

func (l *Label) Len() int {
	return LabelSize
}

func (l Label) MarshalBinary() ([]byte, error) {
	return append([]byte{}, l[:]...), nil
}

func (l *Label) UnmarshalBinary(data []byte) error {
	if len(data) != LabelSize {
		return fmt.Errorf("invalid label length %d", len(data))
	}
	copy(l[:], data)
	return nil
}

type SetLabel struct {
	Synth SynthID
	Label Label
}

func (sl *SetLabel) Address() byte {
	return AddrLabel | byte(sl.Synth)
}

func (sl *SetLabel) MarshalBinary() ([]byte, error) {
	return sl.Label.MarshalBinary()
}
