package protocol

import "fmt"

const (
	phaseLockMaskA  = 0x20
	phaseLockMaskB  = 0x10
	externalRefMask = 0x01
)

// Status is the shared status byte returned by the 0x86 family of reads.
type Status byte

func (s *Status) Len() int {
	return 1
}

func (s *Status) UnmarshalBinary(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("invalid status length %d", len(data))
	}
	*s = Status(data[0])
	return nil
}

func (s Status) PhaseLocked(id SynthID) bool {
	mask := byte(phaseLockMaskA)
	if id == SynthB {
		mask = phaseLockMaskB
	}
	return byte(s)&mask != 0
}

func (s Status) ExternalReference() bool {
	return byte(s)&externalRefMask != 0
}

type SetRefSelect struct {
	External bool
}

func (sr *SetRefSelect) Address() byte {
	return AddrStatus
}

func (sr *SetRefSelect) MarshalBinary() ([]byte, error) {
	if sr.External {
		return []byte{0x01}, nil
	}
	return []byte{0x00}, nil
}
