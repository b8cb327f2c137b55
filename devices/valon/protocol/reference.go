package protocol

import "fmt"

// Reference is the shared reference frequency in Hz.
type Reference uint32

func (r *Reference) Len() int {
	return 4
}

func (r Reference) MarshalBinary() ([]byte, error) {
	return PackU32(nil, uint32(r)), nil
}

func (r *Reference) UnmarshalBinary(data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("invalid reference length %d", len(data))
	}
	*r = Reference(UnpackU32(data))
	return nil
}

type SetReference struct {
	Frequency Reference
}

func (sr *SetReference) Address() byte {
	return AddrReference
}

func (sr *SetReference) MarshalBinary() ([]byte, error) {
	return sr.Frequency.MarshalBinary()
}
