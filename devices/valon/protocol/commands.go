package protocol

import (
	"encoding"
	"fmt"
	"strings"
)

const (
	ACK  = 0x06
	NACK = 0x15
)

// SynthID selects one of the two synthesizers. It is OR-ed into command addresses.
type SynthID byte

const (
	SynthA SynthID = 0x00
	SynthB SynthID = 0x08
)

var SynthIDs = []SynthID{SynthA, SynthB}

func (id SynthID) String() string {
	switch id {
	case SynthA:
		return "A"
	case SynthB:
		return "B"
	default:
		return fmt.Sprintf("0x%02x", byte(id))
	}
}

func ParseSynthID(name string) (SynthID, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A", "1":
		return SynthA, nil
	case "B", "2":
		return SynthB, nil
	}
	return 0, &InvalidArgumentError{Name: "synthesizer", Value: name, Reason: "must be A or B"}
}

func (id SynthID) Valid() bool {
	return id == SynthA || id == SynthB
}

// Command addresses. Per-channel commands get the SynthID OR-ed in; the read flag is 0x80.
const (
	readFlag = 0x80

	AddrRegisters = 0x00
	AddrReference = 0x01
	AddrLabel     = 0x02
	AddrVCORange  = 0x03
	AddrStatus    = 0x06
	AddrFlash     = 0x40
)

func ReadRegistersAddress(id SynthID) byte { return readFlag | AddrRegisters | byte(id) }
func ReadLabelAddress(id SynthID) byte     { return readFlag | AddrLabel | byte(id) }
func ReadVCORangeAddress(id SynthID) byte  { return readFlag | AddrVCORange | byte(id) }
func ReadPhaseLockAddress(id SynthID) byte { return readFlag | AddrStatus | byte(id) }
func ReadReferenceAddress() byte           { return readFlag | AddrReference }
func ReadRefSelectAddress() byte           { return readFlag | AddrStatus }

// Request is a write command: an address followed by a fixed-width payload.
type Request interface {
	Address() byte
	encoding.BinaryMarshaler
}

// Response is the fixed-width payload of a read command.
type Response interface {
	Len() int
	encoding.BinaryUnmarshaler
}

func (r *Registers) Len() int {
	return RegisterBlockSize
}

type SetRegisters struct {
	Synth     SynthID
	Registers Registers
}

func (sr *SetRegisters) Address() byte {
	return AddrRegisters | byte(sr.Synth)
}

func (sr *SetRegisters) MarshalBinary() ([]byte, error) {
	return sr.Registers.MarshalBinary()
}

type Flash struct{}

func (f *Flash) Address() byte {
	return AddrFlash
}

func (f *Flash) MarshalBinary() ([]byte, error) {
	return nil, nil
}
