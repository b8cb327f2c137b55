// Package simulator emulates a dual-channel Valon synthesizer on the wire protocol level. It
// satisfies the same transport contract as a serial port and is used by the tests and by the
// "simulator" transport.
package simulator

import (
	"fmt"
	"sync"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	log "github.com/sirupsen/logrus"
)

// Fault is injected into the next exchange.
type Fault int

const (
	FaultNone Fault = iota
	// FaultNACK rejects the next write command.
	FaultNACK
	// FaultCorruptChecksum flips the checksum of the next read response.
	FaultCorruptChecksum
	// FaultDropResponse swallows the next reply entirely.
	FaultDropResponse
	// FaultTruncate delivers only half of the next reply.
	FaultTruncate
)

var writeLengths = map[byte]int{
	protocol.AddrRegisters: protocol.RegisterBlockSize,
	protocol.AddrReference: 4,
	protocol.AddrLabel:     protocol.LabelSize,
	protocol.AddrVCORange:  4,
	protocol.AddrStatus:    1,
	protocol.AddrFlash:     0,
}

type channel struct {
	registers protocol.Registers
	label     protocol.Label
	vco       protocol.VCORange
	unlocked  bool
}

type state struct {
	channels  [2]channel
	reference uint32
	external  bool
}

type Simulator struct {
	mtx     sync.Mutex
	current state
	flashed state
	input   []byte
	output  []byte
	faults  []Fault
	writes  int
	closed  bool
}

func DefaultRegisters() protocol.Registers {
	var regs protocol.Registers
	regs.R0.SetNCount(400)
	regs.R1.SetControl(1)
	regs.R1.SetMod(1)
	regs.R1.SetPrescaler(true)
	regs.R2.SetControl(2)
	regs.R2.SetR(1)
	regs.R2.SetChargePump(7)
	regs.R2.SetMuxout(6)
	regs.R3.SetControl(3)
	regs.R3.SetClockDiv(150)
	regs.R4.SetControl(4)
	regs.R4.SetOutputPower(3)
	regs.R4.SetRFOutputEnable(true)
	regs.R4.SetDividerSelect(2)
	regs.R5.SetControl(5)
	regs.R5.SetLDPinMode(1)
	return regs
}

// New returns a simulator in the factory state: 10 MHz reference, both channels at 1 GHz.
func New() *Simulator {
	s := &Simulator{}
	s.current.reference = 10000000
	for i := range s.current.channels {
		s.current.channels[i] = channel{
			registers: DefaultRegisters(),
			vco:       protocol.VCORange{Low: 2200, High: 4400},
			label:     protocol.NewLabel([]byte(fmt.Sprintf("SYNTH %c", 'A'+i))),
		}
	}
	s.flashed = s.current
	return s
}

func index(id protocol.SynthID) int {
	if id == protocol.SynthB {
		return 1
	}
	return 0
}

func (s *Simulator) String() string {
	return "simulator"
}

func (s *Simulator) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.closed = true
	return nil
}

// Inject queues a fault for the next exchanges, in order.
func (s *Simulator) Inject(faults ...Fault) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.faults = append(s.faults, faults...)
}

func (s *Simulator) nextFault() Fault {
	if len(s.faults) == 0 {
		return FaultNone
	}
	f := s.faults[0]
	s.faults = s.faults[1:]
	return f
}

func (s *Simulator) Write(data []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return 0, fmt.Errorf("simulator closed")
	}
	s.input = append(s.input, data...)
	for s.handle() {
	}
	return len(data), nil
}

// handle consumes one complete frame from the input buffer.
func (s *Simulator) handle() bool {
	if len(s.input) == 0 {
		return false
	}
	address := s.input[0]
	if address&0x80 != 0 {
		s.input = s.input[1:]
		s.respond(s.read(address), s.nextFault())
		return true
	}
	family := address &^ byte(protocol.SynthB)
	length, ok := writeLengths[family]
	if !ok {
		log.WithField("address", fmt.Sprintf("0x%02x", address)).Warnln("Simulator dropping unknown command")
		s.input = nil
		s.reply(protocol.NACK, s.nextFault())
		return false
	}
	if len(s.input) < length+2 {
		return false
	}
	frame := s.input[:length+1]
	checksum := s.input[length+1]
	s.input = s.input[length+2:]
	fault := s.nextFault()
	if fault == FaultNACK || !protocol.VerifyChecksum(frame, checksum) {
		s.reply(protocol.NACK, fault)
		return true
	}
	s.apply(address, family, frame[1:])
	s.writes++
	s.reply(protocol.ACK, fault)
	return true
}

func (s *Simulator) read(address byte) []byte {
	id := protocol.SynthID(address & byte(protocol.SynthB))
	ch := &s.current.channels[index(id)]
	switch address &^ 0x80 &^ byte(protocol.SynthB) {
	case protocol.AddrRegisters:
		data, _ := ch.registers.MarshalBinary()
		return data
	case protocol.AddrLabel:
		data, _ := ch.label.MarshalBinary()
		return data
	case protocol.AddrVCORange:
		data, _ := ch.vco.MarshalBinary()
		return data
	case protocol.AddrReference:
		return protocol.PackU32(nil, s.current.reference)
	case protocol.AddrStatus:
		return []byte{s.status()}
	}
	return nil
}

func (s *Simulator) respond(payload []byte, fault Fault) {
	if payload == nil {
		return
	}
	checksum := protocol.Checksum(payload)
	switch fault {
	case FaultCorruptChecksum:
		checksum ^= 0xff
	case FaultDropResponse:
		return
	case FaultTruncate:
		s.output = append(s.output, payload[:len(payload)/2]...)
		return
	}
	s.output = append(s.output, payload...)
	s.output = append(s.output, checksum)
}

func (s *Simulator) reply(response byte, fault Fault) {
	switch fault {
	case FaultDropResponse, FaultTruncate:
		return
	}
	s.output = append(s.output, response)
}

func (s *Simulator) apply(address, family byte, payload []byte) {
	id := protocol.SynthID(address & byte(protocol.SynthB))
	ch := &s.current.channels[index(id)]
	switch family {
	case protocol.AddrRegisters:
		_ = ch.registers.UnmarshalBinary(payload)
	case protocol.AddrLabel:
		_ = ch.label.UnmarshalBinary(payload)
	case protocol.AddrVCORange:
		_ = ch.vco.UnmarshalBinary(payload)
	case protocol.AddrReference:
		s.current.reference = protocol.UnpackU32(payload)
	case protocol.AddrStatus:
		s.current.external = payload[0]&0x01 != 0
	case protocol.AddrFlash:
		s.flashed = s.current
	}
}

func (s *Simulator) status() byte {
	var status byte
	if s.locked(protocol.SynthA) {
		status |= 0x20
	}
	if s.locked(protocol.SynthB) {
		status |= 0x10
	}
	if s.current.external {
		status |= 0x01
	}
	return status
}

// locked reports phase lock when the programmed VCO frequency falls inside the channel's VCO
// range.
func (s *Simulator) locked(id protocol.SynthID) bool {
	ch := s.current.channels[index(id)]
	if ch.unlocked {
		return false
	}
	regs := ch.registers
	epdf := float64(s.current.reference) / 1e6
	if regs.R2.DoubleR() {
		epdf *= 2
	}
	if regs.R2.HalfR() {
		epdf /= 2
	}
	if r := regs.R2.R(); r > 1 {
		epdf /= float64(r)
	}
	mod := regs.R1.Mod()
	if mod == 0 {
		mod = 1
	}
	vco := (float64(regs.R0.NCount()) + float64(regs.R0.Frac())/float64(mod)) * epdf
	return vco >= float64(ch.vco.Low) && vco <= float64(ch.vco.High)
}

func (s *Simulator) ReadTimeout(n int, timeout time.Duration) ([]byte, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return nil, fmt.Errorf("simulator closed")
	}
	if n > len(s.output) {
		n = len(s.output)
	}
	data := append([]byte{}, s.output[:n]...)
	s.output = s.output[n:]
	return data, nil
}

// Registers returns the channel's registers as currently programmed.
func (s *Simulator) Registers(id protocol.SynthID) protocol.Registers {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.current.channels[index(id)].registers
}

func (s *Simulator) LoadRegisters(id protocol.SynthID, regs protocol.Registers) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.current.channels[index(id)].registers = regs
}

// Unlock forces the channel to report no phase lock regardless of its programming.
func (s *Simulator) Unlock(id protocol.SynthID, unlocked bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.current.channels[index(id)].unlocked = unlocked
}

// Writes counts the accepted write commands.
func (s *Simulator) Writes() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.writes
}

// PowerCycle restores the settings last committed with the flash command.
func (s *Simulator) PowerCycle() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.current = s.flashed
	s.input = nil
	s.output = nil
}
