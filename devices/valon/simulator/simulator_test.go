package simulator

import (
	"testing"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

func TestSimulator_Reference(t *testing.T) {
	sim := New()
	if err := protocol.WriteWithAck(sim, &protocol.SetReference{Frequency: 20000000}, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	var ref protocol.Reference
	if err := protocol.ReadWithChecksum(sim, protocol.ReadReferenceAddress(), &ref, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if ref != 20000000 {
		t.Fatalf("invalid reference %d", ref)
	}
}

func TestSimulator_BadChecksumIsNacked(t *testing.T) {
	sim := New()
	if _, err := sim.Write([]byte{0x06, 0x01, 0x00}); err != nil {
		t.Fatal(err)
	}
	reply, _ := sim.ReadTimeout(1, time.Millisecond)
	if len(reply) != 1 || reply[0] != protocol.NACK {
		t.Fatalf("expected NACK, got %x", reply)
	}
	if sim.Writes() != 0 {
		t.Fatal("rejected frame was applied")
	}
}

func TestSimulator_FlashAndPowerCycle(t *testing.T) {
	sim := New()
	label := &protocol.SetLabel{Synth: protocol.SynthB, Label: protocol.NewLabel([]byte("LO2"))}
	if err := protocol.WriteWithAck(sim, label, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	sim.PowerCycle()
	var read protocol.Label
	if err := protocol.ReadWithChecksum(sim, protocol.ReadLabelAddress(protocol.SynthB), &read, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if read.String() != "SYNTH B" {
		t.Fatalf("unflashed label survived power cycle: %q", read.String())
	}
	if err := protocol.WriteWithAck(sim, label, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := protocol.WriteWithAck(sim, &protocol.Flash{}, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	sim.PowerCycle()
	if err := protocol.ReadWithChecksum(sim, protocol.ReadLabelAddress(protocol.SynthB), &read, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if read.String() != "LO2" {
		t.Fatalf("flashed label lost: %q", read.String())
	}
}

func TestSimulator_Faults(t *testing.T) {
	sim := New()
	var ref protocol.Reference
	sim.Inject(FaultCorruptChecksum, FaultTruncate, FaultDropResponse)
	if err := protocol.ReadWithChecksum(sim, protocol.ReadReferenceAddress(), &ref, time.Millisecond); !protocol.IsChecksumError(err) {
		t.Fatalf("expected checksum error, got %v", err)
	}
	if err := protocol.ReadWithChecksum(sim, protocol.ReadReferenceAddress(), &ref, time.Millisecond); !protocol.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if err := protocol.WriteWithAck(sim, &protocol.Flash{}, time.Millisecond); !protocol.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestSimulator_PhaseLock(t *testing.T) {
	sim := New()
	var status protocol.Status
	if err := protocol.ReadWithChecksum(sim, protocol.ReadPhaseLockAddress(protocol.SynthB), &status, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !status.PhaseLocked(protocol.SynthA) || !status.PhaseLocked(protocol.SynthB) {
		t.Fatalf("factory state must be locked, status %02x", byte(status))
	}
	sim.Unlock(protocol.SynthA, true)
	if err := protocol.ReadWithChecksum(sim, protocol.ReadRefSelectAddress(), &status, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if status.PhaseLocked(protocol.SynthA) || !status.PhaseLocked(protocol.SynthB) {
		t.Fatalf("invalid status %02x", byte(status))
	}
}
