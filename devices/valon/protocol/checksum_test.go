package protocol

import (
	"encoding/hex"
	"testing"
)

func TestChecksum(t *testing.T) {
	if Checksum(nil) != 0 {
		t.Fatal("empty checksum must be zero")
	}
	if Checksum([]byte{0xff, 0x02}) != 0x01 {
		t.Fatal("checksum must wrap modulo 256")
	}
	if Checksum([]byte{0x01}, []byte{0x02, 0x03}) != 0x06 {
		t.Fatal("checksum must span every chunk")
	}
}

func TestFrame(t *testing.T) {
	frame := Frame(0x01, []byte{0x00, 0x98, 0x96, 0x80})
	if hex.EncodeToString(frame) != "0100989680af" {
		t.Fatalf("invalid frame %x", frame)
	}
	if !VerifyChecksum(frame[:len(frame)-1], frame[len(frame)-1]) {
		t.Fatal("frame checksum does not verify")
	}
}

func TestVerifyChecksum_SingleBitFlip(t *testing.T) {
	payload, err := hex.DecodeString("0c8000000800fa01000059420000048b009c803c00580005")
	if err != nil {
		t.Fatal(err)
	}
	sum := Checksum(payload)
	for i := range payload {
		for bit := uint(0); bit < 8; bit++ {
			corrupted := append([]byte{}, payload...)
			corrupted[i] ^= 1 << bit
			if VerifyChecksum(corrupted, sum) {
				t.Fatalf("flip of byte %d bit %d not detected", i, bit)
			}
		}
	}
}
