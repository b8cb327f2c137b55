package protocol

import (
	"fmt"
	"time"
)

// Port is the byte stream a command is exchanged over. ReadTimeout returns at most n bytes; a
// short result means the timeout expired.
type Port interface {
	Write(data []byte) (int, error)
	ReadTimeout(n int, timeout time.Duration) ([]byte, error)
}

// WriteWithAck sends address, payload and checksum, then expects a single ACK byte.
func WriteWithAck(port Port, req Request, timeout time.Duration) error {
	address := req.Address()
	payload, err := req.MarshalBinary()
	if err != nil {
		return err
	}
	frame := Frame(address, payload)
	if err := write(port, address, frame); err != nil {
		return err
	}
	reply, err := readExactly(port, address, 1, timeout)
	if err != nil {
		return err
	}
	if reply[0] != ACK {
		return &ProtocolError{Address: address, Response: reply[0]}
	}
	return nil
}

// ReadWithChecksum sends the address byte and decodes the response payload into resp once its
// trailing checksum has been verified.
func ReadWithChecksum(port Port, address byte, resp Response, timeout time.Duration) error {
	if err := write(port, address, []byte{address}); err != nil {
		return err
	}
	n := resp.Len()
	data, err := readExactly(port, address, n+1, timeout)
	if err != nil {
		return err
	}
	payload, checksum := data[:n], data[n]
	if !VerifyChecksum(payload, checksum) {
		return &ChecksumError{Address: address, Expected: Checksum(payload), Actual: checksum}
	}
	return resp.UnmarshalBinary(payload)
}

func write(port Port, address byte, frame []byte) error {
	written, err := port.Write(frame)
	if err != nil {
		return &TransportError{Op: "write", Address: address, Err: err}
	}
	if written != len(frame) {
		return &TransportError{Op: "write", Address: address,
			Err: fmt.Errorf("wrote %d of %d bytes", written, len(frame))}
	}
	return nil
}

func readExactly(port Port, address byte, n int, timeout time.Duration) ([]byte, error) {
	data, err := port.ReadTimeout(n, timeout)
	if err != nil {
		return nil, &TransportError{Op: "read", Address: address, Err: err}
	}
	if len(data) < n {
		return nil, &TransportError{Op: "read", Address: address,
			Err: fmt.Errorf("%w: got %d of %d bytes", ErrTimeout, len(data), n)}
	}
	return data[:n], nil
}
