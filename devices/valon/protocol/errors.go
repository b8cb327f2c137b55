package protocol

import (
	"errors"
	"fmt"
)

// ErrTimeout is wrapped by a TransportError when the device returned fewer bytes than requested
// before the read timeout expired.
var ErrTimeout = errors.New("read timeout")

// TransportError is an I/O failure or timeout on the underlying byte stream.
type TransportError struct {
	Op      string
	Address byte
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s 0x%02x: %v", e.Op, e.Address, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ChecksumError is returned when a read response does not match its trailing checksum. The
// payload is discarded.
type ChecksumError struct {
	Address  byte
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch reading 0x%02x: expected 0x%02x, got 0x%02x",
		e.Address, e.Expected, e.Actual)
}

// ProtocolError is returned when a write is answered with anything other than ACK.
type ProtocolError struct {
	Address  byte
	Response byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("write 0x%02x rejected: %s (0x%02x)", e.Address, responseName(e.Response), e.Response)
}

// InvalidArgumentError is detected before any bytes are sent.
type InvalidArgumentError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

func IsChecksumError(err error) bool {
	var target *ChecksumError
	return errors.As(err, &target)
}

func IsProtocolError(err error) bool {
	var target *ProtocolError
	return errors.As(err, &target)
}

func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

func responseName(b byte) string {
	switch b {
	case ACK:
		return "ACK"
	case NACK:
		return "NACK"
	default:
		return "unexpected response"
	}
}
