package base

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaudRate    = 9600
	DefaultReadTimeout = 200 * time.Millisecond
	pollInterval       = 20 * time.Millisecond
)

// Transport is an ordered byte stream to the synthesizer. Implementations do not retry: a
// ReadTimeout that returns fewer than n bytes means the timeout expired.
type Transport interface {
	fmt.Stringer
	io.Closer
	Write(data []byte) (int, error)
	ReadTimeout(n int, timeout time.Duration) ([]byte, error)
}

// Settings holds the line configuration shared by every transport.
type Settings struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
	LogTraffic  bool
}

func (s Settings) withDefaults() Settings {
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	return s
}

// chunkReader reads whatever is available within a short poll interval, returning 0 bytes
// when nothing arrived.
type chunkReader func(buf []byte) (int, error)

// readUntil accumulates n bytes from read or gives up when timeout elapses.
func readUntil(read chunkReader, n int, timeout time.Duration) ([]byte, error) {
	data := make([]byte, 0, n)
	buf := make([]byte, n)
	deadline := time.Now().Add(timeout)
	for len(data) < n && time.Now().Before(deadline) {
		got, err := read(buf[:n-len(data)])
		data = append(data, buf[:got]...)
		if err != nil && err != io.EOF {
			return data, err
		}
		if got == 0 {
			time.Sleep(pollInterval)
		}
	}
	return data, nil
}

type trafficLogger struct {
	name    string
	enabled bool
}

func (tl trafficLogger) wrote(data []byte) {
	if tl.enabled {
		log.WithField("port", tl.name).Debugln("Writing:", hex.EncodeToString(data))
	}
}

func (tl trafficLogger) read(data []byte) {
	if tl.enabled {
		log.WithField("port", tl.name).Debugln("Read:", hex.EncodeToString(data))
	}
}
