package base

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// SerialTransport talks to the synthesizer through a tty, 8N1 without flow control.
type SerialTransport struct {
	port     *serial.Port
	settings Settings
	traffic  trafficLogger
}

func OpenSerial(settings Settings) (*SerialTransport, error) {
	settings = settings.withDefaults()
	port, err := serial.OpenPort(&serial.Config{
		Name:        settings.Port,
		Baud:        settings.BaudRate,
		ReadTimeout: pollInterval,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		_ = port.Close()
		return nil, err
	}
	log.WithFields(log.Fields{
		"port": settings.Port,
		"baud": settings.BaudRate,
	}).Debugln("Opened serial port")
	return &SerialTransport{
		port:     port,
		settings: settings,
		traffic:  trafficLogger{name: settings.Port, enabled: settings.LogTraffic},
	}, nil
}

func (st *SerialTransport) String() string {
	return st.settings.Port
}

func (st *SerialTransport) Write(data []byte) (int, error) {
	st.traffic.wrote(data)
	return st.port.Write(data)
}

func (st *SerialTransport) ReadTimeout(n int, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = st.settings.ReadTimeout
	}
	data, err := readUntil(st.port.Read, n, timeout)
	st.traffic.read(data)
	return data, err
}

func (st *SerialTransport) Close() error {
	return st.port.Close()
}
