package base

import (
	"net"
	"time"

	log "github.com/sirupsen/logrus"
)

// TCPTransport reaches the synthesizer through a serial-to-Ethernet bridge in raw mode.
type TCPTransport struct {
	conn    net.Conn
	address string
	timeout time.Duration
	traffic trafficLogger
}

func DialTCP(settings Settings) (*TCPTransport, error) {
	settings = settings.withDefaults()
	conn, err := net.DialTimeout("tcp", settings.Port, 5*time.Second)
	if err != nil {
		return nil, err
	}
	log.WithField("address", settings.Port).Debugln("Connected to serial bridge")
	return &TCPTransport{
		conn:    conn,
		address: settings.Port,
		timeout: settings.ReadTimeout,
		traffic: trafficLogger{name: settings.Port, enabled: settings.LogTraffic},
	}, nil
}

func (tt *TCPTransport) String() string {
	return tt.address
}

func (tt *TCPTransport) Write(data []byte) (int, error) {
	tt.traffic.wrote(data)
	return tt.conn.Write(data)
}

func (tt *TCPTransport) ReadTimeout(n int, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = tt.timeout
	}
	if err := tt.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	data := make([]byte, n)
	read := 0
	for read < n {
		got, err := tt.conn.Read(data[read:])
		read += got
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				break
			}
			tt.traffic.read(data[:read])
			return data[:read], err
		}
	}
	tt.traffic.read(data[:read])
	return data[:read], nil
}

func (tt *TCPTransport) Close() error {
	return tt.conn.Close()
}
