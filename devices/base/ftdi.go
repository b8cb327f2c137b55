package base

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ziutek/ftdi"
)

// Valon boards ship with an FT232R bridge.
const (
	FTDIVendor  = 0x0403
	FTDIProduct = 0x6001
)

type FTDISettings struct {
	Settings
	Vendor  int
	Product int
	Serial  string
	Channel string
}

// FTDITransport drives the USB bridge directly through libftdi, bypassing the kernel tty.
type FTDITransport struct {
	device  *ftdi.Device
	name    string
	timeout time.Duration
	traffic trafficLogger
}

func ftdiChannel(name string) (ftdi.Channel, error) {
	switch strings.ToUpper(name) {
	case "", "ANY":
		return ftdi.ChannelAny, nil
	case "A":
		return ftdi.ChannelA, nil
	case "B":
		return ftdi.ChannelB, nil
	}
	return ftdi.ChannelAny, fmt.Errorf("unknown FTDI channel %q", name)
}

// OpenFTDI opens the configured bridge by serial number, or the only one present when no
// serial number is configured.
func OpenFTDI(settings FTDISettings) (*FTDITransport, error) {
	settings.Settings = settings.Settings.withDefaults()
	if settings.Vendor == 0 {
		settings.Vendor = FTDIVendor
	}
	if settings.Product == 0 {
		settings.Product = FTDIProduct
	}
	channel, err := ftdiChannel(settings.Channel)
	if err != nil {
		return nil, err
	}
	devices, err := ftdi.FindAll(settings.Vendor, settings.Product)
	if err != nil {
		return nil, err
	}
	var selected *ftdi.USBDev
	for _, dev := range devices {
		if selected == nil && (settings.Serial == "" || dev.Serial == settings.Serial) {
			selected = dev
			continue
		}
		dev.Close()
	}
	if selected == nil {
		return nil, fmt.Errorf("no FTDI device %04x:%04x with serial %q", settings.Vendor,
			settings.Product, settings.Serial)
	}
	device, err := ftdi.OpenUSBDev(selected, channel)
	if err != nil {
		selected.Close()
		return nil, err
	}
	ft := &FTDITransport{
		device:  device,
		name:    selected.Serial,
		timeout: settings.ReadTimeout,
		traffic: trafficLogger{name: selected.Serial, enabled: settings.LogTraffic},
	}
	if err := ft.configure(settings.BaudRate); err != nil {
		_ = device.Close()
		return nil, err
	}
	log.WithFields(log.Fields{
		"serial":      selected.Serial,
		"description": selected.Description,
		"baud":        settings.BaudRate,
	}).Debugln("Opened FTDI device")
	return ft, nil
}

func (ft *FTDITransport) configure(baudRate int) error {
	device := ft.device
	if err := device.Reset(); err != nil {
		return err
	}
	if err := device.SetLineProperties2(ftdi.DataBits8, ftdi.StopBits1, ftdi.ParityNone, ftdi.BreakOff); err != nil {
		return err
	}
	if err := device.SetBaudrate(baudRate); err != nil {
		return err
	}
	if err := device.SetFlowControl(ftdi.FlowCtrlDisable); err != nil {
		return err
	}
	if err := device.PurgeWriteBuffer(); err != nil {
		return err
	}
	if err := device.PurgeReadBuffer(); err != nil {
		return err
	}
	return device.SetLatencyTimer(2)
}

func (ft *FTDITransport) String() string {
	return ft.name
}

func (ft *FTDITransport) Write(data []byte) (int, error) {
	ft.traffic.wrote(data)
	return ft.device.Write(data)
}

func (ft *FTDITransport) ReadTimeout(n int, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = ft.timeout
	}
	data, err := readUntil(ft.device.Read, n, timeout)
	ft.traffic.read(data)
	return data, err
}

func (ft *FTDITransport) Close() error {
	return ft.device.Close()
}
