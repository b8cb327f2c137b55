package config

import (
	"io/ioutil"
	"path"
	"testing"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon"
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

const testConfig = `
transport: ftdi
baud: 115200
readTimeout: 300ms
logLevel: debug
ftdi: {vendor: 0x0403, product: 0x6015, serial: A12345, channel: A}
power: {enabled: true, pin: 17, high: true, settle: 500ms}
monitor: {schedule: "@every 30s"}
channels:
  A: {frequency: 1000.0, spacing: 10.0, rfLevel: 5, label: LO1,
      options: {doubleRef: false, halfRef: false, r: 1, lowSpur: true},
      vcoRange: {low: 2200, high: 4400}}
  B: {frequency: 2500.5, spacing: 0.1}
reference: 10000000
externalReference: true
`

func writeConfig(t *testing.T, data string) string {
	configPath := path.Join(t.TempDir(), FileName)
	if err := ioutil.WriteFile(configPath, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	if c.Transport != TransportFTDI || c.Baud != 115200 || c.ReadTimeout != 300*time.Millisecond {
		t.Fatalf("unexpected line settings %+v", c)
	}
	if c.FTDI.Product != 0x6015 || c.FTDI.Serial != "A12345" {
		t.Fatalf("unexpected ftdi settings %+v", c.FTDI)
	}
	if !c.Power.Enabled || c.Power.Pin != 17 || c.Power.Settle != 500*time.Millisecond {
		t.Fatalf("unexpected power settings %+v", c.Power)
	}
	if c.Server.Address != Default().Server.Address {
		t.Fatalf("expected default server address, got %q", c.Server.Address)
	}
	if c.Reference != 10000000 || c.ExternalReference == nil || !*c.ExternalReference {
		t.Fatalf("unexpected reference settings %+v", c.Profile)
	}
	a := c.Channels["A"]
	if a.Frequency != 1000 || a.RFLevel == nil || *a.RFLevel != 5 || a.Label != "LO1" {
		t.Fatalf("unexpected channel A %+v", a)
	}
	if a.Options == nil || !a.Options.LowSpur || a.VCORange == nil || a.VCORange.High != 4400 {
		t.Fatalf("unexpected channel A options %+v", a)
	}
	b := c.Channels["B"]
	if b.Frequency != 2500.5 || b.Options != nil || b.RFLevel != nil {
		t.Fatalf("unexpected channel B %+v", b)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	c, err := LoadConfig(path.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatal(err)
	}
	if c.Transport != TransportSerial || c.Baud != 9600 || c.ReadTimeout != 200*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"transport": "transport: carrier-pigeon\n",
		"baud":      "baud: 0\n",
		"level":     "logLevel: loud\n",
		"schedule":  "monitor: {schedule: \"every now and then\"}\n",
		"rfLevel":   "channels: {A: {rfLevel: 3}}\n",
		"channel":   "channels: {C: {frequency: 100}}\n",
		"unknown":   "pools: []\n",
	}
	for name, data := range tests {
		if _, err := LoadConfig(writeConfig(t, data)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestSaveConfig(t *testing.T) {
	c := Default()
	level := int32(-1)
	c.Transport = TransportSimulator
	c.Channels = map[string]valon.ChannelProfile{
		"B": {Frequency: 1500, RFLevel: &level, VCORange: &protocol.VCORange{Low: 2200, High: 4400}},
	}
	configPath := path.Join(t.TempDir(), "nested", FileName)
	if err := SaveConfig(configPath, c); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Transport != TransportSimulator || loaded.ReadTimeout != c.ReadTimeout {
		t.Fatalf("unexpected reloaded config %+v", loaded)
	}
	b := loaded.Channels["B"]
	if b.Frequency != 1500 || *b.RFLevel != -1 || b.VCORange.Low != 2200 {
		t.Fatalf("unexpected reloaded channel %+v", b)
	}
}
