package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fernandosanchezjr/govalon/devices/valon"
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	"github.com/fernandosanchezjr/govalon/devices/valon/simulator"
)

func newTestServer(t *testing.T) (*httptest.Server, *simulator.Simulator) {
	sim := simulator.New()
	service := NewService(valon.NewController(sim), "")
	ts := httptest.NewServer(service.Router())
	t.Cleanup(ts.Close)
	return ts, sim
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, out interface{}) int {
	request, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	response, err := ts.Client().Do(request)
	if err != nil {
		t.Fatal(err)
	}
	defer response.Body.Close()
	if out != nil && response.StatusCode < 300 {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return response.StatusCode
}

func TestService_Synth(t *testing.T) {
	ts, _ := newTestServer(t)
	var status valon.ChannelStatus
	if code := do(t, ts, http.MethodGet, "/synth/B", "", &status); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if status.Synth != "B" || status.Frequency != 1000 || status.Label != "SYNTH B" || !status.Locked {
		t.Fatalf("unexpected status %+v", status)
	}
	if code := do(t, ts, http.MethodGet, "/synth/C", "", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestService_PutFrequency(t *testing.T) {
	ts, sim := newTestServer(t)
	var status valon.ChannelStatus
	code := do(t, ts, http.MethodPut, "/synth/A/frequency", `{"frequency": 1001.25, "spacing": 0.1}`, &status)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if status.Frequency != 1001.25 {
		t.Fatalf("unexpected frequency %v", status.Frequency)
	}
	if regs := sim.Registers(protocol.SynthA); regs.R1.Mod() != 2 || regs.R0.Frac() != 1 {
		t.Fatalf("unexpected registers %s", regs)
	}
	if code := do(t, ts, http.MethodPut, "/synth/A/frequency", `{"frequency": -1}`, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if code := do(t, ts, http.MethodPut, "/synth/A/frequency", `{"freq": 1}`, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 on unknown field, got %d", code)
	}
}

func TestService_PutRFLevelAndLabel(t *testing.T) {
	ts, sim := newTestServer(t)
	var status valon.ChannelStatus
	if code := do(t, ts, http.MethodPut, "/synth/B/rflevel", `{"level": -4}`, &status); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if status.RFLevel != -4 {
		t.Fatalf("unexpected level %d", status.RFLevel)
	}
	writes := sim.Writes()
	if code := do(t, ts, http.MethodPut, "/synth/B/rflevel", `{"level": 3}`, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if sim.Writes() != writes {
		t.Fatal("invalid level reached the device")
	}
	if code := do(t, ts, http.MethodPut, "/synth/B/label", `{"label": "LO2"}`, &status); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if status.Label != "LO2" {
		t.Fatalf("unexpected label %q", status.Label)
	}
}

func TestService_Reference(t *testing.T) {
	ts, _ := newTestServer(t)
	var ref referenceBody
	code := do(t, ts, http.MethodPut, "/reference", `{"reference": 20000000, "external": true}`, &ref)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if ref.Reference != 20000000 || ref.External == nil || !*ref.External {
		t.Fatalf("unexpected reference %+v", ref)
	}
	ref = referenceBody{}
	if code := do(t, ts, http.MethodGet, "/reference", "", &ref); code != http.StatusOK || ref.Reference != 20000000 {
		t.Fatalf("unexpected reference %d %+v", code, ref)
	}
}

func TestService_Flash(t *testing.T) {
	ts, sim := newTestServer(t)
	if code := do(t, ts, http.MethodPut, "/synth/A/label", `{"label": "KEEP"}`, nil); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if code := do(t, ts, http.MethodPost, "/flash", "", nil); code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", code)
	}
	sim.PowerCycle()
	var status valon.ChannelStatus
	if do(t, ts, http.MethodGet, "/synth/A", "", &status); status.Label != "KEEP" {
		t.Fatalf("label not flashed: %q", status.Label)
	}
	sim.Inject(simulator.FaultNACK)
	if code := do(t, ts, http.MethodPost, "/flash", "", nil); code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", code)
	}
}

func TestService_Sweep(t *testing.T) {
	ts, _ := newTestServer(t)
	var points []valon.SweepPoint
	code := do(t, ts, http.MethodPost, "/synth/A/sweep?start=1000&stop=1100&points=3&spacing=1", "", &points)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if len(points) != 3 || points[1].Frequency != 1050 {
		t.Fatalf("unexpected points %+v", points)
	}
	if code := do(t, ts, http.MethodPost, "/synth/A/sweep?start=1000&stop=1100&points=0", "", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestService_Status(t *testing.T) {
	ts, _ := newTestServer(t)
	var status valon.Status
	if code := do(t, ts, http.MethodGet, "/status", "", &status); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if status.Reference != 10000000 || len(status.Channels) != 2 {
		t.Fatalf("unexpected status %+v", status)
	}
	var regs registersResponse
	if code := do(t, ts, http.MethodGet, "/synth/A/registers", "", &regs); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if regs.Registers[4]&0x7 != 4 {
		t.Fatalf("unexpected register 4 %08x", regs.Registers[4])
	}
}
