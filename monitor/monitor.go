// Package monitor polls the phase lock of both synthesizers on a cron schedule and reports
// every transition.
package monitor

import (
	"sync"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const DefaultSchedule = "@every 10s"

type LockReader interface {
	PhaseLock(id protocol.SynthID) (bool, error)
}

// Transition is reported when a synthesizer gains or loses lock, and for the first reading.
type Transition struct {
	Synth  protocol.SynthID
	Locked bool
	First  bool
}

type Monitor struct {
	reader   LockReader
	schedule string
	cron     *cron.Cron
	mtx      sync.Mutex
	last     map[protocol.SynthID]bool
	failures int
	notify   func(Transition)
}

// New returns a stopped monitor. notify may be nil.
func New(reader LockReader, schedule string, notify func(Transition)) *Monitor {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Monitor{
		reader:   reader,
		schedule: schedule,
		last:     make(map[protocol.SynthID]bool),
		notify:   notify,
	}
}

func (m *Monitor) Start() error {
	m.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := m.cron.AddFunc(m.schedule, m.Check); err != nil {
		return err
	}
	log.WithField("schedule", m.schedule).Infoln("Lock monitor started")
	m.cron.Start()
	return nil
}

// Stop waits for a running check to finish.
func (m *Monitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
	log.Infoln("Lock monitor stopped")
}

// Check reads the lock state of both synthesizers once.
func (m *Monitor) Check() {
	for _, id := range protocol.SynthIDs {
		locked, err := m.reader.PhaseLock(id)
		if err != nil {
			m.mtx.Lock()
			m.failures++
			m.mtx.Unlock()
			log.WithFields(log.Fields{
				"synth": id.String(),
				"error": err,
			}).Warnln("Lock check failed")
			continue
		}
		m.record(id, locked)
	}
}

func (m *Monitor) record(id protocol.SynthID, locked bool) {
	m.mtx.Lock()
	previous, seen := m.last[id]
	m.last[id] = locked
	m.mtx.Unlock()
	if seen && previous == locked {
		return
	}
	entry := log.WithFields(log.Fields{"synth": id.String(), "locked": locked})
	switch {
	case !seen:
		entry.Infoln("Lock state")
	case locked:
		entry.Infoln("Lock acquired")
	default:
		entry.Warnln("Lock lost")
	}
	if m.notify != nil {
		m.notify(Transition{Synth: id, Locked: locked, First: !seen})
	}
}

// Locked returns the last known lock state of a synthesizer.
func (m *Monitor) Locked(id protocol.SynthID) (locked bool, known bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	locked, known = m.last[id]
	return
}

func (m *Monitor) Failures() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.failures
}
