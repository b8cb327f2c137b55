package valon

import (
	"context"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

type SweepPoint struct {
	Requested float64 `json:"requested"`
	Frequency float64 `json:"frequency"`
	Locked    bool    `json:"locked"`
}

type SweepPlan struct {
	Start   float64
	Stop    float64
	Points  int
	Spacing float64
	Dwell   time.Duration
}

// Frequencies returns the evenly spaced frequencies of the plan, both ends included.
func (sp SweepPlan) Frequencies() ([]float64, error) {
	switch {
	case sp.Points < 1:
		return nil, &protocol.InvalidArgumentError{Name: "sweep points", Value: sp.Points, Reason: "must be at least 1"}
	case !(sp.Start > 0) || !(sp.Stop > 0):
		return nil, &protocol.InvalidArgumentError{Name: "sweep range", Value: [2]float64{sp.Start, sp.Stop}, Reason: "must be positive"}
	case sp.Points == 1:
		return []float64{sp.Start}, nil
	}
	return floats.Span(make([]float64, sp.Points), sp.Start, sp.Stop), nil
}

// Sweep steps the synthesizer through the plan, waiting Dwell after each step before reading
// back the frequency and lock state. report, if not nil, is called for every point.
func (c *Controller) Sweep(
	ctx context.Context, id protocol.SynthID, plan SweepPlan, report func(SweepPoint),
) ([]SweepPoint, error) {
	frequencies, err := plan.Frequencies()
	if err != nil {
		return nil, err
	}
	spacing := plan.Spacing
	if spacing == 0 {
		spacing = DefaultChannelSpacing
	}
	results := make([]SweepPoint, 0, len(frequencies))
	for _, mhz := range frequencies {
		if err := c.SetFrequency(id, mhz, spacing); err != nil {
			return results, err
		}
		if plan.Dwell > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(plan.Dwell):
			}
		} else if err := ctx.Err(); err != nil {
			return results, err
		}
		point := SweepPoint{Requested: mhz}
		if point.Frequency, err = c.Frequency(id); err != nil {
			return results, err
		}
		if point.Locked, err = c.PhaseLock(id); err != nil {
			return results, err
		}
		log.WithFields(log.Fields{
			"synth":     id.String(),
			"frequency": point.Frequency,
			"locked":    point.Locked,
		}).Debugln("Sweep point")
		results = append(results, point)
		if report != nil {
			report(point)
		}
	}
	return results, nil
}
