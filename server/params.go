package server

import (
	"net/url"
	"strconv"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon"
)

func ParseInt(name string, values url.Values, result *int) (err error) {
	intStr := values.Get(name)
	if intStr != "" {
		*result, err = strconv.Atoi(intStr)
		return err
	}
	return
}

func ParseFloat(name string, values url.Values, result *float64) (err error) {
	floatStr := values.Get(name)
	if floatStr != "" {
		*result, err = strconv.ParseFloat(floatStr, 64)
		return err
	}
	return
}

func ParseDuration(name string, values url.Values, result *time.Duration) (err error) {
	durationStr := values.Get(name)
	if durationStr != "" {
		*result, err = time.ParseDuration(durationStr)
		return err
	}
	return
}

// ParseSweepPlan reads start, stop, points, spacing and dwell from the query string.
func ParseSweepPlan(values url.Values) (plan valon.SweepPlan, err error) {
	plan = valon.SweepPlan{
		Points:  2,
		Spacing: valon.DefaultChannelSpacing,
	}
	if err = ParseFloat("start", values, &plan.Start); err != nil {
		return
	}
	if err = ParseFloat("stop", values, &plan.Stop); err != nil {
		return
	}
	if err = ParseInt("points", values, &plan.Points); err != nil {
		return
	}
	if err = ParseFloat("spacing", values, &plan.Spacing); err != nil {
		return
	}
	if err = ParseDuration("dwell", values, &plan.Dwell); err != nil {
		return
	}
	_, err = plan.Frequencies()
	return
}
