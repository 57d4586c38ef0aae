package series

import (
	"sort"

	"heliocorr/domain/core"
)

// Point is a single dated observation.
type Point struct {
	At    core.Timestamp `json:"at"`
	Value float64        `json:"value"`
}

// TimeSeries is a named, ordered sequence of observations. Constructors and
// accessors copy; callers keep ownership of anything they pass in.
type TimeSeries struct {
	Name   core.VariableKey `json:"name"`
	Points []Point          `json:"points"`
}

// New builds a chronologically sorted series from parallel timestamp/value
// slices. Lengths must match.
func New(name core.VariableKey, at []core.Timestamp, values []float64) (TimeSeries, error) {
	if len(at) != len(values) {
		return TimeSeries{}, core.NewDegenerateInputError(name.String(),
			"has mismatched timestamp and value lengths")
	}
	pts := make([]Point, len(at))
	for i := range at {
		pts[i] = Point{At: at[i], Value: values[i]}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].At.Before(pts[j].At) })
	return TimeSeries{Name: name, Points: pts}, nil
}

// Len returns the number of observations.
func (s TimeSeries) Len() int {
	return len(s.Points)
}

// Values returns a copy of the observation values in chronological order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// AlignOnDates inner-joins two series on UTC calendar date and returns the
// matched values in chronological order. Observations present in only one
// series are dropped. When a series carries several observations on the same
// date, the last one wins.
func AlignOnDates(a, b TimeSeries) (x, y []float64, n int) {
	byDateA := valuesByDate(a)
	byDateB := valuesByDate(b)

	keys := make([]string, 0, len(byDateA))
	for k := range byDateA {
		if _, ok := byDateB[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	x = make([]float64, len(keys))
	y = make([]float64, len(keys))
	for i, k := range keys {
		x[i] = byDateA[k]
		y[i] = byDateB[k]
	}
	return x, y, len(keys)
}

func valuesByDate(s TimeSeries) map[string]float64 {
	out := make(map[string]float64, len(s.Points))
	for _, p := range s.Points {
		out[p.At.DateKey()] = p.Value
	}
	return out
}
