// Package testkit generates seeded synthetic solar/mental-health series with
// known planted structure, so analyses can be checked against a gold
// standard: a planted lag must be recovered, a planted correlation must be
// detected, and pure noise must stay insignificant.
package testkit

import (
	"math"
	"math/rand"
	"time"

	"heliocorr/domain/core"
	"heliocorr/domain/series"
)

// GeneratorConfig controls the synthetic dataset.
type GeneratorConfig struct {
	Days    int     // observations per series
	Seed    int64   // generator seed
	LagDays int     // planted solar -> mental response delay
	Gain    float64 // strength of the planted response
	Noise   float64 // noise standard deviation on the response
}

// DefaultConfig plants a 3-day response over a year of daily data.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Days:    365,
		Seed:    42,
		LagDays: 3,
		Gain:    1.0,
		Noise:   0.3,
	}
}

// SolarMentalDataset builds the standard fixture: three solar drivers and
// three mental indicators. anxiety_score responds to kp_index at the planted
// lag; mood_noise is independent noise and must never produce findings.
func SolarMentalDataset(cfg GeneratorConfig) (solar, mental map[core.VariableKey]series.TimeSeries) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	kp := ARSeries(rng, cfg.Days, 0.7, 1.0)
	sunspots := ARSeries(rng, cfg.Days, 0.9, 1.0)
	flux := make([]float64, cfg.Days)
	for i := range flux {
		// flux tracks sunspots with its own noise
		flux[i] = 0.8*sunspots[i] + rng.NormFloat64()*0.5
	}

	anxiety := LaggedResponse(kp, cfg.LagDays, cfg.Gain, cfg.Noise, rng)
	depression := LaggedResponse(sunspots, cfg.LagDays+2, cfg.Gain*0.6, cfg.Noise, rng)
	noise := ARSeries(rng, cfg.Days, 0.0, 1.0)

	solar = map[core.VariableKey]series.TimeSeries{
		"kp_index":      DailySeries("kp_index", start, kp),
		"sunspot_count": DailySeries("sunspot_count", start, sunspots),
		"solar_flux":    DailySeries("solar_flux", start, flux),
	}
	mental = map[core.VariableKey]series.TimeSeries{
		"anxiety_score":    DailySeries("anxiety_score", start, anxiety),
		"depression_score": DailySeries("depression_score", start, depression),
		"mood_noise":       DailySeries("mood_noise", start, noise),
	}
	return solar, mental
}

// ARSeries draws an AR(1) process: v_t = phi*v_{t-1} + e_t. phi=0 gives white
// noise.
func ARSeries(rng *rand.Rand, n int, phi, sigma float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		e := rng.NormFloat64() * sigma
		if i == 0 {
			out[i] = e
			continue
		}
		out[i] = phi*out[i-1] + e
	}
	return out
}

// LaggedResponse builds a series that tracks the driver after a delay:
// out_t = gain*driver_{t-lag} + noise. Positions before the lag are noise
// only.
func LaggedResponse(driver []float64, lag int, gain, noise float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(driver))
	for i := range out {
		out[i] = rng.NormFloat64() * noise
		if i >= lag {
			out[i] += gain * driver[i-lag]
		}
	}
	return out
}

// SineSeries samples sin(2*pi*t/period + phase) over n points.
func SineSeries(n int, period, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2*math.Pi*float64(i)/period + phase)
	}
	return out
}

// DailySeries wraps values as a daily time series starting at the given day.
func DailySeries(name core.VariableKey, start time.Time, values []float64) series.TimeSeries {
	at := make([]core.Timestamp, len(values))
	for i := range values {
		at[i] = core.NewTimestamp(start.AddDate(0, 0, i))
	}
	s, err := series.New(name, at, values)
	if err != nil {
		panic(err) // fixture construction cannot fail with matched lengths
	}
	return s
}
