package corr

import (
	"fmt"
	"math"
)

// Strength thresholds on |r|. Callers may override; the defaults match the
// conventional social-science bands.
var DefaultStrengthThresholds = StrengthThresholds{
	VeryStrong: 0.7,
	Strong:     0.5,
	Moderate:   0.3,
	Weak:       0.1,
}

type StrengthThresholds struct {
	VeryStrong float64
	Strong     float64
	Moderate   float64
	Weak       float64
}

// StrengthLabel classifies the magnitude of a correlation coefficient.
func StrengthLabel(r float64, t StrengthThresholds) string {
	abs := math.Abs(r)
	switch {
	case abs >= t.VeryStrong:
		return "very strong"
	case abs >= t.Strong:
		return "strong"
	case abs >= t.Moderate:
		return "moderate"
	case abs >= t.Weak:
		return "weak"
	default:
		return "very weak"
	}
}

// EffectSizeLabel classifies |r| into Cohen-style effect bands.
func EffectSizeLabel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.5:
		return "large"
	case abs >= 0.3:
		return "medium"
	case abs >= 0.1:
		return "small"
	default:
		return "negligible"
	}
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

// CorrelationNarrative renders the one-line human summary attached to a
// pairwise result.
func CorrelationNarrative(method Method, r, p, alpha float64) string {
	strength := StrengthLabel(r, DefaultStrengthThresholds)
	if p < alpha {
		return fmt.Sprintf("%s %s %s correlation (r=%.3f, p=%.4f)",
			strength, direction(r), method, r, p)
	}
	return fmt.Sprintf("no significant %s correlation (r=%.3f, p=%.4f)", method, r, p)
}

// CausalityVerdict renders the Granger conclusion for a source/target pair.
func CausalityVerdict(source, target string, bestLag int, bestP, alpha float64) string {
	if bestP < alpha {
		return fmt.Sprintf("%s Granger-causes %s at lag %d (p=%.4f)",
			source, target, bestLag, bestP)
	}
	return fmt.Sprintf("no evidence that %s Granger-causes %s (best p=%.4f)",
		source, target, bestP)
}

// LeadLagNarrative renders the cross-correlation conclusion. A negative lag
// means the first series leads the second.
func LeadLagNarrative(first, second string, lag int, r, p, alpha float64) string {
	if p >= alpha {
		return fmt.Sprintf("no significant lead/lag relationship between %s and %s (max |r|=%.3f, p=%.4f)",
			first, second, math.Abs(r), p)
	}
	switch {
	case lag < 0:
		return fmt.Sprintf("%s leads %s by %d steps (r=%.3f, p=%.4f)",
			first, second, -lag, r, p)
	case lag > 0:
		return fmt.Sprintf("%s leads %s by %d steps (r=%.3f, p=%.4f)",
			second, first, lag, r, p)
	default:
		return fmt.Sprintf("%s and %s move together with no lag (r=%.3f, p=%.4f)",
			first, second, r, p)
	}
}

// LagDescription names one row of the time-lagged table. The sign convention
// matches LeadLagNarrative: negative means the first series leads.
func LagDescription(first, second string, lag int) string {
	switch {
	case lag < 0:
		return fmt.Sprintf("%s leads %s by %d", first, second, -lag)
	case lag > 0:
		return fmt.Sprintf("%s leads %s by %d", second, first, lag)
	default:
		return "same day"
	}
}

// CoherenceNarrative renders the wavelet coherence summary.
func CoherenceNarrative(avg, max, dominantPeriod float64) string {
	var band string
	switch {
	case avg >= 0.7:
		band = "strong"
	case avg >= 0.4:
		band = "moderate"
	default:
		band = "weak"
	}
	return fmt.Sprintf("%s average coherence %.3f (max %.3f), dominant period ~%.1f samples",
		band, avg, max, dominantPeriod)
}
