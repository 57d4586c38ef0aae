package engine

import (
	"fmt"
	"math"
	"sort"
)

// bootstrapCI estimates a percentile confidence interval for a pairwise
// statistic. Each replicate draws one set of indices and applies it to both
// arrays, preserving the pairing. Replicates that produce NaN (e.g. a
// constant resample) are dropped. The stream name folds in the inputs'
// length and point estimate so concurrent analyses of different pairs stay
// on independent, reproducible sequences.
func (e *Engine) bootstrapCI(method string, statFn pairStat, x, y []float64, opts Options) (lower, upper float64) {
	n := len(x)
	reps := opts.bootstraps()
	alpha := opts.alpha()

	stream := e.rng.Stream(fmt.Sprintf("bootstrap:%s:n%d:r%x", method, n, math.Float64bits(statFn(x, y))))

	xb := make([]float64, n)
	yb := make([]float64, n)
	samples := make([]float64, 0, reps)
	for i := 0; i < reps; i++ {
		for j := 0; j < n; j++ {
			k := stream.Intn(n)
			xb[j] = x[k]
			yb[j] = y[k]
		}
		if v := statFn(xb, yb); !math.IsNaN(v) {
			samples = append(samples, v)
		}
	}
	return percentileInterval(samples, alpha)
}

// percentileInterval returns the (alpha/2, 1-alpha/2) percentile bounds of
// the sampled statistic.
func percentileInterval(samples []float64, alpha float64) (lower, upper float64) {
	if len(samples) == 0 {
		return math.NaN(), math.NaN()
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	lowerIdx := int(math.Round(alpha / 2 * float64(len(sorted)-1)))
	upperIdx := int(math.Round((1 - alpha/2) * float64(len(sorted)-1)))
	return sorted[lowerIdx], sorted[upperIdx]
}
