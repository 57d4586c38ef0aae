package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"heliocorr/adapters/stats/temporal"
	"heliocorr/domain/corr"
)

// pairStat computes a correlation coefficient over an already-cleaned pair.
type pairStat func(x, y []float64) float64

func pearsonStat(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

func spearmanStat(x, y []float64) float64 {
	return stat.Correlation(computeRanks(x), computeRanks(y), nil)
}

// Pearson runs a linear correlation analysis: coefficient, analytic t-test
// p-value, and a paired-bootstrap percentile confidence interval.
func (e *Engine) Pearson(x, y []float64, opts Options) (corr.CorrelationResult, error) {
	return e.pairwise(corr.MethodPearson, pearsonStat, x, y, opts)
}

// Spearman runs a rank correlation analysis. Each bootstrap replicate is
// re-ranked, so ties introduced by resampling are handled the same way as in
// the point estimate.
func (e *Engine) Spearman(x, y []float64, opts Options) (corr.CorrelationResult, error) {
	return e.pairwise(corr.MethodSpearman, spearmanStat, x, y, opts)
}

func (e *Engine) pairwise(method corr.Method, statFn pairStat, x, y []float64, opts Options) (corr.CorrelationResult, error) {
	xc, yc, err := temporal.CleanPaired(x, y)
	if err != nil {
		return corr.CorrelationResult{}, err
	}
	if err := temporal.RequireMin(string(method), len(xc), minPairwiseObs); err != nil {
		return corr.CorrelationResult{}, err
	}

	n := len(xc)
	alpha := opts.alpha()
	r := statFn(xc, yc)
	p := correlationPValue(r, n)
	lower, upper := e.bootstrapCI(string(method), statFn, xc, yc, opts)

	return corr.CorrelationResult{
		Method:         method,
		Coefficient:    r,
		PValue:         p,
		CILower:        lower,
		CIUpper:        upper,
		NObservations:  n,
		Significant:    p < alpha,
		Strength:       corr.StrengthLabel(r, corr.DefaultStrengthThresholds),
		EffectSize:     corr.EffectSizeLabel(r),
		Interpretation: corr.CorrelationNarrative(method, r, p, alpha),
	}, nil
}

// correlationPValue is the two-sided p-value for a correlation coefficient
// under the t approximation: t = r * sqrt((n-2)/(1-r^2)), df = n-2.
func correlationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	if math.Abs(r) >= 1.0 {
		return 0.0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1.0-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2.0 * (1.0 - tDist.CDF(math.Abs(t)))
}

// computeRanks assigns 1-based ranks with average-rank tie handling.
func computeRanks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// positions i..j share a value: assign the average rank
		avg := float64(i+j)/2.0 + 1.0
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
