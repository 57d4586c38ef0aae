package engine

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/montanaflynn/stats"

	"heliocorr/adapters/stats/temporal"
	"heliocorr/domain/corr"
)

// CrossCorrelation scans the normalized cross-correlation function over
// |lag| <= max_lag and finds the lag with the largest |r|. A negative optimal
// lag means the first series leads. Significance comes from a permutation
// test: shuffle y, recompute the windowed max |CCF|, and count how often the
// shuffled maximum reaches the observed one.
func (e *Engine) CrossCorrelation(x, y []float64, opts Options) (corr.CrossCorrelationResult, error) {
	xc, yc, err := temporal.CleanPaired(x, y)
	if err != nil {
		return corr.CrossCorrelationResult{}, err
	}
	if err := temporal.RequireMin(string(corr.MethodCrossCorrelation), len(xc), minPairwiseObs); err != nil {
		return corr.CrossCorrelationResult{}, err
	}

	n := len(xc)
	alpha := opts.alpha()
	maxLag := opts.maxLag(DefaultCrossCorrLag)
	if maxLag >= n {
		maxLag = n - 1
	}

	lags, ccf := ccfWindow(xc, yc, maxLag)
	optIdx := 0
	for i := range ccf {
		if math.Abs(ccf[i]) > math.Abs(ccf[optIdx]) {
			optIdx = i
		}
	}
	observed := math.Abs(ccf[optIdx])

	p := e.permutationPValue(xc, yc, maxLag, observed, opts)

	result := corr.CrossCorrelationResult{
		Method:         corr.MethodCrossCorrelation,
		OptimalLag:     lags[optIdx],
		MaxCorrelation: ccf[optIdx],
		PValue:         p,
		Significant:    p < alpha,
		Lags:           lags,
		Correlations:   ccf,
		NObservations:  n,
	}
	result.Interpretation = corr.LeadLagNarrative("x", "y",
		result.OptimalLag, result.MaxCorrelation, p, alpha)
	return result, nil
}

// ccfWindow computes the cross-correlation function for lags in
// [-maxLag, maxLag], normalized by n*sigma_x*sigma_y so a perfectly shifted
// copy scores near +/-1 at its shift. Lag pairing matches
// temporal.LaggedOverlap: negative lags pair earlier x with later y.
func ccfWindow(x, y []float64, maxLag int) (lags []int, ccf []float64) {
	n := len(x)
	meanX, _ := stats.Mean(stats.Float64Data(x))
	meanY, _ := stats.Mean(stats.Float64Data(y))
	sdX, _ := stats.StandardDeviation(stats.Float64Data(x))
	sdY, _ := stats.StandardDeviation(stats.Float64Data(y))
	norm := float64(n) * sdX * sdY

	lags = make([]int, 0, 2*maxLag+1)
	ccf = make([]float64, 0, 2*maxLag+1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		xs, ys := temporal.LaggedOverlap(x, y, lag)
		sum := 0.0
		for i := range xs {
			sum += (xs[i] - meanX) * (ys[i] - meanY)
		}
		lags = append(lags, lag)
		if norm == 0 {
			ccf = append(ccf, 0)
		} else {
			ccf = append(ccf, sum/norm)
		}
	}
	return lags, ccf
}

// permutationPValue estimates how often a shuffled y produces a windowed max
// |CCF| at least as large as the observed one. Workers draw from independent
// named streams and only counts are merged, so the result does not depend on
// scheduling order.
func (e *Engine) permutationPValue(x, y []float64, maxLag int, observed float64, opts Options) float64 {
	reps := opts.permutations()
	workers := runtime.NumCPU()
	if workers > reps {
		workers = reps
	}
	if workers < 1 {
		workers = 1
	}

	counts := make([]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		share := reps / workers
		if w < reps%workers {
			share++
		}
		wg.Add(1)
		go func(w, share int) {
			defer wg.Done()
			stream := e.rng.Stream(fmt.Sprintf("crosscorr:perm:n%d:w%d", len(y), w))
			shuffled := make([]float64, len(y))
			copy(shuffled, y)
			for i := 0; i < share; i++ {
				// Fisher-Yates
				for j := len(shuffled) - 1; j > 0; j-- {
					k := stream.Intn(j + 1)
					shuffled[j], shuffled[k] = shuffled[k], shuffled[j]
				}
				_, ccf := ccfWindow(x, shuffled, maxLag)
				maxAbs := 0.0
				for _, v := range ccf {
					if math.Abs(v) > maxAbs {
						maxAbs = math.Abs(v)
					}
				}
				if maxAbs >= observed {
					counts[w]++
				}
			}
		}(w, share)
	}
	wg.Wait()

	extreme := 0
	for _, c := range counts {
		extreme += c
	}
	return float64(extreme) / float64(reps)
}

// TimeLaggedCorrelation builds the shift-and-correlate table for lags in
// [-maxLag, maxLag]. Each row is a plain Pearson correlation over the
// overlapping window at that lag; rows with fewer than 10 overlapping
// observations are omitted.
func (e *Engine) TimeLaggedCorrelation(x, y []float64, opts Options) ([]corr.LaggedCorrelation, error) {
	xc, yc, err := temporal.CleanPaired(x, y)
	if err != nil {
		return nil, err
	}
	if err := temporal.RequireMin(string(corr.MethodCrossCorrelation), len(xc), minPairwiseObs); err != nil {
		return nil, err
	}

	alpha := opts.alpha()
	maxLag := opts.maxLag(DefaultLaggedTableLag)
	n := len(xc)

	rows := make([]corr.LaggedCorrelation, 0, 2*maxLag+1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		if temporal.OverlapLen(n, lag) < minLaggedTableObs {
			continue
		}
		xs, ys := temporal.LaggedOverlap(xc, yc, lag)
		r := pearsonStat(xs, ys)
		if math.IsNaN(r) {
			// constant overlap window
			continue
		}
		p := correlationPValue(r, len(xs))
		rows = append(rows, corr.LaggedCorrelation{
			Lag:           lag,
			Description:   corr.LagDescription("x", "y", lag),
			Correlation:   r,
			PValue:        p,
			NObservations: len(xs),
			Significant:   p < alpha,
		})
	}
	return rows, nil
}
