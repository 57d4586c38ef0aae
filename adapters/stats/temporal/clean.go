// Package temporal prepares paired time-series arrays for analysis: pairwise
// deletion of unusable observations and degenerate-input screening.
package temporal

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"heliocorr/domain/core"
)

// CleanPaired removes every position where either value is NaN or Inf and
// screens the survivors for zero variance. Input order is preserved, inputs
// are never mutated, and the returned slices are freshly allocated.
func CleanPaired(x, y []float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, core.NewComputationError("clean",
			fmt.Errorf("paired series length mismatch: %d vs %d", len(x), len(y)))
	}

	xc := make([]float64, 0, len(x))
	yc := make([]float64, 0, len(y))
	for i := range x {
		if !usable(x[i]) || !usable(y[i]) {
			continue
		}
		xc = append(xc, x[i])
		yc = append(yc, y[i])
	}

	if err := rejectDegenerate("x", xc); err != nil {
		return nil, nil, err
	}
	if err := rejectDegenerate("y", yc); err != nil {
		return nil, nil, err
	}
	return xc, yc, nil
}

// RequireMin enforces a method-specific observation floor after cleaning.
func RequireMin(method string, n, min int) error {
	if n < min {
		return core.NewInsufficientDataError(method, n, min)
	}
	return nil
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func rejectDegenerate(name string, vals []float64) error {
	if len(vals) == 0 {
		return core.NewDegenerateInputError(name, "has no usable observations")
	}
	variance, err := stats.PopulationVariance(stats.Float64Data(vals))
	if err != nil {
		return core.NewDegenerateInputError(name, "variance undefined")
	}
	if variance == 0 {
		return core.NewDegenerateInputError(name, "has zero variance")
	}
	return nil
}
