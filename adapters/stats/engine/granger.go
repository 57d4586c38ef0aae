package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"heliocorr/adapters/stats/temporal"
	"heliocorr/domain/core"
	"heliocorr/domain/corr"
)

// Granger tests whether x helps predict y beyond y's own history. For each
// lag 1..max_lag it fits a restricted OLS model (y on its own lags) and an
// unrestricted one (plus x's lags) and compares residual sums of squares with
// the SSR chi-squared test; the companion F statistic is reported alongside.
// The best lag is the one with the smallest p-value across the window, which
// inherits the multiple-comparison optimism of scanning lags.
func (e *Engine) Granger(x, y []float64, opts Options) (corr.CausalityResult, error) {
	xc, yc, err := temporal.CleanPaired(x, y)
	if err != nil {
		return corr.CausalityResult{}, err
	}

	maxLag := opts.maxLag(DefaultGrangerMaxLag)
	alpha := opts.alpha()
	n := len(xc)
	if err := temporal.RequireMin(string(corr.MethodGranger), n, grangerObsPerLag*maxLag); err != nil {
		return corr.CausalityResult{}, err
	}

	result := corr.CausalityResult{
		Method:        corr.MethodGranger,
		TestUsed:      "ssr_chi2test",
		MaxLagTested:  maxLag,
		NObservations: n,
		BestPValue:    1.0,
	}

	for lag := 1; lag <= maxLag; lag++ {
		fStat, chi2Stat, p, err := grangerAtLag(xc, yc, lag)
		if err != nil {
			return corr.CausalityResult{}, core.NewComputationError(string(corr.MethodGranger), err)
		}
		result.Lags = append(result.Lags, corr.LagTest{
			Lag:         lag,
			FStatistic:  fStat,
			ChiSquared:  chi2Stat,
			PValue:      p,
			Significant: p < alpha,
		})
		if p < result.BestPValue || result.BestLag == 0 {
			result.BestLag = lag
			result.BestPValue = p
			result.BestFStatistic = fStat
		}
	}

	result.Significant = result.BestPValue < alpha
	result.Verdict = corr.CausalityVerdict("x", "y", result.BestLag, result.BestPValue, alpha)
	return result, nil
}

// grangerAtLag compares the restricted model
//
//	y_t = c + sum_i a_i*y_{t-i}
//
// against the unrestricted
//
//	y_t = c + sum_i a_i*y_{t-i} + sum_i b_i*x_{t-i}
//
// over the lag-trimmed sample.
func grangerAtLag(x, y []float64, lag int) (fStat, chi2Stat, pValue float64, err error) {
	nEff := len(y) - lag
	unrestrictedCols := 1 + 2*lag
	dofResid := nEff - unrestrictedCols
	if dofResid <= 0 {
		return 0, 0, 0, fmt.Errorf("lag %d leaves %d residual degrees of freedom", lag, dofResid)
	}

	target := mat.NewVecDense(nEff, nil)
	restricted := mat.NewDense(nEff, 1+lag, nil)
	unrestricted := mat.NewDense(nEff, unrestrictedCols, nil)
	for row := 0; row < nEff; row++ {
		t := row + lag
		target.SetVec(row, y[t])
		restricted.Set(row, 0, 1)
		unrestricted.Set(row, 0, 1)
		for i := 1; i <= lag; i++ {
			restricted.Set(row, i, y[t-i])
			unrestricted.Set(row, i, y[t-i])
			unrestricted.Set(row, lag+i, x[t-i])
		}
	}

	rssRestricted, err := olsResidualSS(restricted, target)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("restricted model at lag %d: %w", lag, err)
	}
	rssUnrestricted, err := olsResidualSS(unrestricted, target)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unrestricted model at lag %d: %w", lag, err)
	}
	if rssUnrestricted <= 0 {
		return 0, 0, 0, fmt.Errorf("unrestricted model at lag %d has zero residual variance", lag)
	}

	extra := rssRestricted - rssUnrestricted
	if extra < 0 {
		extra = 0
	}

	fStat = (extra / float64(lag)) / (rssUnrestricted / float64(dofResid))
	chi2Stat = float64(nEff) * extra / rssUnrestricted
	chi2 := distuv.ChiSquared{K: float64(lag)}
	pValue = 1.0 - chi2.CDF(chi2Stat)
	return fStat, chi2Stat, pValue, nil
}

// olsResidualSS solves the least-squares problem X*beta = y and returns the
// residual sum of squares. Normal equations first; on an ill-conditioned
// system it falls back to SVD, and a rank-deficient design is an error rather
// than a silently pseudo-inverted fit.
func olsResidualSS(X *mat.Dense, y *mat.VecDense) (float64, error) {
	rows, cols := X.Dims()

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	beta := mat.NewVecDense(cols, nil)
	var chol mat.Cholesky
	if ok := chol.Factorize(asSym(&xtx)); ok && chol.Cond() < 1e12 {
		if err := chol.SolveVecTo(beta, &xty); err != nil {
			beta = nil
		}
	} else {
		// singular or near-singular normal equations
		beta = nil
	}

	if beta == nil {
		var svd mat.SVD
		if ok := svd.Factorize(X, mat.SVDFullU|mat.SVDFullV); !ok {
			return 0, fmt.Errorf("svd factorization failed")
		}
		rank := svd.Rank(1e-12)
		if rank < cols {
			return 0, fmt.Errorf("design matrix is rank deficient (%d < %d)", rank, cols)
		}
		var sol mat.Dense
		svd.SolveTo(&sol, y, rank)
		beta = mat.NewVecDense(cols, nil)
		for i := 0; i < cols; i++ {
			beta.SetVec(i, sol.At(i, 0))
		}
	}

	var fitted mat.VecDense
	fitted.MulVec(X, beta)
	rss := 0.0
	for i := 0; i < rows; i++ {
		resid := y.AtVec(i) - fitted.AtVec(i)
		rss += resid * resid
	}
	if math.IsNaN(rss) || math.IsInf(rss, 0) {
		return 0, fmt.Errorf("residual sum of squares is not finite")
	}
	return rss, nil
}

func asSym(m *mat.Dense) *mat.SymDense {
	_, cols := m.Dims()
	sym := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return sym
}
