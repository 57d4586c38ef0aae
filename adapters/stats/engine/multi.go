package engine

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"heliocorr/domain/core"
	"heliocorr/domain/corr"
	"heliocorr/domain/series"
)

// BatchRequest names every series on each side of the analysis; the batch
// runs each (solar, mental, method) combination.
type BatchRequest struct {
	Solar   map[core.VariableKey]series.TimeSeries
	Mental  map[core.VariableKey]series.TimeSeries
	Methods []corr.Method
	Options Options
}

// Combination is one (solar, mental, method) outcome. Exactly one of the
// typed result pointers is set on success; Error carries the failure
// otherwise. A failed combination is excluded from the summary, never
// counted as non-significant.
type Combination struct {
	SolarVar  core.VariableKey `json:"solar_var"`
	MentalVar core.VariableKey `json:"mental_var"`
	Method    corr.Method      `json:"method"`

	Correlation      *corr.CorrelationResult      `json:"correlation,omitempty"`
	Causality        *corr.CausalityResult        `json:"causality,omitempty"`
	CrossCorrelation *corr.CrossCorrelationResult `json:"cross_correlation,omitempty"`
	Coherence        *corr.CoherenceResult        `json:"coherence,omitempty"`

	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Finding is one significant combination, flattened for reporting.
type Finding struct {
	Variables   string      `json:"variables"`
	Method      corr.Method `json:"method"`
	Correlation float64     `json:"correlation"`
	PValue      float64     `json:"p_value"`
}

// BatchSummary aggregates the batch. TotalAnalyses counts combinations that
// were actually attempted (aligned data met the method floor); skipped and
// failed combinations are tallied separately.
type BatchSummary struct {
	TotalAnalyses        int     `json:"total_analyses"`
	SkippedAnalyses      int     `json:"skipped_analyses"`
	FailedAnalyses       int     `json:"failed_analyses"`
	SignificantFindings  int     `json:"significant_findings"`
	StrongestCorrelation float64 `json:"strongest_correlation"`
	MostSignificantP     float64 `json:"most_significant_p"`
}

// BatchResult is the full batch manifest: identity, reproducibility seed,
// timing, every combination outcome, and the aggregate summary.
type BatchResult struct {
	BatchID      core.BatchID   `json:"batch_id"`
	Seed         int64          `json:"seed"`
	StartedAt    core.Timestamp `json:"started_at"`
	RuntimeMs    int64          `json:"runtime_ms"`
	Combinations []Combination  `json:"combinations"`
	Findings     []Finding      `json:"findings"`
	Summary      BatchSummary   `json:"summary"`
}

// RunBatch analyzes every (solar, mental, method) combination. Pairs run in
// parallel under a bounded errgroup; results land in pre-assigned slots so
// output order is deterministic regardless of scheduling.
func (e *Engine) RunBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	start := time.Now()
	methods := req.Methods
	if len(methods) == 0 {
		methods = []corr.Method{corr.MethodPearson, corr.MethodSpearman, corr.MethodGranger}
	}
	for _, m := range methods {
		if !m.Valid() {
			return BatchResult{}, core.NewInvalidMethodError(string(m))
		}
	}

	solarKeys := sortedKeys(req.Solar)
	mentalKeys := sortedKeys(req.Mental)

	type pair struct {
		solar, mental core.VariableKey
	}
	pairs := make([]pair, 0, len(solarKeys)*len(mentalKeys))
	for _, s := range solarKeys {
		for _, m := range mentalKeys {
			pairs = append(pairs, pair{solar: s, mental: m})
		}
	}

	combos := make([]Combination, len(pairs)*len(methods))
	var skipped int64
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for pi, pr := range pairs {
		pi, pr := pi, pr
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			x, y, n := series.AlignOnDates(req.Solar[pr.solar], req.Mental[pr.mental])
			base := pi * len(methods)
			for mi, method := range methods {
				combo := Combination{SolarVar: pr.solar, MentalVar: pr.mental, Method: method}
				if n < methodFloor(method, req.Options) {
					e.log.Warn("skipping %s for %s: %d aligned observations below floor",
						method, core.PairKey(pr.solar, pr.mental), n)
					combo.Skipped = true
					combo.Error = "insufficient aligned observations"
					combos[base+mi] = combo
					mu.Lock()
					skipped++
					mu.Unlock()
					continue
				}
				result, err := e.Analyze(method, x, y, req.Options)
				if err != nil {
					e.log.Warn("%s failed for %s: %v", method, core.PairKey(pr.solar, pr.mental), err)
					combo.Error = err.Error()
					combos[base+mi] = combo
					continue
				}
				assignResult(&combo, result)
				combos[base+mi] = combo
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{
		BatchID:      core.NewBatchID(),
		Seed:         e.rng.Seed(),
		StartedAt:    core.NewTimestamp(start),
		Combinations: combos,
	}
	result.Findings, result.Summary = summarize(combos, int(skipped))
	result.RuntimeMs = time.Since(start).Milliseconds()
	return result, nil
}

// methodFloor is the minimum aligned observations needed to even attempt a
// method.
func methodFloor(method corr.Method, opts Options) int {
	switch method {
	case corr.MethodGranger:
		return grangerObsPerLag * opts.maxLag(DefaultGrangerMaxLag)
	case corr.MethodWavelet:
		return minWaveletObs
	default:
		return minPairwiseObs
	}
}

func assignResult(combo *Combination, result any) {
	switch r := result.(type) {
	case corr.CorrelationResult:
		combo.Correlation = &r
	case corr.CausalityResult:
		combo.Causality = &r
	case corr.CrossCorrelationResult:
		combo.CrossCorrelation = &r
	case corr.CoherenceResult:
		combo.Coherence = &r
	}
}

// significance pulls the reportable (r, p, significant) triple out of a
// combination. Wavelet coherence carries no significance test and never
// contributes a finding.
func significance(c Combination) (r, p float64, significant, ok bool) {
	switch {
	case c.Correlation != nil:
		return c.Correlation.Coefficient, c.Correlation.PValue, c.Correlation.Significant, true
	case c.Causality != nil:
		return 0, c.Causality.BestPValue, c.Causality.Significant, true
	case c.CrossCorrelation != nil:
		return c.CrossCorrelation.MaxCorrelation, c.CrossCorrelation.PValue, c.CrossCorrelation.Significant, true
	default:
		return 0, 0, false, false
	}
}

func summarize(combos []Combination, skipped int) ([]Finding, BatchSummary) {
	summary := BatchSummary{
		SkippedAnalyses:  skipped,
		MostSignificantP: 1.0,
	}
	var findings []Finding
	for _, c := range combos {
		if c.Skipped {
			continue
		}
		if c.Error != "" {
			summary.TotalAnalyses++
			summary.FailedAnalyses++
			continue
		}
		summary.TotalAnalyses++
		r, p, sig, ok := significance(c)
		if !ok {
			// wavelet: attempted, but no significance test to report
			continue
		}
		if !sig {
			continue
		}
		summary.SignificantFindings++
		findings = append(findings, Finding{
			Variables:   core.PairKey(c.SolarVar, c.MentalVar),
			Method:      c.Method,
			Correlation: r,
			PValue:      p,
		})
		if abs(r) > abs(summary.StrongestCorrelation) {
			summary.StrongestCorrelation = r
		}
		if p < summary.MostSignificantP {
			summary.MostSignificantP = p
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].PValue < findings[j].PValue
	})
	return findings, summary
}

func sortedKeys(m map[core.VariableKey]series.TimeSeries) []core.VariableKey {
	keys := make([]core.VariableKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
