// Package engine implements the correlation/causality analysis engine:
// pairwise correlation with bootstrap intervals, Granger causality,
// cross-correlation lag scans with permutation significance, wavelet
// coherence, and the multi-pair aggregate runner.
package engine

import (
	"fmt"
	"sync"

	"heliocorr/domain/core"
	"heliocorr/domain/corr"
	"heliocorr/internal"
	"heliocorr/ports"
)

// Default analysis parameters. Zero-valued Options fields fall back to these.
const (
	DefaultAlpha          = 0.05
	DefaultBootstraps     = 1000
	DefaultPermutations   = 1000
	DefaultGrangerMaxLag  = 7
	DefaultCrossCorrLag   = 30
	DefaultLaggedTableLag = 14
	DefaultWaveletScales  = 64

	minPairwiseObs    = 10
	minWaveletObs     = 128
	grangerObsPerLag  = 5
	minLaggedTableObs = 10
)

// Options carries per-analysis tuning. The zero value selects the defaults
// for every field.
type Options struct {
	Alpha          float64 // significance level
	MaxLag         int     // granger / cross-correlation / lagged-table window
	Bootstraps     int     // bootstrap replicates for pairwise CIs
	Permutations   int     // permutation replicates for cross-correlation
	Scales         int     // number of wavelet scales (1..Scales)
	SamplingPeriod float64 // spacing between observations, in sample units
}

func (o Options) alpha() float64 {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return DefaultAlpha
	}
	return o.Alpha
}

func (o Options) bootstraps() int {
	if o.Bootstraps <= 0 {
		return DefaultBootstraps
	}
	return o.Bootstraps
}

func (o Options) permutations() int {
	if o.Permutations <= 0 {
		return DefaultPermutations
	}
	return o.Permutations
}

func (o Options) maxLag(def int) int {
	if o.MaxLag <= 0 {
		return def
	}
	return o.MaxLag
}

func (o Options) scales() int {
	if o.Scales <= 0 {
		return DefaultWaveletScales
	}
	return o.Scales
}

func (o Options) samplingPeriod() float64 {
	if o.SamplingPeriod <= 0 {
		return 1
	}
	return o.SamplingPeriod
}

// fingerprint renders the option fields that affect results, for cache keys.
func (o Options) fingerprint() string {
	return fmt.Sprintf("a=%g|l=%d|b=%d|p=%d|s=%d|sp=%g",
		o.alpha(), o.MaxLag, o.bootstraps(), o.permutations(), o.scales(), o.samplingPeriod())
}

// Engine runs analyses. Safe for concurrent use: all mutable state lives in
// the cache behind its lock, and RNG streams are derived per call.
type Engine struct {
	rng ports.RNGPort
	log *internal.Logger

	mu    sync.RWMutex
	cache map[core.Hash]any
}

// New creates an engine. A nil logger falls back to the LOG_LEVEL-driven
// default.
func New(rng ports.RNGPort, logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Engine{
		rng:   rng,
		log:   logger,
		cache: make(map[core.Hash]any),
	}
}

// Analyze dispatches on the method name. Unknown methods fail before any
// computation. Results are memoized by a hash of (method, options, inputs);
// the cache is best effort, so concurrent misses may recompute, but a stored
// result is never mutated.
func (e *Engine) Analyze(method corr.Method, x, y []float64, opts Options) (any, error) {
	if !method.Valid() {
		return nil, core.NewInvalidMethodError(string(method))
	}

	key := core.FingerprintAnalysis(string(method), opts.fingerprint(), x, y)
	if cached, ok := e.lookup(key); ok {
		e.log.Debug("cache hit for %s analysis", method)
		return cached, nil
	}

	var (
		result any
		err    error
	)
	switch method {
	case corr.MethodPearson:
		result, err = e.Pearson(x, y, opts)
	case corr.MethodSpearman:
		result, err = e.Spearman(x, y, opts)
	case corr.MethodGranger:
		result, err = e.Granger(x, y, opts)
	case corr.MethodCrossCorrelation:
		result, err = e.CrossCorrelation(x, y, opts)
	case corr.MethodWavelet:
		result, err = e.WaveletCoherence(x, y, opts)
	}
	if err != nil {
		return nil, err
	}

	e.store(key, result)
	return result, nil
}

func (e *Engine) lookup(key core.Hash) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.cache[key]
	return v, ok
}

func (e *Engine) store(key core.Hash, v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[key] = v
}

// CacheSize reports the number of memoized results.
func (e *Engine) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}
