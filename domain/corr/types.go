package corr

// Method names an analysis the engine knows how to run. The set is closed;
// anything else fails dispatch before touching the data.
type Method string

const (
	MethodPearson          Method = "pearson"
	MethodSpearman         Method = "spearman"
	MethodGranger          Method = "granger"
	MethodCrossCorrelation Method = "cross_correlation"
	MethodWavelet          Method = "wavelet"
)

// Methods returns every supported method, in dispatch order.
func Methods() []Method {
	return []Method{
		MethodPearson,
		MethodSpearman,
		MethodGranger,
		MethodCrossCorrelation,
		MethodWavelet,
	}
}

// Valid reports whether m belongs to the closed method set.
func (m Method) Valid() bool {
	switch m {
	case MethodPearson, MethodSpearman, MethodGranger, MethodCrossCorrelation, MethodWavelet:
		return true
	}
	return false
}

// CorrelationResult is the outcome of a pairwise (Pearson/Spearman) analysis.
type CorrelationResult struct {
	Method         Method  `json:"method"`
	Coefficient    float64 `json:"correlation_coefficient"`
	PValue         float64 `json:"p_value"`
	CILower        float64 `json:"ci_lower"`
	CIUpper        float64 `json:"ci_upper"`
	NObservations  int     `json:"n_observations"`
	Significant    bool    `json:"is_significant"`
	Strength       string  `json:"strength"`
	EffectSize     string  `json:"effect_size"`
	Interpretation string  `json:"interpretation"`
}

// LagTest is one row of the Granger per-lag table.
type LagTest struct {
	Lag         int     `json:"lag"`
	FStatistic  float64 `json:"f_statistic"`
	ChiSquared  float64 `json:"chi2_statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"is_significant"`
}

// CausalityResult is the outcome of a Granger causality analysis.
type CausalityResult struct {
	Method         Method    `json:"method"`
	TestUsed       string    `json:"test_used"`
	MaxLagTested   int       `json:"max_lag_tested"`
	BestLag        int       `json:"best_lag"`
	BestPValue     float64   `json:"best_p_value"`
	BestFStatistic float64   `json:"best_f_statistic"`
	Significant    bool      `json:"is_significant"`
	Lags           []LagTest `json:"lags"`
	NObservations  int       `json:"n_observations"`
	Verdict        string    `json:"verdict"`
}

// CrossCorrelationResult is the outcome of the windowed lag scan with
// permutation significance. Lags[i] pairs with Correlations[i]; a negative
// optimal lag means the first series leads.
type CrossCorrelationResult struct {
	Method         Method    `json:"method"`
	OptimalLag     int       `json:"optimal_lag"`
	MaxCorrelation float64   `json:"max_correlation"`
	PValue         float64   `json:"p_value"`
	Significant    bool      `json:"is_significant"`
	Lags           []int     `json:"lags"`
	Correlations   []float64 `json:"correlations"`
	NObservations  int       `json:"n_observations"`
	Interpretation string    `json:"interpretation"`
}

// LaggedCorrelation is one row of the shift-and-correlate table.
type LaggedCorrelation struct {
	Lag           int     `json:"lag"`
	Description   string  `json:"description"`
	Correlation   float64 `json:"correlation"`
	PValue        float64 `json:"p_value"`
	NObservations int     `json:"n_observations"`
	Significant   bool    `json:"is_significant"`
}

// CoherenceCell flags one (scale, time) point whose coherence clears the
// high-coherence threshold.
type CoherenceCell struct {
	ScaleIndex int     `json:"scale_index"`
	TimeIndex  int     `json:"time_index"`
	Coherence  float64 `json:"coherence"`
}

// CoherenceResult is the outcome of a wavelet coherence analysis. Coherence
// and Phase are scale-major matrices: [len(Scales)][n] with values in [0,1]
// and radians respectively.
type CoherenceResult struct {
	Method         Method          `json:"method"`
	Scales         []float64       `json:"scales"`
	Coherence      [][]float64     `json:"coherence"`
	Phase          [][]float64     `json:"phase"`
	DominantPeriod float64         `json:"dominant_period"`
	AvgCoherence   float64         `json:"avg_coherence"`
	MaxCoherence   float64         `json:"max_coherence"`
	HighCoherence  []CoherenceCell `json:"high_coherence"`
	NObservations  int             `json:"n_observations"`
	Interpretation string          `json:"interpretation"`
}
