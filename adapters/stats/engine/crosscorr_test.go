package engine

import (
	"math"
	"math/rand"
	"testing"

	"heliocorr/domain/core"
	"heliocorr/internal/testkit"
)

// shiftedPair builds y as a k-step delayed copy of white noise x, so x leads
// y by exactly k.
func shiftedPair(seed int64, n, k int) (x, y []float64) {
	src := rand.New(rand.NewSource(seed))
	x = testkit.ARSeries(src, n, 0.0, 1.0)
	y = make([]float64, n)
	for i := range y {
		if i < k {
			y[i] = src.NormFloat64()
			continue
		}
		y[i] = x[i-k]
	}
	return x, y
}

func TestCrossCorrelationRecoversShift(t *testing.T) {
	const k = 5
	x, y := shiftedPair(17, 200, k)

	result, err := newTestEngine(3).CrossCorrelation(x, y, Options{})
	if err != nil {
		t.Fatalf("CrossCorrelation failed: %v", err)
	}
	// x leads, so the optimal lag is negative with magnitude k
	if result.OptimalLag != -k {
		t.Fatalf("expected optimal lag %d, got %d", -k, result.OptimalLag)
	}
	if result.MaxCorrelation < 0.8 {
		t.Errorf("expected strong correlation at the shift, got %f", result.MaxCorrelation)
	}
	if !result.Significant {
		t.Errorf("shifted copy should be significant, p=%g", result.PValue)
	}
}

func TestCrossCorrelationWindowShape(t *testing.T) {
	x, y := shiftedPair(29, 150, 3)

	result, err := newTestEngine(3).CrossCorrelation(x, y, Options{MaxLag: 12})
	if err != nil {
		t.Fatalf("CrossCorrelation failed: %v", err)
	}
	if len(result.Lags) != 25 || len(result.Correlations) != 25 {
		t.Fatalf("expected 25 lags for window 12, got %d/%d", len(result.Lags), len(result.Correlations))
	}
	if result.Lags[0] != -12 || result.Lags[24] != 12 {
		t.Errorf("lag window bounds wrong: %d..%d", result.Lags[0], result.Lags[24])
	}
	for i, v := range result.Correlations {
		if math.Abs(v) > 1.0000001 {
			t.Errorf("correlation at lag %d out of range: %f", result.Lags[i], v)
		}
	}
}

func TestCrossCorrelationDeterministic(t *testing.T) {
	x, y := shiftedPair(41, 120, 4)

	first, err := newTestEngine(9).CrossCorrelation(x, y, Options{})
	if err != nil {
		t.Fatalf("CrossCorrelation failed: %v", err)
	}
	second, err := newTestEngine(9).CrossCorrelation(x, y, Options{})
	if err != nil {
		t.Fatalf("CrossCorrelation failed: %v", err)
	}
	if first.PValue != second.PValue {
		t.Errorf("permutation p-value not reproducible: %g vs %g", first.PValue, second.PValue)
	}
	if first.OptimalLag != second.OptimalLag {
		t.Errorf("optimal lag not reproducible: %d vs %d", first.OptimalLag, second.OptimalLag)
	}
}

func TestCrossCorrelationObservationFloor(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 2}
	y := []float64{2, 1, 3, 5, 4, 7, 6, 8, 3}
	if _, err := newTestEngine(1).CrossCorrelation(x, y, Options{}); !core.IsInsufficientData(err) {
		t.Fatalf("9 observations should be rejected, got %v", err)
	}
}

func TestTimeLaggedCorrelationTable(t *testing.T) {
	const k = 5
	x, y := shiftedPair(53, 200, k)

	rows, err := newTestEngine(1).TimeLaggedCorrelation(x, y, Options{})
	if err != nil {
		t.Fatalf("TimeLaggedCorrelation failed: %v", err)
	}
	// n=200 leaves >=10 overlapping points at every lag in the default window
	if len(rows) != 29 {
		t.Fatalf("expected 29 rows for the default 14-lag window, got %d", len(rows))
	}

	foundShift := false
	for _, row := range rows {
		if row.NObservations != 200-absInt(row.Lag) {
			t.Errorf("lag %d overlap wrong: %d", row.Lag, row.NObservations)
		}
		if row.Lag == -k {
			foundShift = true
			if row.Correlation < 0.8 {
				t.Errorf("expected strong correlation at lag %d, got %f", -k, row.Correlation)
			}
			if !row.Significant {
				t.Errorf("planted shift row should be significant, p=%g", row.PValue)
			}
		}
	}
	if !foundShift {
		t.Fatal("planted shift lag missing from table")
	}
}

func TestTimeLaggedCorrelationOmitsThinRows(t *testing.T) {
	src := rand.New(rand.NewSource(61))
	x := testkit.ARSeries(src, 15, 0.0, 1.0)
	y := testkit.ARSeries(src, 15, 0.0, 1.0)

	rows, err := newTestEngine(1).TimeLaggedCorrelation(x, y, Options{})
	if err != nil {
		t.Fatalf("TimeLaggedCorrelation failed: %v", err)
	}
	// only |lag| <= 5 keeps 10+ overlapping observations
	for _, row := range rows {
		if absInt(row.Lag) > 5 {
			t.Errorf("row at lag %d should have been omitted (n=%d)", row.Lag, row.NObservations)
		}
	}
	if len(rows) != 11 {
		t.Errorf("expected 11 rows, got %d", len(rows))
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
