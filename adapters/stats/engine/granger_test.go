package engine

import (
	"math/rand"
	"testing"

	"heliocorr/domain/core"
	"heliocorr/internal/testkit"
)

func TestGrangerObservationFloor(t *testing.T) {
	src := rand.New(rand.NewSource(11))
	x := testkit.ARSeries(src, 35, 0.5, 1.0)
	y := testkit.ARSeries(src, 35, 0.5, 1.0)

	if _, err := newTestEngine(1).Granger(x, y, Options{}); err != nil {
		t.Fatalf("35 observations should satisfy the default 5*7 floor: %v", err)
	}
	if _, err := newTestEngine(1).Granger(x[:34], y[:34], Options{}); !core.IsInsufficientData(err) {
		t.Fatalf("34 observations should be rejected, got %v", err)
	}
}

func TestGrangerPerLagTable(t *testing.T) {
	src := rand.New(rand.NewSource(23))
	x := testkit.ARSeries(src, 120, 0.6, 1.0)
	y := testkit.ARSeries(src, 120, 0.6, 1.0)

	result, err := newTestEngine(1).Granger(x, y, Options{MaxLag: 4})
	if err != nil {
		t.Fatalf("Granger failed: %v", err)
	}
	if result.MaxLagTested != 4 {
		t.Errorf("expected max lag 4, got %d", result.MaxLagTested)
	}
	if len(result.Lags) != 4 {
		t.Fatalf("expected 4 lag rows, got %d", len(result.Lags))
	}
	for i, row := range result.Lags {
		if row.Lag != i+1 {
			t.Errorf("row %d has lag %d", i, row.Lag)
		}
		if row.PValue < 0 || row.PValue > 1 {
			t.Errorf("lag %d p-value out of range: %g", row.Lag, row.PValue)
		}
		if row.FStatistic < 0 {
			t.Errorf("lag %d F statistic negative: %g", row.Lag, row.FStatistic)
		}
	}
	if result.TestUsed != "ssr_chi2test" {
		t.Errorf("unexpected test name %q", result.TestUsed)
	}
	if result.BestLag < 1 || result.BestLag > 4 {
		t.Errorf("best lag out of window: %d", result.BestLag)
	}
}

func TestGrangerDetectsPlantedCausality(t *testing.T) {
	src := rand.New(rand.NewSource(5))
	// white-noise driver so lags below the planted one carry no signal
	x := testkit.ARSeries(src, 300, 0.0, 1.0)
	y := testkit.LaggedResponse(x, 2, 1.0, 0.2, src)

	result, err := newTestEngine(1).Granger(x, y, Options{MaxLag: 5})
	if err != nil {
		t.Fatalf("Granger failed: %v", err)
	}
	if !result.Significant {
		t.Fatal("planted causal structure should be significant")
	}
	if result.BestPValue > 1e-6 {
		t.Errorf("expected tiny best p, got %g", result.BestPValue)
	}
	if result.BestLag < 2 {
		t.Errorf("best lag should be at or beyond the planted delay, got %d", result.BestLag)
	}
}

func TestGrangerNoReverseCausality(t *testing.T) {
	src := rand.New(rand.NewSource(5))
	x := testkit.ARSeries(src, 300, 0.0, 1.0)
	y := testkit.LaggedResponse(x, 2, 1.0, 0.2, src)

	// y -> x has no predictive content beyond chance
	result, err := newTestEngine(1).Granger(y, x, Options{MaxLag: 5})
	if err != nil {
		t.Fatalf("Granger failed: %v", err)
	}
	if result.BestPValue < 1e-4 {
		t.Errorf("reverse direction should not be overwhelmingly significant, got p=%g", result.BestPValue)
	}
}

func TestGrangerCollinearPredictorsFail(t *testing.T) {
	src := rand.New(rand.NewSource(31))
	x := testkit.ARSeries(src, 100, 0.5, 1.0)

	// identical series duplicate every lag column in the unrestricted design
	_, err := newTestEngine(1).Granger(x, x, Options{MaxLag: 3})
	if !core.IsComputationError(err) {
		t.Fatalf("collinear design should surface a computation error, got %v", err)
	}
}
