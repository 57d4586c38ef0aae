package engine

import (
	"math/rand"
	"testing"

	"heliocorr/domain/core"
	"heliocorr/internal/testkit"
)

func TestWaveletObservationFloor(t *testing.T) {
	src := rand.New(rand.NewSource(71))
	x := testkit.ARSeries(src, 127, 0.3, 1.0)
	y := testkit.ARSeries(src, 127, 0.3, 1.0)

	if _, err := newTestEngine(1).WaveletCoherence(x, y, Options{}); !core.IsInsufficientData(err) {
		t.Fatalf("127 observations should be rejected, got %v", err)
	}
}

func TestWaveletIdenticalSeries(t *testing.T) {
	src := rand.New(rand.NewSource(73))
	x := testkit.ARSeries(src, 128, 0.5, 1.0)

	result, err := newTestEngine(1).WaveletCoherence(x, x, Options{})
	if err != nil {
		t.Fatalf("WaveletCoherence failed: %v", err)
	}
	if result.AvgCoherence < 0.999 {
		t.Errorf("identical series should cohere everywhere, avg %f", result.AvgCoherence)
	}
	if result.MaxCoherence > 1.0000001 {
		t.Errorf("coherence exceeds 1: %f", result.MaxCoherence)
	}
	if len(result.HighCoherence) == 0 {
		t.Error("identical series should produce high-coherence cells")
	}
}

func TestWaveletMatrixShape(t *testing.T) {
	src := rand.New(rand.NewSource(79))
	x := testkit.ARSeries(src, 200, 0.4, 1.0)
	y := testkit.ARSeries(src, 200, 0.4, 1.0)

	result, err := newTestEngine(1).WaveletCoherence(x, y, Options{Scales: 32})
	if err != nil {
		t.Fatalf("WaveletCoherence failed: %v", err)
	}
	if len(result.Scales) != 32 {
		t.Fatalf("expected 32 scales, got %d", len(result.Scales))
	}
	if result.Scales[0] != 1 || result.Scales[31] != 32 {
		t.Errorf("scales should run 1..32, got %g..%g", result.Scales[0], result.Scales[31])
	}
	if len(result.Coherence) != 32 || len(result.Phase) != 32 {
		t.Fatalf("matrix rows: coherence %d, phase %d", len(result.Coherence), len(result.Phase))
	}
	for si := range result.Coherence {
		if len(result.Coherence[si]) != 200 {
			t.Fatalf("scale %d row length %d", si, len(result.Coherence[si]))
		}
		for _, c := range result.Coherence[si] {
			if c < 0 || c > 1 {
				t.Fatalf("coherence out of [0,1]: %f", c)
			}
		}
	}
	if result.NObservations != 200 {
		t.Errorf("expected 200 observations, got %d", result.NObservations)
	}
}

func TestWaveletCommonOscillation(t *testing.T) {
	const n = 256
	const period = 16.0
	src := rand.New(rand.NewSource(83))
	common := testkit.SineSeries(n, period, 0)
	shifted := testkit.SineSeries(n, period, 1.0)

	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = common[i] + 0.5*src.NormFloat64()
		y[i] = shifted[i] + 0.5*src.NormFloat64()
	}

	result, err := newTestEngine(1).WaveletCoherence(x, y, Options{})
	if err != nil {
		t.Fatalf("WaveletCoherence failed: %v", err)
	}
	if result.MaxCoherence < 0.8 {
		t.Errorf("shared oscillation should produce high coherence, max %f", result.MaxCoherence)
	}
	if result.DominantPeriod < 4 || result.DominantPeriod > 48 {
		t.Errorf("dominant period %g far from the shared %g-sample cycle", result.DominantPeriod, period)
	}
}

func TestWaveletDegenerateInput(t *testing.T) {
	x := make([]float64, 128)
	y := make([]float64, 128)
	for i := range x {
		x[i] = float64(i % 7)
		y[i] = 3.0
	}
	if _, err := newTestEngine(1).WaveletCoherence(x, y, Options{}); !core.IsDegenerateInput(err) {
		t.Fatalf("constant series should be rejected, got %v", err)
	}
}
