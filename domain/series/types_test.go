package series

import (
	"testing"
	"time"

	"heliocorr/domain/core"
)

func daily(name core.VariableKey, start time.Time, values []float64) TimeSeries {
	at := make([]core.Timestamp, len(values))
	for i := range values {
		at[i] = core.NewTimestamp(start.AddDate(0, 0, i))
	}
	s, err := New(name, at, values)
	if err != nil {
		panic(err)
	}
	return s
}

func TestNewSortsChronologically(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	at := []core.Timestamp{
		core.NewTimestamp(base.AddDate(0, 0, 2)),
		core.NewTimestamp(base),
		core.NewTimestamp(base.AddDate(0, 0, 1)),
	}
	s, err := New("kp_index", at, []float64{3, 1, 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	values := s.Values()
	for i, want := range []float64{1, 2, 3} {
		if values[i] != want {
			t.Fatalf("not chronological: %v", values)
		}
	}
}

func TestNewRejectsMismatchedLengths(t *testing.T) {
	_, err := New("kp_index", []core.Timestamp{core.Now()}, []float64{1, 2})
	if !core.IsDegenerateInput(err) {
		t.Fatalf("expected degenerate input error, got %v", err)
	}
}

func TestAlignOnDatesInnerJoin(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a := daily("kp_index", base, []float64{1, 2, 3, 4, 5})
	b := daily("anxiety", base.AddDate(0, 0, 2), []float64{30, 40, 50, 60, 70})

	x, y, n := AlignOnDates(a, b)
	if n != 3 {
		t.Fatalf("expected 3 shared days, got %d", n)
	}
	wantX := []float64{3, 4, 5}
	wantY := []float64{30, 40, 50}
	for i := 0; i < n; i++ {
		if x[i] != wantX[i] || y[i] != wantY[i] {
			t.Fatalf("join wrong: %v %v", x, y)
		}
	}
}

func TestAlignOnDatesNoOverlap(t *testing.T) {
	a := daily("kp_index", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2})
	b := daily("anxiety", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), []float64{3, 4})

	_, _, n := AlignOnDates(a, b)
	if n != 0 {
		t.Fatalf("expected empty join, got %d", n)
	}
}

func TestAlignOnDatesDuplicateDateLastWins(t *testing.T) {
	day := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	at := []core.Timestamp{
		core.NewTimestamp(day),
		core.NewTimestamp(day.Add(2 * time.Hour)),
	}
	a, err := New("kp_index", at, []float64{1, 9})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b := daily("anxiety", day, []float64{5})

	x, y, n := AlignOnDates(a, b)
	if n != 1 || x[0] != 9 || y[0] != 5 {
		t.Fatalf("duplicate handling wrong: n=%d x=%v y=%v", n, x, y)
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	s := daily("kp_index", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2, 3})
	v := s.Values()
	v[0] = 99
	if s.Points[0].Value != 1 {
		t.Fatal("Values exposed internal storage")
	}
}
