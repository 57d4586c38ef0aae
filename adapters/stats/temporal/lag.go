package temporal

// LaggedOverlap returns the overlapping windows of x and y at the given lag.
// The sign convention is shared by every lag scan in the engine: negative lag
// pairs earlier x with later y (the first series leads), positive lag pairs
// earlier y with later x (the second series leads), zero is contemporaneous.
// The returned slices alias the inputs; callers must not mutate them.
func LaggedOverlap(x, y []float64, lag int) (xs, ys []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	abs := lag
	if abs < 0 {
		abs = -abs
	}
	if abs >= n {
		return nil, nil
	}
	if lag < 0 {
		return x[:n-abs], y[abs:]
	}
	return x[abs:], y[:n-abs]
}

// OverlapLen is the number of paired observations available at a lag.
func OverlapLen(n, lag int) int {
	if lag < 0 {
		lag = -lag
	}
	if lag >= n {
		return 0
	}
	return n - lag
}
