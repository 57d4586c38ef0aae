package engine

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"heliocorr/adapters/stats/temporal"
	"heliocorr/domain/corr"
)

const (
	// Morlet mother wavelet center frequency.
	morletOmega0 = 6.0
	// Coherence above this marks a (scale, time) cell as high-coherence.
	highCoherenceThreshold = 0.7
)

// WaveletCoherence computes squared wavelet coherence between two series:
// z-normalize, continuous Morlet transform of each, then smoothed
// cross-spectrum magnitude over smoothed auto-spectra. Without smoothing the
// ratio is identically 1 at every cell, so spectra are averaged over a
// scale-proportional time window before the ratio is taken.
func (e *Engine) WaveletCoherence(x, y []float64, opts Options) (corr.CoherenceResult, error) {
	xc, yc, err := temporal.CleanPaired(x, y)
	if err != nil {
		return corr.CoherenceResult{}, err
	}
	n := len(xc)
	if err := temporal.RequireMin(string(corr.MethodWavelet), n, minWaveletObs); err != nil {
		return corr.CoherenceResult{}, err
	}

	dt := opts.samplingPeriod()
	numScales := opts.scales()
	scales := make([]float64, numScales)
	for i := range scales {
		scales[i] = float64(i + 1)
	}

	wx := cwtMorlet(zNormalize(xc), scales, dt)
	wy := cwtMorlet(zNormalize(yc), scales, dt)

	coherence := make([][]float64, numScales)
	phase := make([][]float64, numScales)
	var high []corr.CoherenceCell
	sumCoh := 0.0
	maxCoh := 0.0
	scaleAvg := make([]float64, numScales)

	crossRe := make([]float64, n)
	crossIm := make([]float64, n)
	powerX := make([]float64, n)
	powerY := make([]float64, n)
	for si := range scales {
		for t := 0; t < n; t++ {
			cross := wx[si][t] * cmplx.Conj(wy[si][t])
			crossRe[t] = real(cross)
			crossIm[t] = imag(cross)
			powerX[t] = real(wx[si][t] * cmplx.Conj(wx[si][t]))
			powerY[t] = real(wy[si][t] * cmplx.Conj(wy[si][t]))
		}

		window := smoothWindow(scales[si], dt, n)
		sRe := smoothBoxcar(crossRe, window)
		sIm := smoothBoxcar(crossIm, window)
		sXX := smoothBoxcar(powerX, window)
		sYY := smoothBoxcar(powerY, window)

		cohRow := make([]float64, n)
		phaseRow := make([]float64, n)
		rowSum := 0.0
		for t := 0; t < n; t++ {
			denom := sXX[t] * sYY[t]
			c := 0.0
			if denom > 0 {
				c = (sRe[t]*sRe[t] + sIm[t]*sIm[t]) / denom
			}
			if c > 1 {
				c = 1
			}
			cohRow[t] = c
			phaseRow[t] = math.Atan2(sIm[t], sRe[t])
			rowSum += c
			sumCoh += c
			if c > maxCoh {
				maxCoh = c
			}
			if c > highCoherenceThreshold {
				high = append(high, corr.CoherenceCell{ScaleIndex: si, TimeIndex: t, Coherence: c})
			}
		}
		coherence[si] = cohRow
		phase[si] = phaseRow
		scaleAvg[si] = rowSum / float64(n)
	}

	dominantIdx := 0
	for si := range scaleAvg {
		if scaleAvg[si] > scaleAvg[dominantIdx] {
			dominantIdx = si
		}
	}
	dominantPeriod := scales[dominantIdx] * dt
	avgCoh := sumCoh / float64(numScales*n)

	return corr.CoherenceResult{
		Method:         corr.MethodWavelet,
		Scales:         scales,
		Coherence:      coherence,
		Phase:          phase,
		DominantPeriod: dominantPeriod,
		AvgCoherence:   avgCoh,
		MaxCoherence:   maxCoh,
		HighCoherence:  high,
		NObservations:  n,
		Interpretation: corr.CoherenceNarrative(avgCoh, maxCoh, dominantPeriod),
	}, nil
}

// cwtMorlet computes the continuous wavelet transform via FFT convolution:
// one forward transform of the zero-padded signal, then one inverse per scale
// against the frequency-domain Morlet daughter.
func cwtMorlet(xn []float64, scales []float64, dt float64) [][]complex128 {
	n := len(xn)
	npad := nextPow2(n)
	fft := fourier.NewCmplxFFT(npad)

	seq := make([]complex128, npad)
	for i, v := range xn {
		seq[i] = complex(v, 0)
	}
	spectrum := make([]complex128, npad)
	fft.Coefficients(spectrum, seq)

	omega := make([]float64, npad)
	for k := range omega {
		if k <= npad/2 {
			omega[k] = 2 * math.Pi * float64(k) / (float64(npad) * dt)
		} else {
			omega[k] = -2 * math.Pi * float64(npad-k) / (float64(npad) * dt)
		}
	}

	out := make([][]complex128, len(scales))
	product := make([]complex128, npad)
	inverse := make([]complex128, npad)
	for si, s := range scales {
		// Torrence & Compo normalization: unit energy at every scale
		norm := math.Sqrt(2*math.Pi*s/dt) * math.Pow(math.Pi, -0.25)
		for k := range product {
			if omega[k] > 0 {
				d := s*omega[k] - morletOmega0
				product[k] = spectrum[k] * complex(norm*math.Exp(-d*d/2), 0)
			} else {
				product[k] = 0
			}
		}
		fft.Sequence(inverse, product)
		row := make([]complex128, n)
		scaleBack := complex(1/float64(npad), 0)
		for t := 0; t < n; t++ {
			row[t] = inverse[t] * scaleBack
		}
		out[si] = row
	}
	return out
}

func zNormalize(vals []float64) []float64 {
	n := float64(len(vals))
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= n
	variance := 0.0
	for _, v := range vals {
		d := v - mean
		variance += d * d
	}
	variance /= n
	sd := math.Sqrt(variance)

	out := make([]float64, len(vals))
	for i, v := range vals {
		if sd == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - mean) / sd
	}
	return out
}

// smoothWindow sizes the time-smoothing boxcar to the scale: wider scales get
// wider windows, clamped to the series length.
func smoothWindow(scale, dt float64, n int) int {
	w := int(math.Round(scale/dt))*2 + 1
	if w < 3 {
		w = 3
	}
	if w > n {
		w = n
	}
	return w
}

// smoothBoxcar is a centered moving average with shrinking edges.
func smoothBoxcar(vals []float64, window int) []float64 {
	n := len(vals)
	half := window / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
