package observables

import (
	"math"
	"math/cmplx"
)

// Autocorrelation returns the normalized autocorrelation of a series up
// to maxLag (inclusive), acf[0] == 1. Computed through the Wiener-
// Khinchin route: FFT of the mean-subtracted, zero-padded series, power
// spectrum, inverse FFT. Used on the energy trace to judge how many
// leading steps to discard as burn-in.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		maxLag = 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	// Pad to at least 2n so the circular convolution does not wrap.
	size := 1
	for size < 2*n {
		size *= 2
	}
	data := make([]complex128, size)
	for i, v := range series {
		data[i] = complex(v-mean, 0)
	}

	freq := fft(data)
	for i, c := range freq {
		freq[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	corr := ifft(freq)

	acf := make([]float64, maxLag+1)
	norm := real(corr[0])
	if norm == 0 {
		// Constant series: perfectly correlated at every lag.
		for i := range acf {
			acf[i] = 1
		}
		return acf
	}
	for lag := 0; lag <= maxLag; lag++ {
		acf[lag] = real(corr[lag]) / norm
	}
	return acf
}

// IntegratedTime returns the integrated autocorrelation time
// 1 + 2*sum(acf[k]), truncating the sum at the first non-positive
// coefficient to keep the noisy tail out.
func IntegratedTime(acf []float64) float64 {
	tau := 1.0
	for _, c := range acf[1:] {
		if c <= 0 {
			break
		}
		tau += 2 * c
	}
	return tau
}

func fft(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	fe := fft(even)
	fo := fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = fe[k] + w*fo[k]
		out[k+n/2] = fe[k] - w*fo[k]
	}
	return out
}

func ifft(x []complex128) []complex128 {
	n := len(x)
	conj := make([]complex128, n)
	for i, c := range x {
		conj[i] = cmplx.Conj(c)
	}
	out := fft(conj)
	for i, c := range out {
		out[i] = cmplx.Conj(c) / complex(float64(n), 0)
	}
	return out
}
