package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is an iterative radix-2 Cooley-Tukey transform. It panics unless
// len(data) is a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	out := make([]complex128, n)
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i, v := range data {
		out[reverseBits(i, bits)] = complex(v, 0)
	}

	for size := 2; size <= n; size <<= 1 {
		w := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			tw := complex(1, 0)
			for k := 0; k < size/2; k++ {
				a := out[start+k]
				b := tw * out[start+k+size/2]
				out[start+k] = a + b
				out[start+k+size/2] = a - b
				tw *= w
			}
		}
	}

	return out
}

func reverseBits(i, bits int) int {
	r := 0
	for b := 0; b < bits; b++ {
		r = r<<1 | i&1
		i >>= 1
	}
	return r
}

// PowerSpectrum returns the magnitudes of the non-negative frequency bins.
func PowerSpectrum(data []float64) []float64 {
	bins := FFT(data)
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// PadPow2 returns samples with the mean removed, zero-padded to the next
// power of two.
func PadPow2(samples []float64) []float64 {
	n := 1
	for n < len(samples) {
		n *= 2
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	if len(samples) > 0 {
		mean /= float64(len(samples))
	}

	padded := make([]float64, n)
	for i, v := range samples {
		padded[i] = v - mean
	}
	return padded
}

// DominantFrequency returns the strongest non-zero frequency, in cycles per
// unit time, of samples taken every dt, along with the power spectrum it was
// read from.
func DominantFrequency(samples []float64, dt float64) (float64, []float64) {
	if len(samples) < 2 || dt <= 0 {
		return 0, nil
	}

	padded := PadPow2(samples)
	ps := PowerSpectrum(padded)

	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}

	return float64(maxIdx) / (float64(len(padded)) * dt), ps
}
