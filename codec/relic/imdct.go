// SPDX-License-Identifier: EPL-2.0

package relic

import (
	"math"
	"math/cmplx"
)

// imdct turns n/2 coefficients into n windowed samples through a DCT-IV
// computed with an n/4 point complex FFT.
type imdct struct {
	n      int
	tw     []complex128
	window []float64

	z []complex128
	u []float64
}

func newIMDCT(n int) *imdct {
	m := &imdct{
		n:      n,
		tw:     make([]complex128, n/4),
		window: make([]float64, n),
		z:      make([]complex128, n/4),
		u:      make([]float64, n/2),
	}

	for i := range m.tw {
		m.tw[i] = cmplx.Rect(1, -(float64(i)+0.125)*2*math.Pi/float64(n))
	}
	for i := range m.window {
		m.window[i] = math.Sin(float64(i) * math.Pi / float64(n))
	}

	return m
}

// transform writes n unwindowed samples for the n/2 coefficients of coefs.
func (m *imdct) transform(coefs []float32, out []float64) {
	half := m.n / 2
	quarter := m.n / 4

	for k := range quarter {
		m.z[k] = complex(float64(coefs[2*k]), float64(coefs[half-1-2*k])) * m.tw[k]
	}

	fft(m.z)

	for k := range quarter {
		w := m.z[k] * m.tw[k]
		m.u[2*k] = real(w)
		m.u[half-1-2*k] = -imag(w)
	}

	for i := range quarter {
		out[i] = m.u[i+quarter]
	}
	for i := quarter; i < 3*quarter; i++ {
		out[i] = -m.u[3*quarter-1-i]
	}
	for i := 3 * quarter; i < m.n; i++ {
		out[i] = -m.u[i-3*quarter]
	}
}

// fft is an in-place radix-2 forward transform; len(a) is a power of two.
func fft(a []complex128) {
	n := len(a)

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		step := -2 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := range size / 2 {
				w := cmplx.Rect(1, step*float64(k))
				t := w * a[start+k+size/2]
				a[start+k+size/2] = a[start+k] - t
				a[start+k] += t
			}
		}
	}
}
