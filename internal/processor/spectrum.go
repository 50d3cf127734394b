package processor

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const (
	minSpectrumFrames = 256
	maxSpectrumFrames = 65536
)

// DominantFrequency estimates the strongest frequency in samples, in Hz.
//
// It removes the mean, transforms the largest power-of-two prefix (at most
// 65536 frames) under a Hann window and refines the peak bin by parabolic
// interpolation of the log magnitudes. Returns 0 when the prefix is shorter than 256 frames or the
// spectrum holds no energy above DC.
func DominantFrequency(samples []float32, sampleRate int) (float64, error) {
	n := spectrumSize(len(samples))
	if n < minSpectrumFrames || sampleRate <= 0 {
		return 0, nil
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	frames := make([]float64, n)
	var mean float64
	for i := range frames {
		v := float64(samples[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		frames[i] = v
		mean += v
	}
	mean /= float64(n)

	in := make([]complex128, n)
	for i, v := range frames {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		in[i] = complex((v-mean)*w, 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("spectrum forward fft: %w", err)
	}

	half := n / 2
	power := make([]float64, half+1)
	peakBin := 0
	peakPower := 0.0
	for k := 0; k <= half; k++ {
		re, im := real(out[k]), imag(out[k])
		power[k] = re*re + im*im
		if k > 0 && power[k] > peakPower {
			peakPower = power[k]
			peakBin = k
		}
	}
	if peakBin == 0 || peakPower < 1e-12 {
		return 0, nil
	}

	bin := float64(peakBin)
	if peakBin > 1 && peakBin < half {
		a := math.Log(power[peakBin-1] + 1e-30)
		b := math.Log(power[peakBin] + 1e-30)
		c := math.Log(power[peakBin+1] + 1e-30)
		if denom := a - 2*b + c; denom != 0 {
			bin += 0.5 * (a - c) / denom
		}
	}

	return bin * float64(sampleRate) / float64(n), nil
}

// spectrumSize returns the largest power of two <= length, capped at
// maxSpectrumFrames.
func spectrumSize(length int) int {
	if length <= 0 {
		return 0
	}
	n := 1
	for n*2 <= length && n*2 <= maxSpectrumFrames {
		n *= 2
	}
	return n
}
