package vad

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectral engine tuning constants.
const (
	defaultFFTSize = 512

	// Speech frequency bands. Telephony is band-limited to roughly
	// 300-3400 Hz; wideband speech keeps fundamentals and sibilance.
	telephoneBandLow  = 300.0
	telephoneBandHigh = 3400.0
	widebandBandLow   = 80.0
	widebandBandHigh  = 8000.0

	// Threshold = max(median(ratio) * this factor, preset floor). The
	// median tracks the recording's own band-energy distribution; the
	// floor stops near-silent recordings from classifying everything.
	spectralMedianFactor = 0.8

	spectralFloorDefault   = 0.3
	spectralFloorTelephone = 0.25
	spectralFloorWideband  = 0.4
)

// SpectralParams configures the FFT band-energy engine. Each Hann-windowed
// frame is classified by the ratio of energy inside the speech band to total
// spectral energy, against a threshold adapted to the whole signal.
type SpectralParams struct {
	FFTSize        int     // frame size in samples, 50% hop
	BandLow        float64 // Hz - speech band lower edge
	BandHigh       float64 // Hz - speech band upper edge
	ThresholdFloor float64 // minimum band-energy ratio counted as speech
	MinSpeech      float64 // seconds - minimum kept segment duration
	MinSilence     float64 // seconds - silence run that closes a segment
}

// DefaultSpectralParams returns the standard preset (telephone band edges
// with a conservative floor).
func DefaultSpectralParams() SpectralParams {
	return SpectralParams{
		FFTSize:        defaultFFTSize,
		BandLow:        telephoneBandLow,
		BandHigh:       telephoneBandHigh,
		ThresholdFloor: spectralFloorDefault,
		MinSpeech:      defaultMinSpeech,
		MinSilence:     defaultMinSilence,
	}
}

// TelephoneSpectralParams returns the preset recommended for two-party call
// recordings: band-limited spectrum, lower floor for compressed audio.
func TelephoneSpectralParams() SpectralParams {
	p := DefaultSpectralParams()
	p.ThresholdFloor = spectralFloorTelephone
	return p
}

// WidebandSpectralParams returns the preset for full-bandwidth recordings.
func WidebandSpectralParams() SpectralParams {
	p := DefaultSpectralParams()
	p.BandLow = widebandBandLow
	p.BandHigh = widebandBandHigh
	p.ThresholdFloor = spectralFloorWideband
	return p
}

func (p SpectralParams) detect(samples []float32, sampleRate int) []SpeechSegment {
	win := p.FFTSize
	if win <= 0 || len(samples) < win {
		return nil
	}
	hop := win / 2
	windowDur := float64(win) / float64(sampleRate)

	fft := fourier.NewFFT(win)
	hann := hannWindow(win)
	frame := make([]float64, win)
	coeffs := make([]complex128, win/2+1)

	loBin, hiBin, ok := bandBins(p.BandLow, p.BandHigh, sampleRate, win)

	// Pass 1: band-energy ratio per frame.
	var ratios []float64
	for start := 0; start+win <= len(samples); start += hop {
		for i := 0; i < win; i++ {
			frame[i] = float64(samples[start+i]) * hann[i]
		}
		coeffs = fft.Coefficients(coeffs, frame)

		var total, band float64
		for bin, c := range coeffs {
			mag := cmplx.Abs(c)
			energy := mag * mag
			total += energy
			if ok && bin >= loBin && bin <= hiBin {
				band += energy
			}
		}
		if total <= 0 {
			ratios = append(ratios, 0)
			continue
		}
		ratios = append(ratios, band/total)
	}
	if len(ratios) == 0 {
		return nil
	}

	threshold := math.Max(median(ratios)*spectralMedianFactor, p.ThresholdFloor)

	// Pass 2: classify against the adaptive threshold.
	tracker := newSegmentTracker(p.MinSpeech, p.MinSilence, windowDur)
	for i, ratio := range ratios {
		at := float64(i*hop) / float64(sampleRate)
		tracker.observe(at, ratio >= threshold)
	}
	return tracker.finish()
}

// bandBins maps a frequency band in Hz to FFT bin indices, clamped to the
// valid coefficient range. An inverted or fully out-of-range band reports
// ok=false and is treated as zero band energy by the caller.
func bandBins(lowHz, highHz float64, sampleRate, fftSize int) (lo, hi int, ok bool) {
	if highHz <= lowHz || sampleRate <= 0 {
		return 0, 0, false
	}
	binWidth := float64(sampleRate) / float64(fftSize)
	lo = int(lowHz / binWidth)
	hi = int(highHz / binWidth)

	maxBin := fftSize / 2
	if lo < 0 {
		lo = 0
	}
	if hi > maxBin {
		hi = maxBin
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// hannWindow returns an n-point Hann window.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
