package vad

import (
	"math"
	"sort"
)

// Adaptive engine tuning constants.
const (
	// Energy threshold = mean(rms) + multiplier * stddev(rms). Lower
	// multipliers sit the threshold closer to the noise floor and so
	// detect more, shorter segments.
	adaptiveMultiplierDefault    = 2.0
	adaptiveMultiplierLowQuality = 1.5
	adaptiveMultiplierAggressive = 1.2

	// Weight of the ZCR vote in the blended score. Higher weights lean on
	// the voiced/unvoiced cue, which helps when energy alone is unreliable.
	zcrWeightDefault    = 0.3
	zcrWeightLowQuality = 0.4
	zcrWeightAggressive = 0.5

	// ZCR threshold = median(zcr) * this factor across the whole signal.
	zcrMedianFactor = 1.2

	// A window is speech when the weighted energy+ZCR score clears this.
	adaptiveScoreThreshold = 0.5
)

// AdaptiveParams configures the energy + zero-crossing-rate engine. Both
// thresholds are derived from whole-signal statistics at detection time, so
// the engine self-calibrates to the recording's level and noise character.
type AdaptiveParams struct {
	ThresholdMultiplier float64 // stddev multiplier for the energy threshold
	ZCRWeight           float64 // [0,1] weight of the ZCR vote in the score
	WindowDuration      float64 // seconds per analysis window (50% hop)
	MinSpeech           float64 // seconds - minimum kept segment duration
	MinSilence          float64 // seconds - silence run that closes a segment
}

// DefaultAdaptiveParams returns the standard preset.
func DefaultAdaptiveParams() AdaptiveParams {
	return AdaptiveParams{
		ThresholdMultiplier: adaptiveMultiplierDefault,
		ZCRWeight:           zcrWeightDefault,
		WindowDuration:      defaultWindowDuration,
		MinSpeech:           defaultMinSpeech,
		MinSilence:          defaultMinSilence,
	}
}

// LowQualityAdaptiveParams returns a more sensitive preset for noisy audio.
func LowQualityAdaptiveParams() AdaptiveParams {
	p := DefaultAdaptiveParams()
	p.ThresholdMultiplier = adaptiveMultiplierLowQuality
	p.ZCRWeight = zcrWeightLowQuality
	return p
}

// AggressiveAdaptiveParams returns the most sensitive preset. Expect more and
// shorter segments; pair with a post-VAD merge to reassemble turns.
func AggressiveAdaptiveParams() AdaptiveParams {
	p := DefaultAdaptiveParams()
	p.ThresholdMultiplier = adaptiveMultiplierAggressive
	p.ZCRWeight = zcrWeightAggressive
	return p
}

func (p AdaptiveParams) detect(samples []float32, sampleRate int) []SpeechSegment {
	win := int(p.WindowDuration * float64(sampleRate))
	if win <= 0 || len(samples) < win {
		return nil
	}
	hop := win / 2
	if hop == 0 {
		hop = 1
	}

	// Pass 1: per-window metrics over the whole signal.
	var energies, zcrs []float64
	for start := 0; start+win <= len(samples); start += hop {
		window := samples[start : start+win]
		energies = append(energies, windowRMS(window))
		zcrs = append(zcrs, zeroCrossingRate(window))
	}
	if len(energies) == 0 {
		return nil
	}

	energyThreshold := mean(energies) + p.ThresholdMultiplier*stddev(energies)
	zcrThreshold := median(zcrs) * zcrMedianFactor

	// Pass 2: blended vote per window through the shared boundary tracker.
	tracker := newSegmentTracker(p.MinSpeech, p.MinSilence, p.WindowDuration)
	for i := range energies {
		at := float64(i*hop) / float64(sampleRate)

		var energyVote, zcrVote float64
		if energies[i] >= energyThreshold {
			energyVote = 1
		}
		if zcrs[i] >= zcrThreshold {
			zcrVote = 1
		}
		score := energyVote*(1-p.ZCRWeight) + zcrVote*p.ZCRWeight
		tracker.observe(at, score > adaptiveScoreThreshold)
	}
	return tracker.finish()
}

// zeroCrossingRate returns the fraction of adjacent sample pairs in the
// window whose signs differ. Voiced speech sits low, fricatives high.
func zeroCrossingRate(window []float32) float64 {
	if len(window) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(window); i++ {
		if (window[i-1] >= 0) != (window[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(window)-1)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
