package vad

import "math"

// Energy engine tuning constants.
const (
	// Default analysis windowing shared by the energy and adaptive engines.
	defaultWindowDuration = 0.030 // 30ms windows
	defaultMinSpeech      = 0.3   // seconds - discard shorter detections
	defaultMinSilence     = 0.5   // seconds - pause length that closes a segment

	// Fixed RMS thresholds per recording quality. Telephone audio sits well
	// below studio levels, so the low-quality preset halves the threshold.
	energyThresholdDefault     = 0.02
	energyThresholdLowQuality  = 0.01
	energyThresholdHighQuality = 0.03
)

// EnergyParams configures the fixed-threshold energy engine.
type EnergyParams struct {
	Threshold      float64 // RMS level at or above which a window is speech
	WindowDuration float64 // seconds per analysis window (50% hop)
	MinSpeech      float64 // seconds - minimum kept segment duration
	MinSilence     float64 // seconds - silence run that closes a segment
}

// DefaultEnergyParams returns the standard preset for normal recordings.
func DefaultEnergyParams() EnergyParams {
	return EnergyParams{
		Threshold:      energyThresholdDefault,
		WindowDuration: defaultWindowDuration,
		MinSpeech:      defaultMinSpeech,
		MinSilence:     defaultMinSilence,
	}
}

// LowQualityEnergyParams returns a preset for noisy or telephone audio,
// trading false positives for fewer missed quiet utterances.
func LowQualityEnergyParams() EnergyParams {
	p := DefaultEnergyParams()
	p.Threshold = energyThresholdLowQuality
	return p
}

// HighQualityEnergyParams returns a preset for clean studio recordings.
func HighQualityEnergyParams() EnergyParams {
	p := DefaultEnergyParams()
	p.Threshold = energyThresholdHighQuality
	return p
}

func (p EnergyParams) detect(samples []float32, sampleRate int) []SpeechSegment {
	win := int(p.WindowDuration * float64(sampleRate))
	if win <= 0 || len(samples) < win {
		return nil
	}
	hop := win / 2
	if hop == 0 {
		hop = 1
	}

	tracker := newSegmentTracker(p.MinSpeech, p.MinSilence, p.WindowDuration)
	for start := 0; start+win <= len(samples); start += hop {
		at := float64(start) / float64(sampleRate)
		rms := windowRMS(samples[start : start+win])
		tracker.observe(at, rms >= p.Threshold)
	}
	return tracker.finish()
}

// windowRMS returns the root-mean-square level of one analysis window.
func windowRMS(window []float32) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, s := range window {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(window)))
}
