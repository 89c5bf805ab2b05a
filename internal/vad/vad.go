// Package vad implements voice activity detection over mono float PCM.
//
// Three interchangeable engines are provided: energy (fixed RMS threshold),
// adaptive (blended energy + zero-crossing rate with signal-derived
// thresholds), and spectral (FFT speech-band energy ratio). All engines share
// the same segment boundary logic and produce non-overlapping, time-sorted
// speech segments. Detection is a pure function of its inputs: same samples,
// same parameters, same segments.
package vad

// SpeechSegment is a contiguous time interval classified as speech.
// Times are in seconds from the start of the signal.
type SpeechSegment struct {
	Start float64
	End   float64
}

// Duration returns the segment length in seconds.
func (s SpeechSegment) Duration() float64 {
	return s.End - s.Start
}

// engineKind discriminates the Algorithm sum type.
type engineKind int

const (
	kindEnergy engineKind = iota
	kindAdaptive
	kindSpectral
)

// Algorithm selects a VAD engine together with its parameters. Construct one
// with Energy, Adaptive or Spectral; the zero value is an energy engine with
// zero thresholds and is not useful.
type Algorithm struct {
	kind     engineKind
	energy   EnergyParams
	adaptive AdaptiveParams
	spectral SpectralParams
}

// Energy returns an Algorithm using the fixed-threshold energy engine.
func Energy(p EnergyParams) Algorithm {
	return Algorithm{kind: kindEnergy, energy: p}
}

// Adaptive returns an Algorithm using the energy + ZCR engine with
// signal-derived thresholds.
func Adaptive(p AdaptiveParams) Algorithm {
	return Algorithm{kind: kindAdaptive, adaptive: p}
}

// Spectral returns an Algorithm using the FFT band-energy engine.
func Spectral(p SpectralParams) Algorithm {
	return Algorithm{kind: kindSpectral, spectral: p}
}

// Name returns the engine name for logs and reports.
func (a Algorithm) Name() string {
	switch a.kind {
	case kindAdaptive:
		return "adaptive"
	case kindSpectral:
		return "spectral"
	default:
		return "energy"
	}
}

// Detect runs the configured engine over a mono signal and returns the
// detected speech segments, sorted by start time and non-overlapping.
// An empty signal (or one too short for a single analysis window) yields an
// empty, non-error result: "no speech" is a valid outcome.
func (a Algorithm) Detect(samples []float32, sampleRate int) []SpeechSegment {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil
	}
	switch a.kind {
	case kindAdaptive:
		return a.adaptive.detect(samples, sampleRate)
	case kindSpectral:
		return a.spectral.detect(samples, sampleRate)
	default:
		return a.energy.detect(samples, sampleRate)
	}
}

// segmentTracker applies the boundary logic shared by all engines: a segment
// opens on the first speech window, extends while speech windows keep
// arriving, and closes once the silence run since the last speech window
// exceeds minSilence. Segments shorter than minSpeech are discarded.
type segmentTracker struct {
	minSpeech  float64 // seconds - discard shorter segments
	minSilence float64 // seconds - silence run that closes a segment
	windowDur  float64 // seconds - duration covered by one analysis window

	open       bool
	start      float64
	lastSpeech float64
	segments   []SpeechSegment
}

func newSegmentTracker(minSpeech, minSilence, windowDur float64) *segmentTracker {
	return &segmentTracker{
		minSpeech:  minSpeech,
		minSilence: minSilence,
		windowDur:  windowDur,
	}
}

// observe feeds one classified window starting at the given time.
func (t *segmentTracker) observe(at float64, speech bool) {
	if speech {
		if !t.open {
			t.open = true
			t.start = at
		}
		t.lastSpeech = at
		return
	}
	if t.open && at-t.lastSpeech > t.minSilence {
		t.close()
	}
}

// close flushes the open segment, keeping it only if long enough.
func (t *segmentTracker) close() {
	if !t.open {
		return
	}
	seg := SpeechSegment{Start: t.start, End: t.lastSpeech + t.windowDur}
	if seg.Duration() >= t.minSpeech {
		t.segments = append(t.segments, seg)
	}
	t.open = false
}

// finish flushes any segment still open at end of signal and returns the
// collected segments.
func (t *segmentTracker) finish() []SpeechSegment {
	t.close()
	return t.segments
}
