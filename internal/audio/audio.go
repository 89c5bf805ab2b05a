// Package audio provides sample-domain helpers for 16kHz float PCM:
// channel splitting, bounds-clamped segment extraction, RMS measurement and
// the silence gate shared by the transcription pipeline.
package audio

import "math"

// SampleRate is the fixed pipeline sample rate in Hz. Inputs are expected to
// be pre-decoded and resampled to this rate before reaching the core.
const SampleRate = 16000

// Silence gate tuning. A segment is silence when its RMS sits below the
// floor or it is too short to carry a word.
const (
	SilenceRMSFloor    = 0.01
	MinSegmentDuration = 0.3 // seconds
)

// DeinterleaveStereo splits interleaved stereo samples (L R L R ...) into
// separate left and right channel arrays. A trailing unpaired sample is
// dropped.
func DeinterleaveStereo(interleaved []float32) (left, right []float32) {
	frames := len(interleaved) / 2
	left = make([]float32, frames)
	right = make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = interleaved[2*i]
		right[i] = interleaved[2*i+1]
	}
	return left, right
}

// ExtractSegment copies the sample range covering [startTime, endTime) from a
// mono channel. Indices are clamped to the channel bounds, so a segment that
// overruns the signal end yields the available tail rather than a panic.
func ExtractSegment(channel []float32, startTime, endTime float64, sampleRate int) []float32 {
	start := int(startTime * float64(sampleRate))
	end := int(endTime * float64(sampleRate))

	if start < 0 {
		start = 0
	}
	if end > len(channel) {
		end = len(channel)
	}
	if start >= end {
		return nil
	}
	out := make([]float32, end-start)
	copy(out, channel[start:end])
	return out
}

// MixToMono averages two channel arrays into a single mono signal. Channels
// of unequal length mix over the longer one, treating the missing tail as
// silence.
func MixToMono(left, right []float32) []float32 {
	frames := len(left)
	if len(right) > frames {
		frames = len(right)
	}
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var l, r float32
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		out[i] = (l + r) / 2
	}
	return out
}

// RMS returns the root-mean-square level of the samples, 0 for empty input.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Duration returns the playing time of the samples in seconds.
func Duration(samples []float32, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(len(samples)) / float64(sampleRate)
}

// IsSilence reports whether a segment should be skipped without transcribing:
// energy below the RMS floor, or too short to carry speech.
func IsSilence(samples []float32, sampleRate int) bool {
	if Duration(samples, sampleRate) < MinSegmentDuration {
		return true
	}
	return RMS(samples) < SilenceRMSFloor
}
