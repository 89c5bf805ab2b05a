// Package dialogue reconstructs a two-party conversation from per-channel
// speech segments: it tags each channel's detections with a speaker, sorts
// the combined list into chronological order, merges adjacent same-speaker
// segments and holds the resulting turn-based transcription types.
package dialogue

import (
	"sort"

	"github.com/linuxmatters/crosstalk/internal/vad"
)

// Speaker identifies one party of a two-channel call.
type Speaker int

const (
	// SpeakerLeft is the left channel party (channel 0).
	SpeakerLeft Speaker = iota
	// SpeakerRight is the right channel party (channel 1).
	SpeakerRight
)

// Label returns the display name used in prompts and transcripts.
func (s Speaker) Label() string {
	if s == SpeakerRight {
		return "Speaker 2"
	}
	return "Speaker 1"
}

// Channel returns the stereo channel index carrying this speaker.
func (s Speaker) Channel() int {
	if s == SpeakerRight {
		return 1
	}
	return 0
}

// ChannelSegment is one VAD detection tagged with its speaker, carrying a
// copy of the raw audio for that interval. Audio is extracted once at
// assembly and reused by the merge and transcription stages.
type ChannelSegment struct {
	Segment vad.SpeechSegment
	Speaker Speaker
	Samples []float32
}

// Turn is one speaker's transcribed utterance, the atomic unit of the output
// dialogue. Immutable once created.
type Turn struct {
	Speaker   Speaker
	Text      string
	StartTime float64
	EndTime   float64
}

// DialogueTranscription is the aggregate result of a run.
type DialogueTranscription struct {
	Turns         []Turn
	IsStereo      bool
	TotalDuration float64
}

// SortedByTime returns the turns ordered by start time. Turns are appended
// chronologically by construction, but the accessor sorts defensively so a
// caller holding an out-of-order list still gets a usable view.
func (d DialogueTranscription) SortedByTime() []Turn {
	sorted := append([]Turn(nil), d.Turns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}

// Clone returns a deep copy of the transcription. Progress callbacks hand out
// clones so UI code can keep a snapshot while the run keeps appending.
func (d DialogueTranscription) Clone() DialogueTranscription {
	return DialogueTranscription{
		Turns:         append([]Turn(nil), d.Turns...),
		IsStereo:      d.IsStereo,
		TotalDuration: d.TotalDuration,
	}
}
