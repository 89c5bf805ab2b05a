package dialogue

import (
	"sort"

	"github.com/linuxmatters/crosstalk/internal/audio"
	"github.com/linuxmatters/crosstalk/internal/vad"
)

// Assembler turns a stereo recording into a chronological, speaker-tagged
// segment list ready for sequential transcription.
type Assembler struct {
	Algorithm      vad.Algorithm
	SampleRate     int
	MergeThreshold float64 // seconds - post-VAD adjacent same-speaker merge
}

// NewAssembler returns an assembler with the given VAD engine at the
// pipeline sample rate and the default merge threshold.
func NewAssembler(algorithm vad.Algorithm) Assembler {
	return Assembler{
		Algorithm:      algorithm,
		SampleRate:     audio.SampleRate,
		MergeThreshold: DefaultMergeThreshold,
	}
}

// AssembleInterleaved splits interleaved stereo samples and assembles the
// dialogue segment list.
func (a Assembler) AssembleInterleaved(interleaved []float32) []ChannelSegment {
	left, right := audio.DeinterleaveStereo(interleaved)
	return a.Assemble(left, right)
}

// Assemble runs VAD independently on each channel, tags every detection with
// its speaker, extracts the (bounds-clamped) audio slice per segment, sorts
// the combined list chronologically and merges adjacent same-speaker
// segments. Equal start times order left before right; the tie break is
// arbitrary but deterministic. The result does not depend on which channel
// produced more segments, and no segment is ever dropped by the sort.
func (a Assembler) Assemble(left, right []float32) []ChannelSegment {
	combined := a.channelSegments(left, SpeakerLeft)
	combined = append(combined, a.channelSegments(right, SpeakerRight)...)

	sort.SliceStable(combined, func(i, j int) bool {
		si, sj := combined[i], combined[j]
		if si.Segment.Start != sj.Segment.Start {
			return si.Segment.Start < sj.Segment.Start
		}
		return si.Speaker.Channel() < sj.Speaker.Channel()
	})

	return MergeAdjacent(combined, a.MergeThreshold)
}

// channelSegments detects speech on one mono channel and tags the results.
func (a Assembler) channelSegments(channel []float32, speaker Speaker) []ChannelSegment {
	detected := a.Algorithm.Detect(channel, a.SampleRate)
	segments := make([]ChannelSegment, 0, len(detected))
	for _, seg := range detected {
		segments = append(segments, ChannelSegment{
			Segment: seg,
			Speaker: speaker,
			Samples: audio.ExtractSegment(channel, seg.Start, seg.End, a.SampleRate),
		})
	}
	return segments
}
