package dialogue

import (
	"math"
	"testing"

	"github.com/linuxmatters/crosstalk/internal/audio"
	"github.com/linuxmatters/crosstalk/internal/vad"
)

// burst places a sine tone into the channel between startTime and endTime.
func burst(channel []float32, startTime, endTime float64) {
	start := int(startTime * audio.SampleRate)
	end := int(endTime * audio.SampleRate)
	for i := start; i < end && i < len(channel); i++ {
		t := float64(i) / audio.SampleRate
		channel[i] = float32(0.5 * math.Sin(2*math.Pi*440*t))
	}
}

func TestAssembleInterleavesChannelsChronologically(t *testing.T) {
	const totalSeconds = 5
	left := make([]float32, totalSeconds*audio.SampleRate)
	right := make([]float32, totalSeconds*audio.SampleRate)
	burst(left, 0, 1)
	burst(right, 1.5, 2.5)
	burst(left, 3, 4)

	assembler := NewAssembler(vad.Energy(vad.DefaultEnergyParams()))
	segments := assembler.Assemble(left, right)

	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3: %v", len(segments), segments)
	}

	wantSpeakers := []Speaker{SpeakerLeft, SpeakerRight, SpeakerLeft}
	for i, want := range wantSpeakers {
		if segments[i].Speaker != want {
			t.Errorf("segment %d speaker = %v, want %v", i, segments[i].Speaker, want)
		}
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].Segment.Start < segments[i-1].Segment.Start {
			t.Errorf("segments out of order at %d: %v then %v",
				i, segments[i-1].Segment, segments[i].Segment)
		}
	}
	for i, seg := range segments {
		if len(seg.Samples) == 0 {
			t.Errorf("segment %d carries no audio", i)
		}
	}
}

func TestAssembleTieBreakLeftBeforeRight(t *testing.T) {
	// Identical channels produce identical segment start times; the left
	// speaker must sort first and the speaker change keeps them separate.
	channel := make([]float32, 3*audio.SampleRate)
	burst(channel, 1, 2)

	assembler := NewAssembler(vad.Energy(vad.DefaultEnergyParams()))
	segments := assembler.Assemble(channel, append([]float32(nil), channel...))

	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2: %v", len(segments), segments)
	}
	if segments[0].Speaker != SpeakerLeft || segments[1].Speaker != SpeakerRight {
		t.Errorf("tie break order = %v, %v; want left, right", segments[0].Speaker, segments[1].Speaker)
	}
}

func TestAssembleSilentChannelContributesNothing(t *testing.T) {
	left := make([]float32, 3*audio.SampleRate)
	right := make([]float32, 3*audio.SampleRate)
	burst(left, 0.5, 1.5)

	assembler := NewAssembler(vad.Energy(vad.DefaultEnergyParams()))
	segments := assembler.Assemble(left, right)

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1: %v", len(segments), segments)
	}
	if segments[0].Speaker != SpeakerLeft {
		t.Errorf("speaker = %v, want left", segments[0].Speaker)
	}
}

func TestAssembleInterleaved(t *testing.T) {
	frames := 3 * audio.SampleRate
	left := make([]float32, frames)
	burst(left, 0.5, 1.5)

	interleaved := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		interleaved[2*i] = left[i]
	}

	assembler := NewAssembler(vad.Energy(vad.DefaultEnergyParams()))
	segments := assembler.AssembleInterleaved(interleaved)

	if len(segments) != 1 || segments[0].Speaker != SpeakerLeft {
		t.Fatalf("unexpected segments: %v", segments)
	}
}

func TestAssembleMergesSameSpeakerAcrossShortGap(t *testing.T) {
	// Two left-channel utterances 1s apart fall inside the default 1.5s
	// merge window and come back as one segment.
	left := make([]float32, 5*audio.SampleRate)
	right := make([]float32, 5*audio.SampleRate)
	burst(left, 0.5, 1.5)
	burst(left, 2.5, 3.5)

	assembler := NewAssembler(vad.Energy(vad.DefaultEnergyParams()))
	segments := assembler.Assemble(left, right)

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1 merged: %v", len(segments), segments)
	}
	if math.Abs(segments[0].Segment.Start-0.5) > 0.05 {
		t.Errorf("start = %v, want ~0.5", segments[0].Segment.Start)
	}
	if math.Abs(segments[0].Segment.End-3.5) > 0.1 {
		t.Errorf("end = %v, want ~3.5", segments[0].Segment.End)
	}
}
