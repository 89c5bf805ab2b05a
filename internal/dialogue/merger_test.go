package dialogue

import (
	"math"
	"testing"

	"github.com/linuxmatters/crosstalk/internal/vad"
)

func seg(speaker Speaker, start, end float64, samples ...float32) ChannelSegment {
	return ChannelSegment{
		Segment: vad.SpeechSegment{Start: start, End: end},
		Speaker: speaker,
		Samples: samples,
	}
}

func TestClampMergeThreshold(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"zero takes default", 0, DefaultMergeThreshold},
		{"negative takes default", -1, DefaultMergeThreshold},
		{"below minimum clamps up", 0.2, MinMergeThreshold},
		{"above maximum clamps down", 5, MaxMergeThreshold},
		{"in range passes through", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampMergeThreshold(tt.value); got != tt.want {
				t.Errorf("ClampMergeThreshold(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMergeAdjacent(t *testing.T) {
	tests := []struct {
		name      string
		segments  []ChannelSegment
		threshold float64
		want      []struct {
			speaker    Speaker
			start, end float64
		}
	}{
		{
			name: "alternating speakers never merge",
			segments: []ChannelSegment{
				seg(SpeakerLeft, 0, 1),
				seg(SpeakerRight, 1.2, 2),
				seg(SpeakerLeft, 2.1, 3),
			},
			threshold: 0.5,
			want: []struct {
				speaker    Speaker
				start, end float64
			}{
				{SpeakerLeft, 0, 1},
				{SpeakerRight, 1.2, 2},
				{SpeakerLeft, 2.1, 3},
			},
		},
		{
			name: "same speaker within gap merges",
			segments: []ChannelSegment{
				seg(SpeakerLeft, 0, 1),
				seg(SpeakerLeft, 1.2, 2),
			},
			threshold: 1.0,
			want: []struct {
				speaker    Speaker
				start, end float64
			}{
				{SpeakerLeft, 0, 2},
			},
		},
		{
			name: "same speaker beyond gap stays split",
			segments: []ChannelSegment{
				seg(SpeakerLeft, 0, 1),
				seg(SpeakerLeft, 2.5, 3),
			},
			threshold: 1.0,
			want: []struct {
				speaker    Speaker
				start, end float64
			}{
				{SpeakerLeft, 0, 1},
				{SpeakerLeft, 2.5, 3},
			},
		},
		{
			name: "speaker change flushes even at zero gap",
			segments: []ChannelSegment{
				seg(SpeakerLeft, 0, 1),
				seg(SpeakerRight, 1, 2),
			},
			threshold: 3.0,
			want: []struct {
				speaker    Speaker
				start, end float64
			}{
				{SpeakerLeft, 0, 1},
				{SpeakerRight, 1, 2},
			},
		},
		{
			name: "chain of merges keeps first start",
			segments: []ChannelSegment{
				seg(SpeakerRight, 0, 1),
				seg(SpeakerRight, 1.5, 2.5),
				seg(SpeakerRight, 3, 4),
			},
			threshold: 1.0,
			want: []struct {
				speaker    Speaker
				start, end float64
			}{
				{SpeakerRight, 0, 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAdjacent(tt.segments, tt.threshold)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				g := got[i]
				if g.Speaker != w.speaker ||
					math.Abs(g.Segment.Start-w.start) > 1e-9 ||
					math.Abs(g.Segment.End-w.end) > 1e-9 {
					t.Errorf("segment %d = %v [%v, %v], want %v [%v, %v]",
						i, g.Speaker, g.Segment.Start, g.Segment.End, w.speaker, w.start, w.end)
				}
			}
		})
	}
}

func TestMergeAdjacentConcatenatesSamples(t *testing.T) {
	merged := MergeAdjacent([]ChannelSegment{
		seg(SpeakerLeft, 0, 1, 1, 2),
		seg(SpeakerLeft, 1.2, 2, 3, 4),
	}, 1.0)

	if len(merged) != 1 {
		t.Fatalf("got %d segments, want 1", len(merged))
	}
	want := []float32{1, 2, 3, 4}
	if len(merged[0].Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(merged[0].Samples), len(want))
	}
	for i, v := range want {
		if merged[0].Samples[i] != v {
			t.Errorf("sample %d = %v, want %v", i, merged[0].Samples[i], v)
		}
	}
}

func TestMergeAdjacentDoesNotMutateInput(t *testing.T) {
	first := seg(SpeakerLeft, 0, 1, 1, 2)
	second := seg(SpeakerLeft, 1.2, 2, 3, 4)
	original := append([]float32(nil), first.Samples...)

	MergeAdjacent([]ChannelSegment{first, second}, 1.0)

	for i, v := range original {
		if first.Samples[i] != v {
			t.Fatalf("input samples mutated: %v", first.Samples)
		}
	}
}

func TestMergeAdjacentEmpty(t *testing.T) {
	if got := MergeAdjacent(nil, 1.0); got != nil {
		t.Errorf("MergeAdjacent(nil) = %v, want nil", got)
	}
}
