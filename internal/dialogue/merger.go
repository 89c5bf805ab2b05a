package dialogue

// Merge threshold bounds. Values outside the range are clamped rather than
// rejected: a stale settings file must not break a run.
const (
	DefaultMergeThreshold = 1.5 // seconds
	MinMergeThreshold     = 0.5
	MaxMergeThreshold     = 3.0
)

// ClampMergeThreshold restricts a configured merge gap to the supported
// range, substituting the default for non-positive values.
func ClampMergeThreshold(threshold float64) float64 {
	switch {
	case threshold <= 0:
		return DefaultMergeThreshold
	case threshold < MinMergeThreshold:
		return MinMergeThreshold
	case threshold > MaxMergeThreshold:
		return MaxMergeThreshold
	default:
		return threshold
	}
}

// MergeAdjacent collapses neighbouring segments from the same speaker that
// are separated by a gap shorter than threshold seconds. The input must be
// sorted by start time. Audio is concatenated and the accumulated segment's
// end extended; its start never moves. A speaker change always flushes, even
// at zero gap, so overlapping cross-talk stays separated by speaker.
func MergeAdjacent(segments []ChannelSegment, threshold float64) []ChannelSegment {
	if len(segments) == 0 {
		return nil
	}
	threshold = ClampMergeThreshold(threshold)

	merged := make([]ChannelSegment, 0, len(segments))
	current := cloneSegment(segments[0])

	for _, next := range segments[1:] {
		gap := next.Segment.Start - current.Segment.End
		if next.Speaker == current.Speaker && gap < threshold {
			current.Samples = append(current.Samples, next.Samples...)
			current.Segment.End = next.Segment.End
			continue
		}
		merged = append(merged, current)
		current = cloneSegment(next)
	}
	return append(merged, current)
}

// cloneSegment copies the segment with its own samples slice so merging
// never appends into a caller-owned array.
func cloneSegment(seg ChannelSegment) ChannelSegment {
	seg.Samples = append([]float32(nil), seg.Samples...)
	return seg
}
