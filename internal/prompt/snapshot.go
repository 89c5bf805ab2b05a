// Package prompt builds the bounded decoding-context string handed to the
// transcription backend: base domain prompt, named entities mined from
// recent turns, vocabulary terms and a tail of the dialogue so far, truncated
// on a word boundary to a configured length.
package prompt

// Context length and history bounds.
const (
	DefaultMaxContextLength = 600
	MinMaxContextLength     = 300
	MaxMaxContextLength     = 700

	DefaultMaxRecentTurns = 5
	MinMaxRecentTurns     = 3
	MaxMaxRecentTurns     = 10

	// Entity mining looks at a bounded window of history; older turns add
	// cost without adding relevant names.
	entityTurnWindow = 20

	// Hard cap on vocabulary terms carried into one prompt.
	maxVocabularyTerms = 15
)

// ContextSnapshot is an immutable copy of the user-configurable context
// parameters, captured once at the start of a run. Every prompt built during
// that run reads from the snapshot, never from live settings, so a
// concurrent settings change cannot corrupt an in-flight transcription.
type ContextSnapshot struct {
	MaxContextLength            int
	MaxRecentTurns              int
	EnableEntityExtraction      bool
	EnableVocabularyIntegration bool
	PostVADMergeThreshold       float64
	BaseContextPrompt           string
}

// DefaultSnapshot returns a snapshot with all features enabled and default
// bounds, no base prompt.
func DefaultSnapshot() ContextSnapshot {
	return ContextSnapshot{
		MaxContextLength:            DefaultMaxContextLength,
		MaxRecentTurns:              DefaultMaxRecentTurns,
		EnableEntityExtraction:      true,
		EnableVocabularyIntegration: true,
	}
}

// Normalize clamps out-of-range values to the supported bounds and returns
// the adjusted snapshot. Zero values take the defaults.
func (s ContextSnapshot) Normalize() ContextSnapshot {
	s.MaxContextLength = clampInt(s.MaxContextLength, MinMaxContextLength, MaxMaxContextLength, DefaultMaxContextLength)
	s.MaxRecentTurns = clampInt(s.MaxRecentTurns, MinMaxRecentTurns, MaxMaxRecentTurns, DefaultMaxRecentTurns)
	return s
}

func clampInt(v, min, max, def int) int {
	switch {
	case v == 0:
		return def
	case v < min:
		return min
	case v > max:
		return max
	default:
		return v
	}
}
