package session

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the run failure taxonomy. Callers match with
// errors.Is to pick a user-facing message; anything else falls back to a
// generic transcription failure with the cause appended.
var (
	// ErrBackendNotReady means the transcription backend failed to come up
	// within the bounded readiness wait. Fatal for the run, never retried
	// internally.
	ErrBackendNotReady = errors.New("transcription backend not ready")

	// ErrNoAudioTrack means the input carried no samples at all.
	ErrNoAudioTrack = errors.New("no audio track")

	// ErrInvalidChannelLayout means the input cannot be interpreted as the
	// required mono or stereo layout.
	ErrInvalidChannelLayout = errors.New("invalid channel layout")

	// ErrSilenceOnly means every segment (or the whole mono file) was
	// silence. Distinct from a generic failure so the caller can say so.
	ErrSilenceOnly = errors.New("audio contains only silence")

	// ErrCancelled reports cooperative cancellation. Not a failure: turns
	// accumulated before the cancellation point are preserved in the
	// returned transcription.
	ErrCancelled = errors.New("transcription cancelled")
)

// TranscriptionError wraps a hard backend failure on a specific segment.
// Surfaced only when the session runs with AbortOnError; the default policy
// logs, skips the segment and continues.
type TranscriptionError struct {
	Segment int
	Err     error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed on segment %d: %v", e.Segment, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
