// Package transcribe defines the speech-to-text backend contract consumed by
// the transcription session, plus a faster-whisper HTTP sidecar client.
package transcribe

import "context"

// Transcriber converts one segment of mono float PCM into text. The context
// prompt, when non-empty, biases decoding with prior dialogue and domain
// vocabulary. Implementations must be safe to call repeatedly within a run;
// an empty returned string with a nil error means "nothing recognisable",
// which the caller treats as a skip, not a failure.
type Transcriber interface {
	// Transcribe blocks until the segment is transcribed or ctx is done.
	Transcribe(ctx context.Context, samples []float32, sampleRate int, contextPrompt string) (string, error)

	// IsReady reports whether the backend can accept work. The session
	// polls this during its bounded readiness wait.
	IsReady(ctx context.Context) bool
}
