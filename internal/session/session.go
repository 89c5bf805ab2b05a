// Package session drives the sequential transcription of one recording: it
// waits for the backend, walks the chronological segment list, gates silence,
// builds the rolling context prompt from the turns accumulated so far, and
// emits monotonic progress with append-only partial transcriptions.
//
// The per-segment loop is strictly sequential by design: segment N's prompt
// depends on the turns produced by segments 1..N-1. Different files run in
// independent sessions and may execute concurrently; nothing here is shared
// between sessions except the read-only collaborators they were built with.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linuxmatters/crosstalk/internal/audio"
	"github.com/linuxmatters/crosstalk/internal/dialogue"
	"github.com/linuxmatters/crosstalk/internal/prompt"
	"github.com/linuxmatters/crosstalk/internal/transcribe"
	"github.com/linuxmatters/crosstalk/internal/vad"
	"github.com/linuxmatters/crosstalk/internal/vocab"
)

// Backend readiness wait bounds.
const (
	defaultReadyPolls        = 60
	defaultReadyPollInterval = time.Second
)

// State names the orchestrator's position in a run.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateTranscribing
	StateCompleted
	StateCancelled
	StateFailed
)

// ProgressFunc receives a progress update after every successfully
// transcribed segment and once more at completion with progress 1.0. The
// partial transcription is a snapshot: its turn list is append-only across
// the run and safe to retain.
type ProgressFunc func(fileName string, progress float64, partial dialogue.DialogueTranscription)

// Options configures a session. The Snapshot is the authoritative
// configuration for the whole run; live settings are never consulted again
// after the session is built.
type Options struct {
	Snapshot  prompt.ContextSnapshot
	Algorithm vad.Algorithm

	// AbortOnError makes a hard backend failure fatal for the run. The
	// default policy logs the failure, skips the segment and continues.
	AbortOnError bool

	ReadyPolls        int
	ReadyPollInterval time.Duration
}

// Stats counts what happened to each segment during a run.
type Stats struct {
	TotalSegments  int
	Transcribed    int
	SkippedSilence int
	SkippedEmpty   int
	Failed         int
}

// Session transcribes one recording. Not safe for concurrent use; run one
// file per session.
type Session struct {
	id          string
	transcriber transcribe.Transcriber
	vocabulary  vocab.Provider
	opts        Options
	progress    ProgressFunc
	log         zerolog.Logger

	state State
	stats Stats
}

// New builds a session around a transcriber and its collaborators. A nil
// vocabulary provider and a nil progress callback are both allowed.
func New(t transcribe.Transcriber, vp vocab.Provider, opts Options, log zerolog.Logger, progress ProgressFunc) *Session {
	if vp == nil {
		vp = vocab.None{}
	}
	if opts.ReadyPolls <= 0 {
		opts.ReadyPolls = defaultReadyPolls
	}
	if opts.ReadyPollInterval <= 0 {
		opts.ReadyPollInterval = defaultReadyPollInterval
	}
	opts.Snapshot = opts.Snapshot.Normalize()

	id := uuid.NewString()
	return &Session{
		id:          id,
		transcriber: t,
		vocabulary:  vp,
		opts:        opts,
		progress:    progress,
		log:         log.With().Str("run_id", id).Logger(),
	}
}

// ID returns the run identifier carried in logs and reports.
func (s *Session) ID() string { return s.id }

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Stats returns the per-segment outcome counts accumulated so far.
func (s *Session) Stats() Stats { return s.stats }

// RunInterleaved splits interleaved stereo samples and runs the stereo path.
func (s *Session) RunInterleaved(ctx context.Context, fileName string, interleaved []float32) (dialogue.DialogueTranscription, error) {
	if len(interleaved) == 0 {
		s.state = StateFailed
		return dialogue.DialogueTranscription{}, ErrNoAudioTrack
	}
	if len(interleaved) < 2 {
		s.state = StateFailed
		return dialogue.DialogueTranscription{}, ErrInvalidChannelLayout
	}
	left, right := audio.DeinterleaveStereo(interleaved)
	return s.RunStereo(ctx, fileName, left, right)
}

// RunStereo reconstructs and transcribes a two-party dialogue from separate
// left and right channel arrays.
func (s *Session) RunStereo(ctx context.Context, fileName string, left, right []float32) (dialogue.DialogueTranscription, error) {
	s.state = StatePreparing

	if len(left) == 0 && len(right) == 0 {
		s.state = StateFailed
		return dialogue.DialogueTranscription{}, ErrNoAudioTrack
	}
	if len(left) == 0 || len(right) == 0 {
		s.state = StateFailed
		return dialogue.DialogueTranscription{}, ErrInvalidChannelLayout
	}
	if err := s.prepare(ctx); err != nil {
		return dialogue.DialogueTranscription{}, err
	}

	assembler := dialogue.Assembler{
		Algorithm:      s.opts.Algorithm,
		SampleRate:     audio.SampleRate,
		MergeThreshold: dialogue.ClampMergeThreshold(s.opts.Snapshot.PostVADMergeThreshold),
	}
	segments := assembler.Assemble(left, right)

	frames := len(left)
	if len(right) > frames {
		frames = len(right)
	}
	result := dialogue.DialogueTranscription{
		IsStereo:      true,
		TotalDuration: float64(frames) / float64(audio.SampleRate),
	}

	s.stats.TotalSegments = len(segments)
	if len(segments) == 0 {
		s.state = StateFailed
		return result, ErrSilenceOnly
	}

	s.log.Info().
		Str("file", fileName).
		Int("segments", len(segments)).
		Str("vad", s.opts.Algorithm.Name()).
		Msg("dialogue run starting")

	s.state = StateTranscribing
	if err := s.transcribeSegments(ctx, fileName, segments, &result); err != nil {
		return result, err
	}

	if len(result.Turns) == 0 && s.stats.SkippedSilence == s.stats.TotalSegments {
		s.state = StateFailed
		return result, ErrSilenceOnly
	}

	s.complete(fileName, &result)
	return result, nil
}

// RunMono transcribes a single-speaker file as one segment spanning the
// whole duration. No VAD, no turn-history context: the prompt is just the
// base context prompt from the snapshot.
func (s *Session) RunMono(ctx context.Context, fileName string, samples []float32) (dialogue.DialogueTranscription, error) {
	s.state = StatePreparing

	if len(samples) == 0 {
		s.state = StateFailed
		return dialogue.DialogueTranscription{}, ErrNoAudioTrack
	}
	if err := s.prepare(ctx); err != nil {
		return dialogue.DialogueTranscription{}, err
	}

	totalDuration := audio.Duration(samples, audio.SampleRate)
	result := dialogue.DialogueTranscription{TotalDuration: totalDuration}
	s.stats.TotalSegments = 1

	if audio.IsSilence(samples, audio.SampleRate) {
		s.stats.SkippedSilence++
		s.state = StateFailed
		return result, ErrSilenceOnly
	}

	s.state = StateTranscribing
	contextPrompt := prompt.Build(s.opts.Snapshot, nil, nil)

	text, err := s.transcriber.Transcribe(ctx, samples, audio.SampleRate, contextPrompt)
	if err != nil {
		s.stats.Failed++
		s.state = StateFailed
		return result, &TranscriptionError{Segment: 0, Err: err}
	}
	if text = strings.TrimSpace(text); text != "" {
		s.stats.Transcribed++
		result.Turns = append(result.Turns, dialogue.Turn{
			Speaker:   dialogue.SpeakerLeft,
			Text:      text,
			StartTime: 0,
			EndTime:   totalDuration,
		})
	} else {
		s.stats.SkippedEmpty++
		s.log.Debug().Str("file", fileName).Msg("empty transcription, no turn emitted")
	}

	s.complete(fileName, &result)
	return result, nil
}

// transcribeSegments is the sequential per-segment loop of the stereo path.
func (s *Session) transcribeSegments(ctx context.Context, fileName string, segments []dialogue.ChannelSegment, result *dialogue.DialogueTranscription) error {
	terms := s.vocabulary.EnabledTerms()
	total := len(segments)

	for i, seg := range segments {
		// Cancellation is cooperative: checked at the top of every
		// iteration, preserving the turns accumulated so far.
		if err := ctx.Err(); err != nil {
			s.state = StateCancelled
			s.log.Info().Str("file", fileName).Int("segment", i).Msg("run cancelled")
			return ErrCancelled
		}

		if audio.IsSilence(seg.Samples, audio.SampleRate) {
			s.stats.SkippedSilence++
			continue
		}

		contextPrompt := prompt.Build(s.opts.Snapshot, result.Turns, terms)

		text, err := s.transcriber.Transcribe(ctx, seg.Samples, audio.SampleRate, contextPrompt)
		if err != nil {
			s.stats.Failed++
			if s.opts.AbortOnError {
				s.state = StateFailed
				return &TranscriptionError{Segment: i, Err: err}
			}
			s.log.Warn().Err(err).Int("segment", i).Msg("segment transcription failed, skipping")
			continue
		}
		if text = strings.TrimSpace(text); text == "" {
			s.stats.SkippedEmpty++
			s.log.Debug().Int("segment", i).Msg("empty transcription, skipping segment")
			continue
		}

		result.Turns = append(result.Turns, dialogue.Turn{
			Speaker:   seg.Speaker,
			Text:      text,
			StartTime: seg.Segment.Start,
			EndTime:   seg.Segment.End,
		})
		s.stats.Transcribed++
		s.emit(fileName, float64(s.stats.Transcribed)/float64(total), result)
	}
	return nil
}

// prepare performs the bounded wait for backend readiness.
func (s *Session) prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.state = StateCancelled
		return ErrCancelled
	}
	for poll := 0; poll < s.opts.ReadyPolls; poll++ {
		if s.transcriber.IsReady(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			s.state = StateCancelled
			return ErrCancelled
		case <-time.After(s.opts.ReadyPollInterval):
		}
	}
	s.state = StateFailed
	return ErrBackendNotReady
}

// complete marks the run finished and emits the final 1.0 progress tick.
func (s *Session) complete(fileName string, result *dialogue.DialogueTranscription) {
	s.state = StateCompleted
	s.log.Info().
		Str("file", fileName).
		Int("turns", len(result.Turns)).
		Int("skipped_silence", s.stats.SkippedSilence).
		Int("skipped_empty", s.stats.SkippedEmpty).
		Msg("dialogue run complete")
	s.emit(fileName, 1.0, result)
}

// emit invokes the progress callback with a snapshot of the dialogue so far.
func (s *Session) emit(fileName string, progress float64, result *dialogue.DialogueTranscription) {
	if s.progress == nil {
		return
	}
	if progress > 1.0 {
		progress = 1.0
	}
	s.progress(fileName, progress, result.Clone())
}
