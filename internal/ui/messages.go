package ui

import (
	"github.com/linuxmatters/crosstalk/internal/dialogue"
	"github.com/linuxmatters/crosstalk/internal/session"
)

// ProgressMsg carries one progress update from a running session. Partial is
// an append-only snapshot of the dialogue so far, safe to retain.
type ProgressMsg struct {
	FileIndex int
	Progress  float64 // 0.0 to 1.0
	Partial   dialogue.DialogueTranscription
}

// FileStartMsg indicates a file's session has started.
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file's session has finished.
type FileCompleteMsg struct {
	FileIndex int
	Result    dialogue.DialogueTranscription
	Stats     session.Stats
	Error     error
}

// AllCompleteMsg indicates every file has been processed.
type AllCompleteMsg struct{}
