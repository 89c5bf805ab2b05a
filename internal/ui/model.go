// Package ui provides the Bubbletea terminal user interface for crosstalk.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/crosstalk/internal/dialogue"
	"github.com/linuxmatters/crosstalk/internal/session"
)

// FileStatus represents the processing state of a single file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusTranscribing
	StatusComplete
	StatusError
)

// FileProgress tracks one input file through its transcription session.
type FileProgress struct {
	InputPath string
	Status    FileStatus

	Progress    float64 // 0.0 to 1.0
	StartTime   time.Time
	ElapsedTime time.Duration

	// Partial is the latest dialogue snapshot; its turn tail feeds the
	// live view.
	Partial dialogue.DialogueTranscription

	Stats session.Stats
	Error error
}

// Model is the Bubbletea model for the batch transcription UI.
type Model struct {
	Files          []FileProgress
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	StartTime time.Time
	Done      bool

	// ProgressChan receives messages from the session goroutines.
	ProgressChan chan tea.Msg

	Width  int
	Height int
}

// NewModel creates a UI model for the given input files.
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{InputPath: path, Status: StatusQueued}
	}
	return Model{
		Files:        files,
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			m.Files[msg.FileIndex].Status = StatusTranscribing
			m.Files[msg.FileIndex].StartTime = time.Now()
		}
		return m, waitForProgress(m.ProgressChan)

	case ProgressMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			fp := &m.Files[msg.FileIndex]
			fp.Progress = msg.Progress
			fp.Partial = msg.Partial
			fp.ElapsedTime = time.Since(fp.StartTime)
		}
		return m, waitForProgress(m.ProgressChan)

	case FileCompleteMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			fp := &m.Files[msg.FileIndex]
			fp.Partial = msg.Result
			fp.Stats = msg.Stats
			fp.Error = msg.Error
			fp.ElapsedTime = time.Since(fp.StartTime)
			if msg.Error != nil {
				fp.Status = StatusError
				m.FailedFiles++
			} else {
				fp.Status = StatusComplete
				fp.Progress = 1.0
				m.CompletedFiles++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderProcessingView(m)
}

// waitForProgress creates a command that waits for the next session message.
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
