package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/crosstalk/internal/dialogue"
	"github.com/linuxmatters/crosstalk/internal/session"
)

func sampleData(inputPath string) Data {
	start := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	return Data{
		RunID:     "run-123",
		InputPath: inputPath,
		StartTime: start,
		EndTime:   start.Add(30 * time.Second),
		VADEngine: "spectral",
		Stats: session.Stats{
			TotalSegments:  4,
			Transcribed:    3,
			SkippedSilence: 1,
		},
		Result: dialogue.DialogueTranscription{
			IsStereo:      true,
			TotalDuration: 120,
			Turns: []dialogue.Turn{
				{Speaker: dialogue.SpeakerLeft, Text: "hello", StartTime: 0.5, EndTime: 1.5},
				{Speaker: dialogue.SpeakerRight, Text: "hi there", StartTime: 2, EndTime: 3},
			},
		},
		SampleRate: 16000,
	}
}

func TestGenerateWritesReportNextToInput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "intake.wav")

	require.NoError(t, Generate(sampleData(inputPath)))

	content, err := os.ReadFile(filepath.Join(dir, "intake-transcript-report.txt"))
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "run-123")
	assert.Contains(t, text, "spectral")
	assert.Contains(t, text, "stereo (two-party)")
	assert.Contains(t, text, "Transcribed:     3")
	assert.Contains(t, text, "Speaker 1: hello")
	assert.Contains(t, text, "Speaker 2: hi there")
	// 30s of processing over 120s of audio.
	assert.Contains(t, text, "0.25x")
}

func TestGenerateRTFWithoutDuration(t *testing.T) {
	dir := t.TempDir()
	data := sampleData(filepath.Join(dir, "empty.wav"))
	data.Result.TotalDuration = 0
	data.Result.Turns = nil

	require.NoError(t, Generate(data))

	content, err := os.ReadFile(filepath.Join(dir, "empty-transcript-report.txt"))
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "n/a")
	assert.NotContains(t, text, "Dialogue")
}

func TestGenerateTurnsSortedByTime(t *testing.T) {
	dir := t.TempDir()
	data := sampleData(filepath.Join(dir, "call.wav"))
	data.Result.Turns = []dialogue.Turn{
		{Speaker: dialogue.SpeakerRight, Text: "later", StartTime: 5, EndTime: 6},
		{Speaker: dialogue.SpeakerLeft, Text: "earlier", StartTime: 1, EndTime: 2},
	}

	require.NoError(t, Generate(data))

	content, err := os.ReadFile(filepath.Join(dir, "call-transcript-report.txt"))
	require.NoError(t, err)
	text := string(content)

	earlier := strings.Index(text, "earlier")
	later := strings.Index(text, "] Speaker 2: later")
	require.GreaterOrEqual(t, earlier, 0)
	require.GreaterOrEqual(t, later, 0)
	assert.Less(t, earlier, later, "turns must be listed chronologically")
}
