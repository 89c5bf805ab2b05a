// Package report generates the per-run plain-text analysis report written
// alongside the input file when --logs is set.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/crosstalk/internal/dialogue"
	"github.com/linuxmatters/crosstalk/internal/session"
)

// Data collects everything the report renders.
type Data struct {
	RunID      string
	InputPath  string
	StartTime  time.Time
	EndTime    time.Time
	VADEngine  string
	Stats      session.Stats
	Result     dialogue.DialogueTranscription
	SampleRate int
}

// Generate writes the report next to the input file as
// <basename>-transcript-report.txt.
func Generate(data Data) error {
	path := reportPath(data.InputPath)
	content := render(data)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// reportPath derives the report filename from the input filename.
// Example: /calls/intake.wav → /calls/intake-transcript-report.txt
func reportPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, name+"-transcript-report.txt")
}

func render(data Data) string {
	var b strings.Builder
	elapsed := data.EndTime.Sub(data.StartTime)

	b.WriteString("Crosstalk transcription report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Run:        %s\n", data.RunID)
	fmt.Fprintf(&b, "Input:      %s\n", data.InputPath)
	fmt.Fprintf(&b, "Started:    %s\n", data.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Elapsed:    %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "VAD engine: %s\n", data.VADEngine)
	fmt.Fprintf(&b, "Layout:     %s\n\n", layoutName(data.Result.IsStereo))

	b.WriteString("Segments\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "Detected:        %d\n", data.Stats.TotalSegments)
	fmt.Fprintf(&b, "Transcribed:     %d\n", data.Stats.Transcribed)
	fmt.Fprintf(&b, "Skipped silence: %d\n", data.Stats.SkippedSilence)
	fmt.Fprintf(&b, "Skipped empty:   %d\n", data.Stats.SkippedEmpty)
	fmt.Fprintf(&b, "Failed:          %d\n\n", data.Stats.Failed)

	b.WriteString("Performance\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "Audio duration:   %.1fs\n", data.Result.TotalDuration)
	fmt.Fprintf(&b, "Real-time factor: %s\n\n", formatRTF(elapsed, data.Result.TotalDuration))

	if len(data.Result.Turns) > 0 {
		b.WriteString("Dialogue\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for _, turn := range data.Result.SortedByTime() {
			fmt.Fprintf(&b, "[%8.2fs - %8.2fs] %s: %s\n",
				turn.StartTime, turn.EndTime, turn.Speaker.Label(), turn.Text)
		}
	}
	return b.String()
}

// formatRTF renders processing-time over audio-duration; below 1.0 is
// faster than real time.
func formatRTF(elapsed time.Duration, audioDuration float64) string {
	if audioDuration <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", elapsed.Seconds()/audioDuration)
}

func layoutName(stereo bool) string {
	if stereo {
		return "stereo (two-party)"
	}
	return "mono"
}
