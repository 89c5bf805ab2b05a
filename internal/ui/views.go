package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// turnTailCount is how many recent turns the live view shows for the
// active file.
const turnTailCount = 3

// renderProcessingView renders the main processing view
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderFileQueue(m))
	b.WriteString("\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#A40000")).
		Render("Crosstalk ☎ - Two-Party Call Transcriber")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Transcribing %d file(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status
func renderFileQueue(m Model) string {
	var b strings.Builder

	for _, file := range m.Files {
		b.WriteString(renderFileEntry(file))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFileEntry renders a single file entry in the queue
func renderFileEntry(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		summary := fmt.Sprintf("Turns: %d | Transcribed: %d/%d | Silence skipped: %d",
			len(file.Partial.Turns), file.Stats.Transcribed,
			file.Stats.TotalSegments, file.Stats.SkippedSilence)
		return fmt.Sprintf(" %s %s\n   %s", icon, fileName, summary)

	case StatusTranscribing:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n%s", icon, fileName, renderFileDetails(file))

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Error)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderFileDetails renders detailed progress for an active file
func renderFileDetails(file FileProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#A40000")).
		Padding(0, 1).
		Width(70)

	var content strings.Builder

	content.WriteString(renderProgressBar(file.Progress, 40))
	content.WriteString("\n")

	elapsed := file.ElapsedTime.Seconds()
	var remaining float64
	if file.Progress > 0 {
		remaining = (elapsed / file.Progress) - elapsed
	}
	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs | Remaining: ~%.1fs\n", elapsed, remaining))

	if tail := renderTurnTail(file); tail != "" {
		content.WriteString("\n")
		content.WriteString(tail)
	}

	return box.Render(content.String())
}

// renderTurnTail shows the most recent transcribed turns.
func renderTurnTail(file FileProgress) string {
	turns := file.Partial.Turns
	if len(turns) == 0 {
		return ""
	}
	start := len(turns) - turnTailCount
	if start < 0 {
		start = 0
	}

	speakerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#888888"))

	var b strings.Builder
	for i, turn := range turns[start:] {
		if i > 0 {
			b.WriteString("\n")
		}
		text := turn.Text
		if len([]rune(text)) > 60 {
			text = string([]rune(text)[:57]) + "..."
		}
		b.WriteString(fmt.Sprintf("%s %s", speakerStyle.Render(turn.Speaker.Label()+":"), text))
	}
	return b.String()
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(70)

	content := fmt.Sprintf("Overall: %d/%d complete", m.CompletedFiles+m.FailedFiles, m.TotalFiles)
	if m.FailedFiles > 0 {
		content += fmt.Sprintf(" (%d failed)", m.FailedFiles)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Transcription Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, file := range m.Files {
		switch file.Status {
		case StatusComplete:
			b.WriteString(renderCompletedFile(file))
			b.WriteString("\n")
		case StatusError:
			icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
			b.WriteString(fmt.Sprintf(" %s %s\n   Error: %v\n", icon, filepath.Base(file.InputPath), file.Error))
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 70))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d file(s) transcribed\n", m.CompletedFiles, m.TotalFiles))

	return b.String()
}

// renderCompletedFile renders a summary for a completed file
func renderCompletedFile(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)

	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")

	return fmt.Sprintf(" %s %s\n"+
		"   Turns: %d | Segments: %d transcribed, %d silence, %d empty, %d failed\n"+
		"   Audio: %.1fs in %.1fs",
		icon, fileName,
		len(file.Partial.Turns),
		file.Stats.Transcribed, file.Stats.SkippedSilence, file.Stats.SkippedEmpty, file.Stats.Failed,
		file.Partial.TotalDuration, file.ElapsedTime.Seconds())
}
