package prompt

import (
	"strings"

	"github.com/linuxmatters/crosstalk/internal/dialogue"
)

// partSeparator joins the prompt sections (base prompt, entities,
// vocabulary, dialogue tail).
const partSeparator = ". "

// Build assembles the decoding-context string for the next transcription
// call. It is a pure function of the snapshot, the turn history accumulated
// so far and the vocabulary terms: same inputs, same string.
//
// Sections are appended in a fixed order and only when non-empty:
//  1. the base context prompt, verbatim;
//  2. "Named entities: ..." mined from the recent turn window;
//  3. "Vocabulary: ..." with at most 15 terms, oldest first;
//  4. the last MaxRecentTurns turns as "Speaker 1: text Speaker 2: text".
//
// The joined result is truncated to MaxContextLength on a word boundary.
func Build(snapshot ContextSnapshot, turns []dialogue.Turn, vocabulary []string) string {
	snapshot = snapshot.Normalize()
	var parts []string

	if base := strings.TrimSpace(snapshot.BaseContextPrompt); base != "" {
		parts = append(parts, base)
	}

	if snapshot.EnableEntityExtraction && len(turns) > 0 {
		if entities := extractEntities(turns); len(entities) > 0 {
			parts = append(parts, "Named entities: "+strings.Join(entities, ", "))
		}
	}

	if snapshot.EnableVocabularyIntegration && len(vocabulary) > 0 {
		terms := vocabulary
		if len(terms) > maxVocabularyTerms {
			terms = terms[:maxVocabularyTerms]
		}
		parts = append(parts, "Vocabulary: "+strings.Join(terms, ", "))
	}

	if tail := renderRecentTurns(turns, snapshot.MaxRecentTurns); tail != "" {
		parts = append(parts, tail)
	}

	return truncateAtWordBoundary(strings.Join(parts, partSeparator), snapshot.MaxContextLength)
}

// renderRecentTurns flattens the last maxTurns turns into the
// "SpeakerName: text" dialogue tail.
func renderRecentTurns(turns []dialogue.Turn, maxTurns int) string {
	if len(turns) == 0 || maxTurns <= 0 {
		return ""
	}
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	var b strings.Builder
	for i, turn := range turns {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(turn.Speaker.Label())
		b.WriteString(": ")
		b.WriteString(text)
	}
	return b.String()
}
