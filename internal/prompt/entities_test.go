package prompt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxmatters/crosstalk/internal/dialogue"
)

func turnsOf(texts ...string) []dialogue.Turn {
	turns := make([]dialogue.Turn, len(texts))
	for i, text := range texts {
		turns[i] = dialogue.Turn{Speaker: dialogue.SpeakerLeft, Text: text}
	}
	return turns
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name  string
		turns []dialogue.Turn
		want  []string
	}{
		{
			name:  "latin proper nouns",
			turns: turnsOf("Viktor moved to London last year"),
			want:  []string{"London", "Viktor"},
		},
		{
			name:  "cyrillic proper nouns",
			turns: turnsOf("Виктор переехал в Москву"),
			want:  []string{"Виктор", "Москву"},
		},
		{
			name:  "stop words excluded",
			turns: turnsOf("The weather is nice, Thanks again", "Да, Спасибо за звонок"),
			want:  nil,
		},
		{
			name:  "speaker labels excluded",
			turns: turnsOf("Speaker said something"),
			want:  nil,
		},
		{
			name:  "all lowercase yields nothing",
			turns: turnsOf("just a plain sentence"),
			want:  nil,
		},
		{
			name:  "deduplicated and sorted",
			turns: turnsOf("Anna called Boris", "Boris answered Anna"),
			want:  []string{"Anna", "Boris"},
		},
		{
			name:  "all-caps acronyms ignored",
			turns: turnsOf("The API and the SDK are down"),
			want:  nil,
		},
		{
			name:  "punctuation does not glue words",
			turns: turnsOf("Hello,Viktor.London"),
			want:  []string{"London", "Viktor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractEntities(tt.turns)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractEntitiesWindowsRecentTurns(t *testing.T) {
	var turns []dialogue.Turn
	turns = append(turns, dialogue.Turn{Text: "Старый client named Zebulon"})
	for i := 0; i < entityTurnWindow-1; i++ {
		turns = append(turns, dialogue.Turn{Text: fmt.Sprintf("filler utterance %d", i)})
	}
	turns = append(turns, dialogue.Turn{Text: "recent mention of Quentin"})

	got := extractEntities(turns)

	assert.Contains(t, got, "Quentin")
	assert.NotContains(t, got, "Zebulon", "entities older than the turn window must be dropped")
}
