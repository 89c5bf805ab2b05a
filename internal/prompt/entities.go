package prompt

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/linuxmatters/crosstalk/internal/dialogue"
)

// capitalizedWord matches a whole word that looks like a proper noun in
// Latin or Cyrillic script. Words are pre-split on non-letter runes because
// RE2's \b is ASCII-only and never fires inside Cyrillic text.
var capitalizedWord = regexp.MustCompile(`^(?:[A-Z][a-z]+|[А-ЯЁ][а-яё]+)$`)

// entityStopWords holds capitalized words that start sentences or carry no
// entity meaning: articles, pronouns, discourse markers and the speaker
// labels themselves.
var entityStopWords = map[string]struct{}{
	"The": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	"There": {}, "Then": {}, "They": {}, "Them": {},
	"She": {}, "Her": {}, "Him": {}, "His": {}, "Hers": {},
	"You": {}, "Your": {}, "Yours": {}, "Our": {}, "Ours": {}, "My": {}, "Mine": {},
	"What": {}, "When": {}, "Where": {}, "Which": {}, "Who": {}, "Why": {}, "How": {},
	"And": {}, "But": {}, "Not": {}, "Now": {}, "Just": {},
	"Yes": {}, "Yeah": {}, "Okay": {}, "Well": {}, "Right": {}, "Sure": {},
	"Hello": {}, "Thanks": {}, "Please": {},
	"Speaker": {},
	"Это":     {}, "Этот": {}, "Эта": {}, "Они": {}, "Она": {},
	"Вот": {}, "Ваш": {}, "Наш": {}, "Как": {}, "Что": {}, "Где": {}, "Когда": {},
	"Да": {}, "Нет": {}, "Ну": {}, "Хорошо": {}, "Спасибо": {}, "Алло": {},
}

// extractEntities mines capitalized-word entities from the last
// entityTurnWindow turns, deduplicated and alphabetically sorted.
func extractEntities(turns []dialogue.Turn) []string {
	if len(turns) > entityTurnWindow {
		turns = turns[len(turns)-entityTurnWindow:]
	}

	seen := make(map[string]struct{})
	for _, turn := range turns {
		words := strings.FieldsFunc(turn.Text, func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		for _, word := range words {
			if !capitalizedWord.MatchString(word) {
				continue
			}
			if _, stop := entityStopWords[word]; stop {
				continue
			}
			seen[word] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	entities := make([]string, 0, len(seen))
	for word := range seen {
		entities = append(entities, word)
	}
	sort.Strings(entities)
	return entities
}
