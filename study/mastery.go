package study

import (
	"time"

	"github.com/studydeck/studydeck-api/models"
)

// ApplyReview moves a flashcard's mastery level one step up or down based
// on the user's self-reported recall, clamped to [0, models.MaxMasteryLevel],
// and stamps LastReviewed. This is the only mutation path for mastery.
func ApplyReview(card *models.Flashcard, correct bool, now time.Time) {
	if correct {
		if card.MasteryLevel < models.MaxMasteryLevel {
			card.MasteryLevel++
		}
	} else if card.MasteryLevel > 0 {
		card.MasteryLevel--
	}
	card.LastReviewed = &now
}
