package study

import (
	"math"
	"time"

	"github.com/studydeck/studydeck-api/models"
)

// SessionContext carries the wall-clock start of a study activity. It is
// passed explicitly into the session constructors rather than held as
// ambient state, so retakes and concurrent activities each get their own
// start time.
type SessionContext struct {
	Start time.Time
}

// DurationMinutes returns the elapsed time since the context started,
// rounded to whole minutes.
func (c SessionContext) DurationMinutes(now time.Time) int {
	return int(math.Round(now.Sub(c.Start).Minutes()))
}

// QuizSession builds the completed session record emitted when a quiz
// attempt finishes. Quiz sessions are the only ones that carry a score.
func QuizSession(userID uint, quizID string, score int, ctx SessionContext, now time.Time) models.StudySession {
	return models.StudySession{
		UserID:          userID,
		SessionType:     models.SessionTypeQuiz,
		ContentID:       quizID,
		Score:           &score,
		Completed:       true,
		DurationMinutes: ctx.DurationMinutes(now),
	}
}

// FlashcardSession builds the session record emitted when the user
// explicitly finishes a flashcard review batch.
func FlashcardSession(userID uint, documentID string, ctx SessionContext, now time.Time) models.StudySession {
	return models.StudySession{
		UserID:          userID,
		SessionType:     models.SessionTypeFlashcard,
		ContentID:       documentID,
		Completed:       true,
		DurationMinutes: ctx.DurationMinutes(now),
	}
}

// ChatSession builds the session record logged for a single chat turn.
// Each AI reply counts as one completed one-minute session. Whether a
// lone message should really count as a "study session" is a product
// question; the granularity is kept as-is here.
func ChatSession(userID uint, documentID string) models.StudySession {
	return models.StudySession{
		UserID:          userID,
		SessionType:     models.SessionTypeChat,
		ContentID:       documentID,
		Completed:       true,
		DurationMinutes: 1,
	}
}
