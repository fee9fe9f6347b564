package models

import "gorm.io/gorm"

// Session types recorded in the study_sessions log.
const (
	SessionTypeFlashcard = "flashcard"
	SessionTypeQuiz      = "quiz"
	SessionTypeChat      = "chat"
)

// StudySession is one logged unit of study activity: a flashcard review
// batch, a quiz attempt, or a chat turn. Rows are append-only; the
// application never updates or deletes them.
type StudySession struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`

	UserID uint `gorm:"not null;index"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	SessionType string `gorm:"not null;size:20"`
	// ContentID loosely references the document, flashcard deck or quiz
	// the session was about. Not enforced as a foreign key.
	ContentID string `gorm:"size:100"`

	// Score is only meaningful for quiz sessions (0-100).
	Score           *int `gorm:"default:null"`
	Completed       bool `gorm:"default:false"`
	DurationMinutes int  `gorm:"not null"`
}
