package models

import "gorm.io/gorm"

// Quiz represents a generated quiz for a document. Quizzes are immutable
// after generation; there is no update or delete path.
type Quiz struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Title    string `gorm:"not null;size:200"`

	DocumentID uint `gorm:"not null;index"`

	TotalQuestions int            `gorm:"not null"`
	Questions      []QuizQuestion `gorm:"foreignKey:QuizID"`
}

// QuizQuestion is a single multiple-choice question. CorrectAnswer is an
// index into Options and is the authoritative answer for scoring.
type QuizQuestion struct {
	gorm.Model
	QuizID   uint `gorm:"not null;index" json:"-"`
	Position int  `gorm:"not null"`

	Prompt        string   `gorm:"not null;size:1000"`
	Options       []string `gorm:"serializer:json;not null"`
	CorrectAnswer int      `gorm:"not null"`
	Explanation   string   `gorm:"size:2000"`
}
