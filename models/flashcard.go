package models

import (
	"time"

	"gorm.io/gorm"
)

// Flashcard difficulty buckets as reported by the generation service.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// MaxMasteryLevel is the upper bound of the 0-5 mastery scale.
const MaxMasteryLevel = 5

// Flashcard represents an individual flashcard generated from a document.
// DocumentID records where the card came from; deleting the document does
// not delete the card.
type Flashcard struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Question string `gorm:"not null;size:1000"`
	Answer   string `gorm:"not null;size:2000"`

	DocumentID uint `gorm:"not null;index"`

	Difficulty   string     `gorm:"size:10;default:medium"`
	MasteryLevel int        `gorm:"default:0"`
	LastReviewed *time.Time `gorm:"default:null"`
}
