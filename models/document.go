package models

import "gorm.io/gorm"

// Document represents an uploaded study document. The extracted text is
// stored at upload time and never edited afterwards; the only mutation
// path is deletion by the owner.
type Document struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Title    string `gorm:"not null;size:200"`
	Content  string `gorm:"not null;type:text"`
	FileType string `gorm:"size:10"`

	UserID uint `gorm:"not null;index"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}
