package models

import "gorm.io/gorm"

// QuestionType defines how a question is asked and answered.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeOpen           QuestionType = "open"
)

// Question is a bank entry that rounds are drawn from. Player-submitted
// questions carry SubmittedByID and stay unapproved until an admin
// reviews them.
type Question struct {
	gorm.Model
	Type     QuestionType `gorm:"type:varchar(30);not null;default:'multiple_choice'"`
	Prompt   string       `gorm:"not null"`
	Options  string       `gorm:"type:text"` // JSON-encoded array of choices
	Answer   string       `gorm:"size:512;not null"`
	Category string       `gorm:"size:100;index"`
	// Explicit questions are skipped when drawing for chill-mode games.
	Explicit      bool  `gorm:"not null;default:false"`
	Approved      bool  `gorm:"not null;default:false"`
	SubmittedByID *uint `gorm:"index"` // nil for seeded bank questions

	SubmittedBy *User `gorm:"foreignKey:SubmittedByID"`
}
