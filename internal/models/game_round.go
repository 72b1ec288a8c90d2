package models

import "gorm.io/gorm"

// FlagThreshold is the number of player flags after which a round is
// considered flagged for moderation purposes.
const FlagThreshold = 3

// GameRound is a question instance drawn into a game. Question fields are
// snapshotted so later bank edits don't rewrite played rounds. Rounds are
// soft-deleted on game reset so ledger rows referencing them stay valid.
type GameRound struct {
	gorm.Model
	GameID      uint         `gorm:"not null;index"`
	RoundNumber int          `gorm:"not null"`
	QuestionID  *uint        `gorm:"index"` // source bank question, if any
	Type        QuestionType `gorm:"type:varchar(30);not null"`
	Prompt      string       `gorm:"not null"`
	Options     string       `gorm:"type:text"`
	Answer      string       `gorm:"size:512;not null"`
	Category    string       `gorm:"size:100"`
	Flagged     bool         `gorm:"not null;default:false"`
	FlagCount   int          `gorm:"not null;default:0"`

	Game Game `gorm:"foreignKey:GameID"`
}
