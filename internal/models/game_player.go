package models

import "gorm.io/gorm"

// GamePlayer joins a User to a Game and carries per-game counters.
// A user appears at most once per game.
type GamePlayer struct {
	gorm.Model
	GameID         uint `gorm:"not null;uniqueIndex:idx_game_user"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_game_user"`
	Score          int  `gorm:"not null;default:0"`
	AnsweredCount  int  `gorm:"not null;default:0"`
	CorrectAnswers int  `gorm:"not null;default:0"`
	IsHost         bool `gorm:"not null;default:false"`
	IsSpectator    bool `gorm:"not null;default:false"`

	Game Game `gorm:"foreignKey:GameID"`
	User User `gorm:"foreignKey:UserID"`
}
