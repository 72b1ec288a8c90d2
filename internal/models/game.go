package models

import "gorm.io/gorm"

// GameStatus defines the lifecycle state of a game.
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusStarted  GameStatus = "started"
	GameStatusFinished GameStatus = "finished"
)

// Game represents a single party trivia session.
type Game struct {
	gorm.Model
	Name       string     `gorm:"size:255;not null"`
	JoinCode   string     `gorm:"size:12;unique;not null;index"`
	Status     GameStatus `gorm:"type:varchar(20);not null;default:'waiting'"`
	HostID     uint       `gorm:"not null"`
	MaxPlayers int        `gorm:"not null;default:8"`
	RoundLimit int        `gorm:"not null;default:10"`
	// ChillMode excludes explicit questions at draw time and hides
	// flagged rounds from the player-facing round list.
	ChillMode    bool `gorm:"not null;default:false"`
	CurrentRound int  `gorm:"not null;default:0"`

	Host    User         `gorm:"foreignKey:HostID"`
	Players []GamePlayer `gorm:"foreignKey:GameID"`
	Rounds  []GameRound  `gorm:"foreignKey:GameID"`
}
