package models

import "gorm.io/gorm"

// UserBalance holds the current shots balance for a user. There is at most
// one row per user; all mutations go through the ledger package so every
// change is paired with a ShotTransaction row.
type UserBalance struct {
	gorm.Model
	UserID         uint  `gorm:"not null;uniqueIndex"`
	Balance        int64 `gorm:"not null;default:0"`
	LifetimeEarned int64 `gorm:"not null;default:0"`
	LifetimeSpent  int64 `gorm:"not null;default:0"`

	User User `gorm:"foreignKey:UserID"`
}

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeEarn   TransactionType = "earn"
	TransactionTypeSpend  TransactionType = "spend"
	TransactionTypeRefund TransactionType = "refund"
	TransactionTypeAdjust TransactionType = "adjust"
)

// TransactionStatus marks whether a ledger entry still counts toward the
// balance. Entries are never deleted.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusReversed  TransactionStatus = "reversed"
)

// ShotTransaction is an append-only ledger row recording a single balance
// mutation, with before/after snapshots and an optional link to the game
// round that caused it.
type ShotTransaction struct {
	gorm.Model
	UserID        uint              `gorm:"not null;index"`
	GameRoundID   *uint             `gorm:"index"`
	Type          TransactionType   `gorm:"type:varchar(20);not null;index"`
	Amount        int64             `gorm:"not null"` // signed: positive credits, negative debits
	BalanceBefore int64             `gorm:"not null"`
	BalanceAfter  int64             `gorm:"not null"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'"`
	Note          string            `gorm:"size:512"`

	User      User       `gorm:"foreignKey:UserID"`
	GameRound *GameRound `gorm:"foreignKey:GameRoundID"`
}
