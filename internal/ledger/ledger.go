// Package ledger implements shots bookkeeping: a per-user balance row plus
// an append-only transaction log. Every balance mutation happens inside a
// single database transaction that writes exactly one ledger row whose
// before/after snapshots match the stored balance.
package ledger

import (
	"errors"

	"partyquiz/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidAmount is returned for zero amounts or amounts whose sign
	// does not match the transaction type.
	ErrInvalidAmount = errors.New("ledger: invalid amount for transaction type")

	// ErrInsufficientShots is returned when a spend would overdraw the balance.
	ErrInsufficientShots = errors.New("ledger: insufficient shots")
)

// GetOrCreateBalance returns the user's balance row, creating a zeroed one
// if none exists yet.
func GetOrCreateBalance(db *gorm.DB, userID uint) (*models.UserBalance, error) {
	var balance models.UserBalance
	err := db.Where(models.UserBalance{UserID: userID}).FirstOrCreate(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// Apply records a signed balance mutation for a user. Positive amounts
// credit, negative amounts debit. The balance update and the ledger row are
// committed atomically; on any failure nothing is written.
func Apply(db *gorm.DB, userID uint, txType models.TransactionType, amount int64, roundID *uint, note string) (*models.ShotTransaction, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	switch txType {
	case models.TransactionTypeEarn, models.TransactionTypeRefund:
		if amount < 0 {
			return nil, ErrInvalidAmount
		}
	case models.TransactionTypeSpend:
		if amount > 0 {
			return nil, ErrInvalidAmount
		}
	case models.TransactionTypeAdjust:
		// Adjustments may go either way.
	default:
		return nil, ErrInvalidAmount
	}

	var entry models.ShotTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetOrCreateBalance(tx, userID); err != nil {
			return err
		}

		// Lock the row so concurrent mutations serialize and the overdraft
		// check holds under read committed. SQLite has no row locks and
		// serializes writers on its own.
		var balance models.UserBalance
		query := tx.Where("user_id = ?", userID)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&balance).Error; err != nil {
			return err
		}

		before := balance.Balance
		after := before + amount
		if after < 0 {
			return ErrInsufficientShots
		}

		balance.Balance = after
		if amount > 0 {
			balance.LifetimeEarned += amount
		} else {
			balance.LifetimeSpent += -amount
		}
		if err := tx.Save(&balance).Error; err != nil {
			return err
		}

		entry = models.ShotTransaction{
			UserID:        userID,
			GameRoundID:   roundID,
			Type:          txType,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Status:        models.TransactionStatusCompleted,
			Note:          note,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Earn credits shots to a user, optionally tied to a game round.
func Earn(db *gorm.DB, userID uint, amount int64, roundID *uint, note string) (*models.ShotTransaction, error) {
	return Apply(db, userID, models.TransactionTypeEarn, amount, roundID, note)
}

// Spend debits shots from a user. amount is the positive number of shots to
// spend; the ledger row records it as a negative amount.
func Spend(db *gorm.DB, userID uint, amount int64, roundID *uint, note string) (*models.ShotTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return Apply(db, userID, models.TransactionTypeSpend, -amount, roundID, note)
}

// Adjust applies a signed manual correction, used by admin tooling.
func Adjust(db *gorm.DB, userID uint, amount int64, note string) (*models.ShotTransaction, error) {
	return Apply(db, userID, models.TransactionTypeAdjust, amount, nil, note)
}
