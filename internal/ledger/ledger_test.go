package ledger

import (
	"testing"

	"partyquiz/backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GamePlayer{},
		&models.Question{},
		&models.GameRound{},
		&models.UserBalance{},
		&models.ShotTransaction{},
	))
	return db
}

func TestGetOrCreateBalance(t *testing.T) {
	db := newTestDB(t)

	balance, err := GetOrCreateBalance(db, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), balance.UserID)
	assert.EqualValues(t, 0, balance.Balance)

	// A second call returns the same row, never a duplicate.
	again, err := GetOrCreateBalance(db, 1)
	require.NoError(t, err)
	assert.Equal(t, balance.ID, again.ID)

	var count int64
	db.Model(&models.UserBalance{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEarnAndSpend(t *testing.T) {
	db := newTestDB(t)

	entry, err := Earn(db, 1, 5, nil, "round win")
	require.NoError(t, err)
	assert.EqualValues(t, 0, entry.BalanceBefore)
	assert.EqualValues(t, 5, entry.BalanceAfter)
	assert.Equal(t, models.TransactionTypeEarn, entry.Type)
	assert.Equal(t, models.TransactionStatusCompleted, entry.Status)

	entry, err = Spend(db, 1, 2, nil, "penalty drink")
	require.NoError(t, err)
	assert.EqualValues(t, -2, entry.Amount)
	assert.EqualValues(t, 5, entry.BalanceBefore)
	assert.EqualValues(t, 3, entry.BalanceAfter)

	balance, err := GetOrCreateBalance(db, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, balance.Balance)
	assert.EqualValues(t, 5, balance.LifetimeEarned)
	assert.EqualValues(t, 2, balance.LifetimeSpent)
}

func TestSpendOverdraftRejected(t *testing.T) {
	db := newTestDB(t)

	_, err := Earn(db, 1, 3, nil, "")
	require.NoError(t, err)

	_, err = Spend(db, 1, 5, nil, "")
	assert.ErrorIs(t, err, ErrInsufficientShots)

	// Nothing was written: balance unchanged, no spend row.
	balance, err := GetOrCreateBalance(db, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, balance.Balance)

	var count int64
	db.Model(&models.ShotTransaction{}).Where("type = ?", models.TransactionTypeSpend).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestInvalidAmounts(t *testing.T) {
	db := newTestDB(t)

	_, err := Apply(db, 1, models.TransactionTypeEarn, 0, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Apply(db, 1, models.TransactionTypeEarn, -3, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Apply(db, 1, models.TransactionTypeSpend, 3, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Apply(db, 1, models.TransactionType("bogus"), 3, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Spend(db, 1, -2, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAdjustBothDirections(t *testing.T) {
	db := newTestDB(t)

	_, err := Adjust(db, 1, 10, "migration credit")
	require.NoError(t, err)

	entry, err := Adjust(db, 1, -4, "correction")
	require.NoError(t, err)
	assert.EqualValues(t, 10, entry.BalanceBefore)
	assert.EqualValues(t, 6, entry.BalanceAfter)

	// Negative adjustments still can't overdraw.
	_, err = Adjust(db, 1, -100, "bad correction")
	assert.ErrorIs(t, err, ErrInsufficientShots)
}

func TestLedgerChainConsistency(t *testing.T) {
	db := newTestDB(t)

	amounts := []int64{5, 3, -2, 7, -1, -4}
	for _, amount := range amounts {
		var err error
		if amount > 0 {
			_, err = Earn(db, 1, amount, nil, "")
		} else {
			_, err = Spend(db, 1, -amount, nil, "")
		}
		require.NoError(t, err)
	}

	var entries []models.ShotTransaction
	require.NoError(t, db.Where("user_id = ?", 1).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, len(amounts))

	// Every row's before matches the previous row's after, and the final
	// after matches the stored balance.
	var running int64
	for _, entry := range entries {
		assert.Equal(t, running, entry.BalanceBefore)
		assert.Equal(t, entry.BalanceBefore+entry.Amount, entry.BalanceAfter)
		running = entry.BalanceAfter
	}

	balance, err := GetOrCreateBalance(db, 1)
	require.NoError(t, err)
	assert.Equal(t, running, balance.Balance)
}

func TestRoundLinkedTransaction(t *testing.T) {
	db := newTestDB(t)

	game := models.Game{Name: "test", JoinCode: "ABCD1234", Status: models.GameStatusStarted, HostID: 1}
	require.NoError(t, db.Create(&game).Error)
	round := models.GameRound{GameID: game.ID, RoundNumber: 1, Type: models.QuestionTypeOpen, Prompt: "?", Answer: "!"}
	require.NoError(t, db.Create(&round).Error)

	roundID := round.ID
	entry, err := Earn(db, 1, 2, &roundID, "correct answer")
	require.NoError(t, err)
	require.NotNil(t, entry.GameRoundID)
	assert.Equal(t, round.ID, *entry.GameRoundID)

	var loaded models.ShotTransaction
	require.NoError(t, db.Preload("GameRound").First(&loaded, entry.ID).Error)
	require.NotNil(t, loaded.GameRound)
	assert.Equal(t, round.Prompt, loaded.GameRound.Prompt)
}
