// Package question implements drawing questions from the bank into game
// rounds and the chill-mode filtering of player-facing round lists.
package question

import (
	"errors"

	"partyquiz/backend/internal/models"

	"gorm.io/gorm"
)

// ErrBankExhausted is returned when no question in the bank matches the
// game's filters that hasn't already been used in this game.
var ErrBankExhausted = errors.New("question: no unused questions left for this game")

// Draw picks a random approved question for the game and returns the
// GameRound snapshot for it, without persisting anything. Chill-mode games
// never draw explicit questions, and a question is not repeated within a
// game. Rounds soft-deleted by a reset no longer count as used.
func Draw(db *gorm.DB, game *models.Game) (*models.GameRound, error) {
	used := db.Model(&models.GameRound{}).
		Select("question_id").
		Where("game_id = ? AND question_id IS NOT NULL", game.ID)

	query := db.Model(&models.Question{}).
		Where("approved = ?", true).
		Where("id NOT IN (?)", used)

	if game.ChillMode {
		query = query.Where("explicit = ?", false)
	}

	var q models.Question
	if err := query.Order("RANDOM()").First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankExhausted
		}
		return nil, err
	}

	questionID := q.ID
	return &models.GameRound{
		GameID:      game.ID,
		RoundNumber: game.CurrentRound + 1,
		QuestionID:  &questionID,
		Type:        q.Type,
		Prompt:      q.Prompt,
		Options:     q.Options,
		Answer:      q.Answer,
		Category:    q.Category,
	}, nil
}

// PlayerRounds returns the rounds of a game as players should see them,
// plus the server-side total. For chill-mode games flagged rounds are
// dropped from the list but still counted in the total.
func PlayerRounds(db *gorm.DB, game *models.Game) ([]models.GameRound, int64, error) {
	var total int64
	if err := db.Model(&models.GameRound{}).Where("game_id = ?", game.ID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Where("game_id = ?", game.ID).Order("round_number ASC")
	if game.ChillMode {
		query = query.Where("flagged = ?", false)
	}

	var rounds []models.GameRound
	if err := query.Find(&rounds).Error; err != nil {
		return nil, 0, err
	}
	return rounds, total, nil
}
